package protect

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const (
	watermarkTileWidth  float32 = 180
	watermarkTileHeight float32 = 90
	watermarkTextSize   float32 = 13
)

var watermarkColor = color.NRGBA{R: 128, G: 128, B: 128, A: 55}

// watermarkLayer tiles a faint identifying label across the content area.
// It sits above the content in a stack and ignores all input.
type watermarkLayer struct {
	widget.BaseWidget
	text string
}

func newWatermarkLayer(text string) *watermarkLayer {
	w := &watermarkLayer{text: text}
	w.ExtendBaseWidget(w)
	return w
}

func (w *watermarkLayer) CreateRenderer() fyne.WidgetRenderer {
	return &watermarkRenderer{layer: w}
}

type watermarkRenderer struct {
	layer *watermarkLayer
	texts []*canvas.Text
}

func (r *watermarkRenderer) Layout(size fyne.Size) {
	cols := int(size.Width/watermarkTileWidth) + 2
	rows := int(size.Height/watermarkTileHeight) + 2
	needed := cols * rows

	for len(r.texts) < needed {
		t := canvas.NewText(r.layer.text, watermarkColor)
		t.TextSize = watermarkTextSize
		r.texts = append(r.texts, t)
	}
	for i, t := range r.texts {
		if i >= needed {
			t.Hide()
			continue
		}
		t.Show()
		row := i / cols
		col := i % cols
		// stagger odd rows for a diagonal pattern
		offset := float32(0)
		if row%2 == 1 {
			offset = watermarkTileWidth / 2
		}
		t.Move(fyne.NewPos(
			float32(col)*watermarkTileWidth+offset-watermarkTileWidth/2,
			float32(row)*watermarkTileHeight,
		))
		t.Resize(t.MinSize())
	}
}

func (r *watermarkRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

func (r *watermarkRenderer) Refresh() {
	for _, t := range r.texts {
		t.Text = r.layer.text
		canvas.Refresh(t)
	}
}

func (r *watermarkRenderer) Objects() []fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, len(r.texts))
	for i, t := range r.texts {
		objects[i] = t
	}
	return objects
}

func (r *watermarkRenderer) Destroy() {}
