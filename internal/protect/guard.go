package protect

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// DefaultGraceHold keeps content obscured briefly after the window becomes
// visible again, so a quick foreground flick cannot capture a frame.
const DefaultGraceHold = 2 * time.Second

// Guard wraps displayed content with an obscuring overlay and a tiled
// watermark. The content is hidden whenever the window loses visibility,
// loses focus, or the pointer leaves the content region. It deters casual
// capture only; nothing here can stop a camera.
type Guard struct {
	mu sync.Mutex

	enabled       bool
	visible       bool
	focused       bool
	pointerInside bool
	inGrace       bool

	graceHold  time.Duration
	graceTimer *time.Timer

	root    *fyne.Container
	overlay *fyne.Container
	hover   *hoverRegion
}

// NewGuard wraps content in the protection stack. The watermark text is
// shown tiled over the content; pass an empty string to omit it.
func NewGuard(content fyne.CanvasObject, watermarkText string, enabled bool) *Guard {
	g := &Guard{
		enabled:       enabled,
		visible:       true,
		focused:       true,
		pointerInside: true,
		graceHold:     DefaultGraceHold,
	}

	backdrop := canvas.NewRectangle(color.NRGBA{R: 20, G: 20, B: 24, A: 245})
	notice := widget.NewLabel("Content hidden. Return to the window to continue viewing.")
	notice.Alignment = fyne.TextAlignCenter
	notice.Wrapping = fyne.TextWrapWord
	g.overlay = container.NewStack(backdrop, container.NewCenter(notice))
	g.overlay.Hide()

	g.hover = newHoverRegion(g.handlePointer)

	layers := []fyne.CanvasObject{content}
	if watermarkText != "" {
		layers = append(layers, newWatermarkLayer(watermarkText))
	}
	layers = append(layers, g.hover, g.overlay)
	g.root = container.NewStack(layers...)
	return g
}

// Object returns the stacked widget to place in the window
func (g *Guard) Object() fyne.CanvasObject {
	return g.root
}

func (g *Guard) SetEnabled(enabled bool) {
	g.mu.Lock()
	g.enabled = enabled
	g.mu.Unlock()
	g.apply()
}

// HandleVisibility reports the window entering or leaving the foreground.
// Returning to the foreground starts the grace hold before content reappears.
func (g *Guard) HandleVisibility(visible bool) {
	g.mu.Lock()
	wasVisible := g.visible
	g.visible = visible
	if visible && !wasVisible {
		g.startGraceLocked()
	}
	g.mu.Unlock()
	g.apply()
}

// HandleFocus reports window focus changes
func (g *Guard) HandleFocus(focused bool) {
	g.mu.Lock()
	g.focused = focused
	g.mu.Unlock()
	g.apply()
}

func (g *Guard) handlePointer(inside bool) {
	g.mu.Lock()
	g.pointerInside = inside
	g.mu.Unlock()
	g.apply()
}

// Obscured reports whether the overlay currently hides the content
func (g *Guard) Obscured() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.obscuredLocked()
}

func (g *Guard) obscuredLocked() bool {
	if !g.enabled {
		return false
	}
	return !g.visible || !g.focused || !g.pointerInside || g.inGrace
}

func (g *Guard) startGraceLocked() {
	if g.graceHold <= 0 {
		return
	}
	g.inGrace = true
	if g.graceTimer != nil {
		g.graceTimer.Stop()
	}
	g.graceTimer = time.AfterFunc(g.graceHold, func() {
		g.mu.Lock()
		g.inGrace = false
		g.mu.Unlock()
		g.apply()
	})
}

func (g *Guard) apply() {
	g.mu.Lock()
	obscured := g.obscuredLocked()
	g.mu.Unlock()

	if obscured {
		g.overlay.Show()
	} else {
		g.overlay.Hide()
	}
	g.overlay.Refresh()
}

// hoverRegion is a transparent widget tracking pointer presence over the
// content area
type hoverRegion struct {
	widget.BaseWidget
	onHover func(inside bool)
}

var _ desktop.Hoverable = (*hoverRegion)(nil)

func newHoverRegion(onHover func(inside bool)) *hoverRegion {
	h := &hoverRegion{onHover: onHover}
	h.ExtendBaseWidget(h)
	return h
}

func (h *hoverRegion) MouseIn(*desktop.MouseEvent) {
	h.onHover(true)
}

func (h *hoverRegion) MouseMoved(*desktop.MouseEvent) {}

func (h *hoverRegion) MouseOut() {
	h.onHover(false)
}

func (h *hoverRegion) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewWithoutLayout())
}
