package viewer

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"bar-access-app/internal/models"
	"bar-access-app/pkg/logger"
)

// SaveFunc persists the decrypted payload outside the viewer. The renderer
// never writes to disk itself.
type SaveFunc func(filename string, data []byte)

// Renderer builds a display widget for a decrypted access result
type Renderer struct {
	logger *logger.Logger
	onSave SaveFunc
}

func NewRenderer(log *logger.Logger, onSave SaveFunc) *Renderer {
	if log == nil {
		log = logger.NewWithComponent("viewer")
	}
	return &Renderer{logger: log, onSave: onSave}
}

// Render returns the content widget for the result. View-only results never
// contain a save control regardless of category.
func (r *Renderer) Render(result *models.AccessResult) fyne.CanvasObject {
	category := Categorize(result.Filename)
	r.logger.InfoWithFields("Rendering decrypted content", map[string]interface{}{
		"filename": result.Filename,
		"category": string(category),
		"size":     len(result.Payload),
	})

	var body fyne.CanvasObject
	switch category {
	case CategoryText, CategoryData:
		body = r.renderText(result, false)
	case CategoryCode:
		body = r.renderText(result, true)
	case CategoryWeb:
		body = r.renderMarkupAsText(result)
	case CategoryImage:
		body = r.renderImage(result)
	case CategoryVideo:
		body = r.renderNotice(result, "Video preview is not supported")
	case CategoryAudio:
		body = r.renderNotice(result, "Audio preview is not supported")
	case CategoryPDF:
		body = r.renderNotice(result, "PDF preview is not supported")
	case CategoryOffice:
		body = r.renderNotice(result, "Office document preview is not supported")
	default:
		body = r.renderNotice(result, "No preview available for this file type")
	}

	footer := r.footer(result)
	if footer == nil {
		return body
	}
	return container.NewBorder(nil, footer, nil, nil, body)
}

// saveControl is the only place a save affordance is constructed. It returns
// nil for view-only results, so every category path inherits the restriction.
func (r *Renderer) saveControl(result *models.AccessResult) fyne.CanvasObject {
	if result.ViewOnly || r.onSave == nil {
		return nil
	}
	filename := result.Filename
	payload := result.Payload
	return widget.NewButtonWithIcon("Save file", theme.DownloadIcon(), func() {
		r.onSave(filename, payload)
	})
}

func (r *Renderer) footer(result *models.AccessResult) fyne.CanvasObject {
	save := r.saveControl(result)
	badges := []fyne.CanvasObject{}
	if result.ViewOnly {
		badge := widget.NewLabel("View only")
		badge.TextStyle = fyne.TextStyle{Italic: true}
		badges = append(badges, badge)
	}
	if result.ViewsRemaining > 0 {
		badges = append(badges, widget.NewLabel(fmt.Sprintf("%d views remaining", result.ViewsRemaining)))
	}
	if save == nil && len(badges) == 0 {
		return nil
	}
	items := badges
	if save != nil {
		items = append(items, layoutSpacer(), save)
	}
	return container.NewHBox(items...)
}

func layoutSpacer() fyne.CanvasObject {
	return widget.NewLabel(" ")
}

func (r *Renderer) renderText(result *models.AccessResult, monospace bool) fyne.CanvasObject {
	if !utf8.Valid(result.Payload) {
		return r.renderNotice(result, "File content is not valid text")
	}
	label := widget.NewLabel(string(result.Payload))
	label.Wrapping = fyne.TextWrapWord
	if monospace {
		label.TextStyle = fyne.TextStyle{Monospace: true}
	}
	return container.NewScroll(label)
}

// renderMarkupAsText shows HTML and similar markup as escaped source. The
// viewer never interprets active content from a decrypted payload.
func (r *Renderer) renderMarkupAsText(result *models.AccessResult) fyne.CanvasObject {
	if !utf8.Valid(result.Payload) {
		return r.renderNotice(result, "File content is not valid text")
	}
	label := widget.NewLabel(string(result.Payload))
	label.Wrapping = fyne.TextWrapWord
	label.TextStyle = fyne.TextStyle{Monospace: true}
	note := widget.NewLabel("Markup is shown as source, not rendered")
	note.TextStyle = fyne.TextStyle{Italic: true}
	return container.NewBorder(note, nil, nil, nil, container.NewScroll(label))
}

func (r *Renderer) renderImage(result *models.AccessResult) fyne.CanvasObject {
	img := canvas.NewImageFromReader(bytes.NewReader(result.Payload), result.Filename)
	if img == nil {
		return r.renderNotice(result, "Image could not be decoded")
	}
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(320, 240))
	return img
}

func (r *Renderer) renderNotice(result *models.AccessResult, message string) fyne.CanvasObject {
	icon := widget.NewIcon(theme.FileIcon())
	name := widget.NewLabel(result.Filename)
	name.TextStyle = fyne.TextStyle{Bold: true}
	name.Alignment = fyne.TextAlignCenter
	msg := widget.NewLabel(message)
	msg.Alignment = fyne.TextAlignCenter
	size := widget.NewLabel(fmt.Sprintf("%d bytes", len(result.Payload)))
	size.Alignment = fyne.TextAlignCenter
	return container.NewVBox(
		layoutSpacer(),
		container.NewCenter(icon),
		name,
		msg,
		size,
	)
}
