package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ViewerWindow displays decrypted content after access is granted
type ViewerWindow struct {
	app    fyne.App
	window fyne.Window

	headerLabel *widget.Label
	contentArea *fyne.Container

	// OnClosed is invoked when the user closes the viewer
	OnClosed func()
}

// NewViewerWindow creates a viewer window; it stays hidden until Show
func NewViewerWindow(app fyne.App) *ViewerWindow {
	window := app.NewWindow("Bar - Viewer")
	window.Resize(fyne.NewSize(760, 560))
	window.SetIcon(theme.FileIcon())

	vw := &ViewerWindow{
		app:    app,
		window: window,
	}

	vw.headerLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	vw.contentArea = container.NewStack()
	window.SetContent(container.NewBorder(
		container.NewVBox(vw.headerLabel, widget.NewSeparator()),
		nil, nil, nil,
		vw.contentArea,
	))
	window.SetCloseIntercept(func() {
		window.Hide()
		if vw.OnClosed != nil {
			vw.OnClosed()
		}
	})
	return vw
}

// SetContent replaces the displayed content and header
func (vw *ViewerWindow) SetContent(filename string, obj fyne.CanvasObject) {
	vw.headerLabel.SetText(filename)
	vw.window.SetTitle(fmt.Sprintf("Bar - %s", filename))
	vw.contentArea.Objects = []fyne.CanvasObject{obj}
	vw.contentArea.Refresh()
}

// ShowDestruction replaces the content with the terminal notice
func (vw *ViewerWindow) ShowDestruction(notice *DestructionNotice) {
	vw.contentArea.Objects = []fyne.CanvasObject{container.NewCenter(notice.Object())}
	vw.contentArea.Refresh()
	notice.Start()
}

// Show displays the viewer window
func (vw *ViewerWindow) Show() {
	vw.window.Show()
}

// Hide hides the viewer window
func (vw *ViewerWindow) Hide() {
	vw.window.Hide()
}

// Window exposes the underlying window for lifecycle wiring
func (vw *ViewerWindow) Window() fyne.Window {
	return vw.window
}
