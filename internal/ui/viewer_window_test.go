package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
)

func TestViewerWindow_Creation(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	vw := NewViewerWindow(testApp)
	if vw == nil {
		t.Fatal("Failed to create viewer window")
	}
	if vw.contentArea == nil {
		t.Error("Content area not initialized")
	}
}

func TestViewerWindow_SetContent(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	vw := NewViewerWindow(testApp)
	vw.SetContent("notes.txt", widget.NewLabel("hello"))

	if vw.headerLabel.Text != "notes.txt" {
		t.Errorf("Expected header 'notes.txt', got '%s'", vw.headerLabel.Text)
	}
	if len(vw.contentArea.Objects) != 1 {
		t.Errorf("Expected 1 content object, got %d", len(vw.contentArea.Objects))
	}

	vw.SetContent("other.txt", widget.NewLabel("replaced"))
	if len(vw.contentArea.Objects) != 1 {
		t.Error("SetContent should replace, not append")
	}
}

func TestViewerWindow_ShowDestruction(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	vw := NewViewerWindow(testApp)
	vw.SetContent("notes.txt", widget.NewLabel("hello"))

	done := make(chan struct{})
	notice := NewDestructionNotice(10*time.Millisecond, func() { close(done) })
	vw.ShowDestruction(notice)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Destruction callback did not fire")
	}
}
