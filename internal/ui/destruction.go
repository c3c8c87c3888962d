package ui

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// DefaultDestructionDuration is how long the terminal notice plays before
// the completion callback fires
const DefaultDestructionDuration = 4 * time.Second

// DestructionNotice is the terminal animation shown when the server signals
// that this access consumed the final view. The completion callback fires
// exactly once, after the fixed duration, unless the notice is cancelled
// first.
type DestructionNotice struct {
	mu        sync.Mutex
	duration  time.Duration
	timer     *time.Timer
	started   bool
	cancelled bool
	fired     bool

	onComplete func()

	content  *fyne.Container
	progress *widget.ProgressBarInfinite
	message  *widget.Label
}

func NewDestructionNotice(duration time.Duration, onComplete func()) *DestructionNotice {
	if duration <= 0 {
		duration = DefaultDestructionDuration
	}
	d := &DestructionNotice{
		duration:   duration,
		onComplete: onComplete,
	}

	title := widget.NewLabelWithStyle("This file is being destroyed",
		fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	d.message = widget.NewLabel("The final view has been used. The share is no longer accessible.")
	d.message.Alignment = fyne.TextAlignCenter
	d.message.Wrapping = fyne.TextWrapWord
	d.progress = widget.NewProgressBarInfinite()

	d.content = container.NewVBox(
		container.NewCenter(widget.NewIcon(theme.DeleteIcon())),
		title,
		d.message,
		d.progress,
	)
	return d
}

// Object returns the widget to display while the notice plays
func (d *DestructionNotice) Object() fyne.CanvasObject {
	return d.content
}

// Start begins the countdown. Calling Start again has no effect.
func (d *DestructionNotice) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.cancelled {
		return
	}
	d.started = true
	d.progress.Start()
	d.timer = time.AfterFunc(d.duration, d.complete)
}

// Cancel stops the countdown before completion. The callback will not fire.
func (d *DestructionNotice) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fired {
		return
	}
	d.cancelled = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.progress.Stop()
}

func (d *DestructionNotice) complete() {
	d.mu.Lock()
	if d.cancelled || d.fired {
		d.mu.Unlock()
		return
	}
	d.fired = true
	callback := d.onComplete
	d.mu.Unlock()

	d.progress.Stop()
	if callback != nil {
		callback()
	}
}

// Completed reports whether the callback has fired
func (d *DestructionNotice) Completed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fired
}
