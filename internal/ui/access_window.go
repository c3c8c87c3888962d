package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"bar-access-app/internal/access"
)

// AccessWindow represents the credential entry window for a share
type AccessWindow struct {
	app    fyne.App
	window fyne.Window

	// UI components
	titleLabel    *widget.Label
	passwordEntry *widget.Entry
	unlockBtn     *widget.Button
	statusLabel   *widget.Label

	otpSection  *fyne.Container
	otpHint     *widget.Label
	otpEntry    *widget.Entry
	sendCodeBtn *widget.Button
	verifyBtn   *widget.Button

	formBox *fyne.Container
	rootBox *fyne.Container

	// Callbacks for business logic integration (will be set by the controller)
	OnSubmitPassword func(password string)
	OnRequestOTP     func()
	OnVerifyOTP      func(code string)
}

// NewAccessWindow creates the credential entry window
func NewAccessWindow(app fyne.App, title string) *AccessWindow {
	window := app.NewWindow("Bar - Secure Access")
	window.Resize(fyne.NewSize(460, 420))
	window.SetIcon(theme.VisibilityOffIcon())

	aw := &AccessWindow{
		app:    app,
		window: window,
	}

	aw.setupUI(title)
	return aw
}

func (aw *AccessWindow) setupUI(title string) {
	aw.titleLabel = widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	aw.passwordEntry = widget.NewPasswordEntry()
	aw.passwordEntry.SetPlaceHolder("Password (leave empty if none)")
	aw.passwordEntry.OnSubmitted = func(string) { aw.submit() }

	aw.unlockBtn = widget.NewButtonWithIcon("Unlock", theme.LoginIcon(), aw.submit)
	aw.unlockBtn.Importance = widget.HighImportance

	aw.statusLabel = widget.NewLabel("")
	aw.statusLabel.Wrapping = fyne.TextWrapWord
	aw.statusLabel.Alignment = fyne.TextAlignCenter

	aw.otpHint = widget.NewLabel("This share requires a one-time code.")
	aw.otpHint.Wrapping = fyne.TextWrapWord

	aw.otpEntry = widget.NewEntry()
	aw.otpEntry.SetPlaceHolder("6-digit code")
	aw.otpEntry.OnChanged = func(s string) {
		filtered := access.FilterOTPInput(s)
		if filtered != s {
			aw.otpEntry.SetText(filtered)
		}
	}
	aw.otpEntry.OnSubmitted = func(string) { aw.verify() }

	aw.sendCodeBtn = widget.NewButtonWithIcon("Send code", theme.MailSendIcon(), func() {
		if aw.OnRequestOTP != nil {
			aw.OnRequestOTP()
		}
	})
	aw.verifyBtn = widget.NewButtonWithIcon("Verify", theme.ConfirmIcon(), aw.verify)

	aw.otpSection = container.NewVBox(
		widget.NewSeparator(),
		aw.otpHint,
		container.NewBorder(nil, nil, nil, aw.sendCodeBtn, aw.otpEntry),
		aw.verifyBtn,
	)
	aw.otpSection.Hide()

	aw.formBox = container.NewVBox(
		aw.titleLabel,
		widget.NewSeparator(),
		aw.passwordEntry,
		aw.unlockBtn,
		aw.otpSection,
		aw.statusLabel,
	)
	aw.rootBox = container.NewStack(container.NewPadded(aw.formBox))
	aw.window.SetContent(aw.rootBox)
}

func (aw *AccessWindow) submit() {
	if aw.OnSubmitPassword != nil {
		aw.OnSubmitPassword(aw.passwordEntry.Text)
	}
}

func (aw *AccessWindow) verify() {
	if aw.OnVerifyOTP != nil {
		aw.OnVerifyOTP(aw.otpEntry.Text)
	}
}

// Show displays the window and runs the event loop
func (aw *AccessWindow) Show() {
	aw.window.ShowAndRun()
}

// Window exposes the underlying window for lifecycle wiring
func (aw *AccessWindow) Window() fyne.Window {
	return aw.window
}

// SetStatus updates the status message below the form
func (aw *AccessWindow) SetStatus(status string) {
	aw.statusLabel.SetText(status)
}

// SetBusy disables the action buttons while a request is in flight. This is
// a usability measure only; the server enforces its own limits.
func (aw *AccessWindow) SetBusy(busy bool) {
	if busy {
		aw.unlockBtn.Disable()
		aw.sendCodeBtn.Disable()
		aw.verifyBtn.Disable()
	} else {
		aw.unlockBtn.Enable()
		aw.sendCodeBtn.Enable()
		aw.verifyBtn.Enable()
	}
}

// ShowOTPSection reveals the one-time code form
func (aw *AccessWindow) ShowOTPSection(hint string) {
	if hint != "" {
		aw.otpHint.SetText(hint)
	}
	aw.otpSection.Show()
	aw.formBox.Refresh()
	aw.window.Canvas().Focus(aw.otpEntry)
}

// SetOTPHint updates the hint text in the one-time code form
func (aw *AccessWindow) SetOTPHint(hint string) {
	aw.otpHint.SetText(hint)
}

// SetSendCodeCountdown shows remaining cooldown on the send button, or
// restores it when seconds is zero
func (aw *AccessWindow) SetSendCodeCountdown(seconds int) {
	if seconds > 0 {
		aw.sendCodeBtn.SetText(fmt.Sprintf("Resend in %ds", seconds))
		aw.sendCodeBtn.Disable()
	} else {
		aw.sendCodeBtn.SetText("Send code")
		aw.sendCodeBtn.Enable()
	}
}

// DisableForTerminal commits the window to an end state. No credential can
// be submitted afterwards.
func (aw *AccessWindow) DisableForTerminal(message string) {
	aw.passwordEntry.Disable()
	aw.otpEntry.Disable()
	aw.unlockBtn.Disable()
	aw.sendCodeBtn.Disable()
	aw.verifyBtn.Disable()
	aw.statusLabel.SetText(message)
}

// ShowDestruction replaces the credential form with the terminal notice
func (aw *AccessWindow) ShowDestruction(notice *DestructionNotice) {
	aw.DisableForTerminal("")
	aw.rootBox.Objects = []fyne.CanvasObject{container.NewPadded(notice.Object())}
	aw.rootBox.Refresh()
	notice.Start()
}
