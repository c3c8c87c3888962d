package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
)

func TestAccessWindow_Creation(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	aw := NewAccessWindow(testApp, "Unlock shared file")
	if aw == nil {
		t.Fatal("Failed to create access window")
	}

	if aw.passwordEntry == nil {
		t.Error("Password entry not initialized")
	}
	if aw.unlockBtn == nil {
		t.Error("Unlock button not initialized")
	}
	if aw.otpSection.Visible() {
		t.Error("OTP section should start hidden")
	}
}

func TestAccessWindow_SubmitPassword(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	aw := NewAccessWindow(testApp, "Unlock")

	var submitted string
	called := false
	aw.OnSubmitPassword = func(password string) {
		called = true
		submitted = password
	}

	aw.passwordEntry.SetText("hunter2")
	test.Tap(aw.unlockBtn)

	if !called {
		t.Fatal("OnSubmitPassword was not invoked")
	}
	if submitted != "hunter2" {
		t.Errorf("Expected password 'hunter2', got '%s'", submitted)
	}
}

func TestAccessWindow_OTPSection(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	aw := NewAccessWindow(testApp, "Unlock")

	requested := false
	aw.OnRequestOTP = func() { requested = true }

	var verified string
	aw.OnVerifyOTP = func(code string) { verified = code }

	aw.ShowOTPSection("A code is required for this share.")
	if !aw.otpSection.Visible() {
		t.Fatal("OTP section should be visible")
	}

	test.Tap(aw.sendCodeBtn)
	if !requested {
		t.Error("OnRequestOTP was not invoked")
	}

	aw.otpEntry.SetText("123456")
	test.Tap(aw.verifyBtn)
	if verified != "123456" {
		t.Errorf("Expected code '123456', got '%s'", verified)
	}
}

func TestAccessWindow_OTPEntryFiltersInput(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	aw := NewAccessWindow(testApp, "Unlock")

	aw.otpEntry.SetText("12a3-456789")
	if aw.otpEntry.Text != "123456" {
		t.Errorf("Expected filtered code '123456', got '%s'", aw.otpEntry.Text)
	}
}

func TestAccessWindow_SetBusy(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	aw := NewAccessWindow(testApp, "Unlock")

	aw.SetBusy(true)
	if !aw.unlockBtn.Disabled() || !aw.verifyBtn.Disabled() {
		t.Error("Buttons should be disabled while busy")
	}

	aw.SetBusy(false)
	if aw.unlockBtn.Disabled() {
		t.Error("Unlock button should be enabled when not busy")
	}
}

func TestAccessWindow_SendCodeCountdown(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	aw := NewAccessWindow(testApp, "Unlock")

	aw.SetSendCodeCountdown(30)
	if !aw.sendCodeBtn.Disabled() {
		t.Error("Send button should be disabled during cooldown")
	}
	if aw.sendCodeBtn.Text != "Resend in 30s" {
		t.Errorf("Unexpected button text '%s'", aw.sendCodeBtn.Text)
	}

	aw.SetSendCodeCountdown(0)
	if aw.sendCodeBtn.Disabled() {
		t.Error("Send button should be enabled after cooldown")
	}
	if aw.sendCodeBtn.Text != "Send code" {
		t.Errorf("Unexpected button text '%s'", aw.sendCodeBtn.Text)
	}
}

func TestAccessWindow_DisableForTerminal(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	aw := NewAccessWindow(testApp, "Unlock")

	called := false
	aw.OnSubmitPassword = func(string) { called = true }

	aw.DisableForTerminal("File not found or already destroyed.")

	if !aw.unlockBtn.Disabled() {
		t.Error("Unlock button should be disabled in terminal state")
	}
	if aw.statusLabel.Text != "File not found or already destroyed." {
		t.Errorf("Unexpected status '%s'", aw.statusLabel.Text)
	}

	test.Tap(aw.unlockBtn)
	if called {
		t.Error("Disabled unlock button must not submit")
	}
}

func TestAccessWindow_ShowDestruction(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	aw := NewAccessWindow(testApp, "Unlock")

	done := make(chan struct{})
	notice := NewDestructionNotice(10*time.Millisecond, func() { close(done) })
	aw.ShowDestruction(notice)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Destruction callback did not fire")
	}

	if !aw.unlockBtn.Disabled() {
		t.Error("Form should be terminal after destruction")
	}
}
