package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"

	"bar-access-app/internal/access"
	"bar-access-app/internal/api"
	"bar-access-app/internal/config"
	"bar-access-app/internal/container"
	"bar-access-app/internal/manager"
	"bar-access-app/internal/models"
	"bar-access-app/internal/protect"
	"bar-access-app/internal/ui"
	"bar-access-app/internal/viewer"
	"bar-access-app/pkg/errors"
	"bar-access-app/pkg/logger"
)

// AccessView defines the interface for the credential entry window
type AccessView interface {
	SetStatus(status string)
	SetBusy(busy bool)
	ShowOTPSection(hint string)
	SetOTPHint(hint string)
	SetSendCodeCountdown(seconds int)
	DisableForTerminal(message string)
	ShowDestruction(notice *ui.DestructionNotice)
}

// ViewerView defines the interface for the content viewer window
type ViewerView interface {
	SetContent(filename string, obj fyne.CanvasObject)
	ShowDestruction(notice *ui.DestructionNotice)
	Show()
	Hide()
}

type sessionMode int

const (
	modeNone sessionMode = iota
	modeShare
	modeOffline
)

// Controller coordinates between UI and business logic layers
type Controller struct {
	cfg       *config.AppConfig
	client    api.Client
	cooldowns manager.CooldownManager
	renderer  *viewer.Renderer

	accessView AccessView
	viewerView ViewerView

	logger *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mode         sessionMode
	stateMachine *access.StateMachine

	offlineContainer *container.Container
	offlineName      string
	offlineDone      bool

	lastPassword string
	refreshTimer *time.Timer
	guard        *protect.Guard

	// saveFile persists a decrypted payload; replaced in tests
	saveFile func(filename string, data []byte) (string, error)
}

// NewController creates the application controller
func NewController(cfg *config.AppConfig, client api.Client, cooldowns manager.CooldownManager, accessView AccessView, viewerView ViewerView) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		cfg:        cfg,
		client:     client,
		cooldowns:  cooldowns,
		accessView: accessView,
		viewerView: viewerView,
		logger:     logger.NewWithComponent("controller"),
		ctx:        ctx,
		cancel:     cancel,
	}
	c.renderer = viewer.NewRenderer(c.logger, c.handleSave)
	c.saveFile = saveToDownloads
	return c
}

// Start probes the server in the background. A failed probe is informative
// only; offline containers work without a reachable server until decryption.
func (c *Controller) Start() {
	c.logger.Info("Starting application controller")
	go func() {
		if err := c.client.Health(c.ctx); err != nil {
			c.logger.WarnWithError("Server health probe failed", err)
			c.accessView.SetStatus("Server unreachable. Check the address and try again.")
			return
		}
		c.logger.Info("Server reachable")
	}()
}

// Stop gracefully shuts down the controller
func (c *Controller) Stop() {
	c.logger.Info("Stopping application controller")
	c.stopRefreshTimer()
	c.cancel()
}

// BindAccessWindow connects window callbacks to controller handlers. Each
// handler runs on its own goroutine so the UI thread never blocks on the
// network.
func (c *Controller) BindAccessWindow(aw *ui.AccessWindow) {
	aw.OnSubmitPassword = func(password string) {
		go c.SubmitPassword(password)
	}
	aw.OnRequestOTP = func() {
		go c.RequestOTP()
	}
	aw.OnVerifyOTP = func(code string) {
		go c.VerifyOTP(code)
	}
}

// OpenShare starts a remote access session for the token
func (c *Controller) OpenShare(token string) error {
	if token == "" {
		return errors.NewAppError(errors.ErrValidationFailed, "share token is required", nil)
	}
	c.mode = modeShare
	c.stateMachine = access.NewStateMachine(c.client, token)
	c.logger.InfoWithFields("Opened share session", map[string]interface{}{
		"token": logger.MaskToken(token),
	})
	c.accessView.SetStatus("Enter the password to unlock this share.")

	go c.primeRequirements(token)
	return nil
}

// primeRequirements fetches the optional preflight info so the UI can show
// the OTP form up front. Any failure is ignored; the access flow discovers
// requirements reactively.
func (c *Controller) primeRequirements(token string) {
	req, err := c.client.CheckRequirements(c.ctx, token)
	if err != nil || req == nil {
		return
	}
	if req.RequireOtp {
		c.accessView.ShowOTPSection("This share requires a one-time code after the password.")
	}
}

// OpenContainerFile loads an offline container from disk and prepares a
// decrypt-upload session
func (c *Controller) OpenContainerFile(path string) error {
	if err := container.ValidateContainerFilename(filepath.Base(path)); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapError(err, errors.ErrValidationFailed, "failed to read container file")
	}
	parsed, err := container.Parse(data)
	if err != nil {
		return err
	}

	c.mode = modeOffline
	c.offlineContainer = parsed
	c.offlineName = filepath.Base(path)
	c.offlineDone = false

	meta := parsed.Metadata
	c.logger.InfoWithFields("Opened offline container", map[string]interface{}{
		"filename": meta.Filename,
		"encoding": string(parsed.Encoding),
	})
	if meta.PasswordProtected {
		c.accessView.SetStatus(fmt.Sprintf("Container holds %q. Enter the password to decrypt.", meta.Filename))
	} else {
		c.accessView.SetStatus(fmt.Sprintf("Container holds %q. Press Unlock to decrypt.", meta.Filename))
	}
	return nil
}

// SubmitPassword runs one access attempt with the entered password
func (c *Controller) SubmitPassword(password string) {
	c.accessView.SetBusy(true)
	defer c.accessView.SetBusy(false)

	switch c.mode {
	case modeShare:
		c.submitShare(password)
	case modeOffline:
		c.submitOffline(password)
	default:
		c.accessView.SetStatus("Open a share link or a container file first.")
	}
}

func (c *Controller) submitShare(password string) {
	sm := c.stateMachine
	result, err := sm.Submit(c.ctx, password)
	if err != nil {
		c.handleAccessError(err)
		return
	}
	c.lastPassword = password
	c.display(result, sm.Token())
}

func (c *Controller) submitOffline(password string) {
	if c.offlineDone {
		c.accessView.SetStatus("This container has already been destroyed.")
		return
	}
	result, meta, err := c.client.DecryptUpload(c.ctx, c.offlineName, c.offlineContainer.Raw(), password)
	if err != nil {
		c.handleAccessError(err)
		return
	}
	if meta != nil && meta.Filename != "" {
		result.Filename = meta.Filename
	}
	if result.ShouldDestroy {
		c.offlineDone = true
	}
	c.display(result, c.offlineName)
}

// handleAccessError routes a failed attempt to the right UI reaction. No
// error here is fatal; the window stays open for another try unless the
// share is gone.
func (c *Controller) handleAccessError(err error) {
	appErr := errors.ClassifyError(err)

	switch appErr.Code {
	case errors.ErrNotFound:
		c.accessView.DisableForTerminal(appErr.GetUserMessage())
	case errors.ErrOtpRequired:
		c.accessView.ShowOTPSection("A one-time code is required. Request one below.")
		c.accessView.SetStatus("")
	case errors.ErrAccessDenied:
		msg := appErr.Detail
		if msg == "" {
			msg = appErr.GetUserMessage()
		}
		c.accessView.SetStatus(msg)
	case errors.ErrInvalidState:
		c.accessView.SetStatus(appErr.GetUserMessage())
	default:
		c.logger.ErrorWithError("Access attempt failed", err)
		c.accessView.SetStatus(appErr.GetUserMessage())
	}
}

// RequestOTP asks the server to send a passcode, honoring the local
// advisory cooldown
func (c *Controller) RequestOTP() {
	if c.mode != modeShare || c.stateMachine == nil {
		c.accessView.SetStatus("Open a share link first.")
		return
	}
	token := c.stateMachine.Token()

	if remaining, err := c.cooldowns.Remaining(token); err == nil && remaining > 0 {
		c.accessView.SetSendCodeCountdown(int(remaining.Seconds()) + 1)
		c.accessView.SetStatus("Please wait before requesting another code.")
		return
	}

	c.accessView.SetBusy(true)
	defer c.accessView.SetBusy(false)

	info, err := c.stateMachine.RequestOTP(c.ctx)
	if err != nil {
		c.handleAccessError(err)
		return
	}
	if recErr := c.cooldowns.Record(token); recErr != nil {
		c.logger.WarnWithError("Failed to record cooldown", recErr)
	}
	hint := info.Message
	if hint == "" {
		hint = "A code has been sent. Enter it below."
	}
	c.accessView.SetOTPHint(hint)
	c.accessView.SetStatus("")
}

// VerifyOTP submits the entered passcode
func (c *Controller) VerifyOTP(code string) {
	if c.mode != modeShare || c.stateMachine == nil {
		c.accessView.SetStatus("Open a share link first.")
		return
	}

	c.accessView.SetBusy(true)
	defer c.accessView.SetBusy(false)

	if err := c.stateMachine.VerifyOTP(c.ctx, code); err != nil {
		appErr := errors.ClassifyError(err)
		switch appErr.Code {
		case errors.ErrOtpRejected:
			c.accessView.SetStatus("Incorrect code. Check it and try again.")
		case errors.ErrNotFound:
			c.accessView.DisableForTerminal(appErr.GetUserMessage())
		default:
			c.handleAccessError(err)
		}
		return
	}
	c.accessView.SetStatus("Code accepted. Unlocking...")
	c.SubmitPassword(c.lastPasswordOrCurrent())
}

func (c *Controller) lastPasswordOrCurrent() string {
	if c.stateMachine != nil {
		return c.stateMachine.Attempt().Password
	}
	return c.lastPassword
}

// display renders a granted result in the viewer and arranges any
// follow-up the response contract asks for
func (c *Controller) display(result *models.AccessResult, watermarkID string) {
	c.stopRefreshTimer()

	content := c.renderer.Render(result)
	watermark := ""
	if c.cfg.WatermarkEnabled {
		watermark = logger.MaskToken(watermarkID)
	}
	c.guard = protect.NewGuard(content, watermark, true)
	c.viewerView.SetContent(result.Filename, c.guard.Object())
	c.viewerView.Show()
	c.accessView.SetStatus(fmt.Sprintf("Unlocked %q.", result.Filename))

	if result.ShouldDestroy {
		if !result.ViewOnly {
			if path, err := c.saveFile(result.Filename, result.Payload); err != nil {
				c.logger.ErrorWithError("Failed to save final copy", err)
				c.accessView.SetStatus("Could not save the file: " + err.Error())
			} else {
				c.accessView.SetStatus(fmt.Sprintf("Saved to %s.", path))
			}
		}
		notice := ui.NewDestructionNotice(c.cfg.DestructionDuration(), func() {
			c.accessView.DisableForTerminal("File not found or already destroyed.")
		})
		c.accessView.ShowDestruction(notice)
		return
	}

	if result.AutoRefreshSeconds > 0 && c.mode == modeShare {
		c.scheduleRefresh(time.Duration(result.AutoRefreshSeconds) * time.Second)
	}
}

// scheduleRefresh re-issues the access call after the server-specified
// interval, spending a view like a manual unlock would
func (c *Controller) scheduleRefresh(after time.Duration) {
	c.refreshTimer = time.AfterFunc(after, func() {
		select {
		case <-c.ctx.Done():
			return
		default:
		}
		if c.stateMachine != nil && c.stateMachine.Terminal() {
			return
		}
		c.logger.Info("Auto-refreshing share content")
		c.SubmitPassword(c.lastPassword)
	})
}

func (c *Controller) stopRefreshTimer() {
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
		c.refreshTimer = nil
	}
}

// HandleLifecycleVisibility forwards app foreground state to the guard
func (c *Controller) HandleLifecycleVisibility(visible bool) {
	if c.guard != nil {
		c.guard.HandleVisibility(visible)
	}
}

// HandleFocus forwards viewer focus state to the guard
func (c *Controller) HandleFocus(focused bool) {
	if c.guard != nil {
		c.guard.HandleFocus(focused)
	}
}

func (c *Controller) handleSave(filename string, data []byte) {
	path, err := c.saveFile(filename, data)
	if err != nil {
		c.logger.ErrorWithError("Failed to save file", err)
		c.accessView.SetStatus("Could not save the file: " + err.Error())
		return
	}
	c.accessView.SetStatus(fmt.Sprintf("Saved to %s.", path))
}

// saveToDownloads writes the payload under the user's download directory,
// avoiding overwrites by suffixing a counter
func saveToDownloads(filename string, data []byte) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, "Downloads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	target := filepath.Join(dir, filepath.Base(filename))
	ext := filepath.Ext(target)
	base := target[:len(target)-len(ext)]
	for i := 1; ; i++ {
		if _, statErr := os.Stat(target); os.IsNotExist(statErr) {
			break
		}
		target = fmt.Sprintf("%s (%d)%s", base, i, ext)
	}

	if err := os.WriteFile(target, data, 0o600); err != nil {
		return "", err
	}
	return target, nil
}
