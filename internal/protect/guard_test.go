package protect

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(t *testing.T, enabled bool) *Guard {
	t.Helper()
	test.NewApp()
	g := NewGuard(widget.NewLabel("secret content"), "user@example", enabled)
	g.graceHold = 20 * time.Millisecond
	return g
}

func TestGuardStartsUnobscured(t *testing.T) {
	g := newTestGuard(t, true)
	assert.False(t, g.Obscured())
}

func TestGuardObscuresOnFocusLoss(t *testing.T) {
	g := newTestGuard(t, true)

	g.HandleFocus(false)
	assert.True(t, g.Obscured())
	assert.True(t, g.overlay.Visible())

	g.HandleFocus(true)
	assert.False(t, g.Obscured())
	assert.False(t, g.overlay.Visible())
}

func TestGuardObscuresOnPointerLeave(t *testing.T) {
	g := newTestGuard(t, true)

	g.hover.MouseOut()
	assert.True(t, g.Obscured())

	g.hover.MouseIn(nil)
	assert.False(t, g.Obscured())
}

func TestGuardGraceHoldAfterReturningToForeground(t *testing.T) {
	g := newTestGuard(t, true)

	g.HandleVisibility(false)
	require.True(t, g.Obscured())

	g.HandleVisibility(true)
	assert.True(t, g.Obscured(), "content must stay hidden during the grace hold")

	assert.Eventually(t, func() bool { return !g.Obscured() },
		time.Second, 5*time.Millisecond)
}

func TestGuardRepeatedBackgroundingRestartsGrace(t *testing.T) {
	g := newTestGuard(t, true)

	g.HandleVisibility(false)
	g.HandleVisibility(true)
	g.HandleVisibility(false)
	g.HandleVisibility(true)
	assert.True(t, g.Obscured())

	assert.Eventually(t, func() bool { return !g.Obscured() },
		time.Second, 5*time.Millisecond)
}

func TestGuardDisabledNeverObscures(t *testing.T) {
	g := newTestGuard(t, false)

	g.HandleFocus(false)
	g.HandleVisibility(false)
	g.hover.MouseOut()

	assert.False(t, g.Obscured())
	assert.False(t, g.overlay.Visible())
}

func TestGuardSetEnabledAppliesImmediately(t *testing.T) {
	g := newTestGuard(t, false)
	g.HandleFocus(false)
	require.False(t, g.Obscured())

	g.SetEnabled(true)
	assert.True(t, g.Obscured())

	g.SetEnabled(false)
	assert.False(t, g.Obscured())
}

func TestGuardWithoutWatermarkText(t *testing.T) {
	test.NewApp()
	g := NewGuard(widget.NewLabel("content"), "", true)
	require.NotNil(t, g.Object())
}
