package onboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/onboarding"
	"github.com/openavatar/openavatar/internal/tui/testfixtures"
	"github.com/openavatar/openavatar/internal/tui/wizard"
)

type harness struct {
	t     *testing.T
	m     *Model
	ctrl  *onboarding.Controller
	calls atomic.Int32
	err   error
	gate  chan struct{} // registration blocks until closed
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{t: t, gate: make(chan struct{})}
	h.ctrl = onboarding.New(onboarding.RegistrarFunc(func(ctx context.Context, f onboarding.Fields) error {
		h.calls.Add(1)
		<-h.gate
		return h.err
	}))
	h.m = New(context.Background(), h.ctrl, opts)
	t.Cleanup(h.m.Close)
	h.m.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return h
}

func (h *harness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = h.m.Update(testfixtures.Key(k))
	}
	return cmd
}

func (h *harness) typeText(text string) {
	testfixtures.Drive(h.m, testfixtures.Type(text)...)
}

func (h *harness) step() onboarding.Step {
	return h.ctrl.State().Step
}

func (h *harness) view() string {
	return testfixtures.Plain(h.m.Render())
}

// walk fills every step through the keyboard and lands on Review.
func (h *harness) walk() {
	h.t.Helper()
	h.press("enter")
	require.Equal(h.t, onboarding.StepNickname, h.step())

	h.typeText("Ada L")
	h.press("enter")
	require.Equal(h.t, onboarding.StepName, h.step())

	h.typeText("ada")
	h.press("tab")
	h.typeText("lovelace")
	h.press("enter")
	require.Equal(h.t, onboarding.StepEmail, h.step())

	h.typeText("ada@example.com")
	h.press("enter")
	require.Equal(h.t, onboarding.StepPassword, h.step())

	h.typeText("abcdef")
	h.press("tab")
	h.typeText("abcdef")
	h.press("enter")
	require.Equal(h.t, onboarding.StepBio, h.step())

	h.press("enter")
	require.Equal(h.t, onboarding.StepReview, h.step())
}

func TestWelcome(t *testing.T) {
	h := newHarness(t, Options{})
	view := h.view()
	assert.Contains(t, view, "Welcome to Openavatar")
	assert.Contains(t, view, "Get started")
	assert.NotContains(t, view, "I have an account", "login needs a Login option")

	h.press("esc")
	assert.True(t, h.m.Cancelled())
}

func TestNickname_IsNormalizedWhileTyping(t *testing.T) {
	h := newHarness(t, Options{})
	h.press("enter")

	h.typeText("Ada L@")
	assert.Equal(t, "adal", h.ctrl.State().Fields.Nickname)
	assert.Equal(t, "adal", h.m.inputs[onboarding.FieldNickname].Value())
	assert.Contains(t, h.view(), "@adal")
}

func TestInvalidStepDoesNotAdvance(t *testing.T) {
	h := newHarness(t, Options{})
	h.press("enter")
	h.typeText("ab")

	h.press("enter")
	assert.Equal(t, onboarding.StepNickname, h.step())
	assert.Contains(t, h.view(), "At least 3 characters")

	h.press("tab")
	id, ok := h.m.buttons.FocusedButton()
	require.True(t, ok)
	assert.Equal(t, wizard.ButtonBack, id)

	h.press("tab")
	assert.False(t, h.m.buttons.IsFocused(), "disabled Next is skipped, focus returns to the input")
}

func TestEscGoesBack(t *testing.T) {
	h := newHarness(t, Options{})
	h.press("enter")
	h.typeText("ada")
	h.press("enter")
	require.Equal(t, onboarding.StepName, h.step())

	h.press("esc")
	assert.Equal(t, onboarding.StepNickname, h.step())
	assert.Equal(t, "ada", h.m.inputs[onboarding.FieldNickname].Value(), "values survive going back")
}

func TestPasswordStatusShown(t *testing.T) {
	h := newHarness(t, Options{})
	h.walk()
	h.press("esc") // start over
	for h.step() != onboarding.StepPassword {
		h.press("enter")
	}

	h.press("tab")
	h.typeText("x")
	assert.Contains(t, h.view(), "Passwords must match")

	h.press("backspace")
	assert.Contains(t, h.view(), "Passwords match")
}

func TestReview_RowsAndEdit(t *testing.T) {
	h := newHarness(t, Options{})
	h.walk()

	view := h.view()
	assert.Contains(t, view, "@adal")
	assert.Contains(t, view, "Ada Lovelace")
	assert.Contains(t, view, "ada@example.com")
	assert.NotContains(t, view, "abcdef")
	assert.NotContains(t, view, "Bio ", "empty bio has no row")

	// Rows: Nickname, Name, Email
	h.press("down", "down", "enter")
	require.Equal(t, onboarding.StepEmail, h.step())

	h.press("backspace", "backspace", "backspace")
	h.typeText("org")
	h.press("enter")
	assert.Equal(t, onboarding.StepReview, h.step(), "edit returns to review")
	assert.Contains(t, h.view(), "ada@example.org")
}

func TestReview_Golden(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{name: "onboard_review"},
		{name: "onboard_review_email_selected", keys: []string{"down", "down"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Options{})
			h.walk()
			h.press(tt.keys...)
			testfixtures.CompareGolden(t, testfixtures.GoldenPath(tt.name), h.m.viewReview())
		})
	}
}

func TestReview_EscStartsOver(t *testing.T) {
	h := newHarness(t, Options{})
	h.walk()
	h.press("esc")
	assert.Equal(t, onboarding.StepWelcome, h.step())
	assert.Equal(t, "adal", h.ctrl.State().Fields.Nickname)
}

func submitFromReview(t *testing.T, h *harness) tea.Msg {
	t.Helper()
	h.press("tab", "tab")
	id, _ := h.m.buttons.FocusedButton()
	require.Equal(t, wizard.ButtonNext, id)

	cmd := h.press("enter")
	require.NotNil(t, cmd)
	require.True(t, h.ctrl.State().Submitting)
	assert.Contains(t, h.view(), "Creating your account")

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	close(h.gate)
	done := make(chan tea.Msg, 1)
	go func() { done <- batch[0]() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("submit never finished")
		return nil
	}
}

func TestSubmit_Success(t *testing.T) {
	h := newHarness(t, Options{})
	h.walk()

	msg := submitFromReview(t, h)
	h.m.Update(msg)

	assert.Equal(t, onboarding.StepSubmitting, h.step())
	assert.Equal(t, OutcomeRegistered, h.m.Outcome())
	assert.Contains(t, h.view(), "Welcome aboard, @adal!")
	assert.Equal(t, int32(1), h.calls.Load())

	assert.NotNil(t, h.press("enter"), "enter quits")
}

func TestSubmit_FailureShowsInlineError(t *testing.T) {
	h := newHarness(t, Options{})
	h.err = errors.New("The email address is already in use by another account.")
	h.walk()

	msg := submitFromReview(t, h)
	h.m.Update(msg)

	assert.Equal(t, onboarding.StepReview, h.step())
	assert.Contains(t, h.view(), "already in use")
	assert.Equal(t, OutcomeNone, h.m.Outcome())

	h.press("enter")
	assert.Equal(t, int32(1), h.calls.Load(), "no automatic retry")
}

func TestSubscription_DeliversSnapshots(t *testing.T) {
	h := newHarness(t, Options{})
	h.ctrl.Advance()

	msg := h.m.listen()()
	state, ok := msg.(StateMsg)
	require.True(t, ok)
	assert.Equal(t, onboarding.StepNickname, state.State.Step)

	h.m.Update(msg)
	assert.Equal(t, onboarding.StepNickname, h.m.state.Step)
}

func TestLogin(t *testing.T) {
	var gotEmail, gotPassword string
	h := newHarness(t, Options{
		Login: func(_ context.Context, email, password string) error {
			gotEmail, gotPassword = email, password
			if password != "hopper1" {
				return account.ErrInvalidCredentials
			}
			return nil
		},
	})
	assert.Contains(t, h.view(), "I have an account")

	h.press("tab")
	id, _ := h.m.buttons.FocusedButton()
	require.Equal(t, wizard.ButtonSecondary, id)
	h.press("enter")
	require.Equal(t, screenLogin, h.m.screen)

	h.typeText("grace@example.com")
	h.press("enter")
	h.typeText("wrong1")
	cmd := h.press("enter")
	require.NotNil(t, cmd)
	h.m.Update(cmd())
	assert.Contains(t, h.view(), "Incorrect email or password")

	for range len("wrong1") {
		h.press("backspace")
	}
	h.typeText("hopper1")
	cmd = h.press("enter")
	require.NotNil(t, cmd)
	h.m.Update(cmd())

	assert.Equal(t, OutcomeLoggedIn, h.m.Outcome())
	assert.Equal(t, "grace@example.com", gotEmail)
	assert.Equal(t, "hopper1", gotPassword)
}

func TestLogin_ResetPassword(t *testing.T) {
	var sent string
	h := newHarness(t, Options{
		Login: func(context.Context, string, string) error { return nil },
		ResetPassword: func(_ context.Context, email string) error {
			sent = email
			return nil
		},
	})
	h.m.openLogin()
	h.typeText("grace@example.com")

	h.m.login.blurInputs()
	require.True(t, h.m.login.buttons.Focus(wizard.ButtonSecondary))
	cmd := h.press("enter")
	require.NotNil(t, cmd)
	h.m.Update(cmd())

	assert.Equal(t, "grace@example.com", sent)
	assert.Contains(t, h.view(), "Password reset email sent")

	h.press("esc")
	assert.Equal(t, screenWizard, h.m.screen)
}

func TestPaste_SingleLine(t *testing.T) {
	h := newHarness(t, Options{})
	h.press("enter")

	h.m.Update(tea.PasteMsg{Content: "\x1b[1mAda\x1b[0m\nLove"})
	assert.Equal(t, "adalove", h.ctrl.State().Fields.Nickname, "pasted text is sanitized and normalized")

	h.press("enter")
	assert.Equal(t, onboarding.StepName, h.step())
}

func TestPaste_Bio(t *testing.T) {
	h := newHarness(t, Options{})
	h.press("enter")
	h.typeText("ada")
	h.press("enter")
	require.Equal(t, onboarding.StepName, h.step())

	// Both names empty: the first enter moves to the last name, the second advances.
	h.press("enter", "enter")
	require.Equal(t, onboarding.StepEmail, h.step())
	h.typeText("ada@example.com")
	h.press("enter")
	require.Equal(t, onboarding.StepPassword, h.step())
	h.typeText("abcdef")
	h.press("tab")
	h.typeText("abcdef")
	h.press("enter")
	require.Equal(t, onboarding.StepBio, h.step())

	h.m.Update(tea.PasteMsg{Content: "line one\r\nline \x1b[31mtwo\x1b[0m\r\n"})
	assert.Equal(t, "line one\nline two", h.ctrl.State().Fields.Bio, "bio keeps newlines")
}
