package onboarding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openavatar/openavatar/internal/validate"
)

// fakeRegistrar counts calls and blocks until release is closed when set.
type fakeRegistrar struct {
	calls   atomic.Int32
	release chan struct{}
	err     error

	mu   sync.Mutex
	last Fields
}

func (f *fakeRegistrar) Register(ctx context.Context, fields Fields) error {
	f.calls.Add(1)
	f.mu.Lock()
	f.last = fields
	f.mu.Unlock()
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func fill(c *Controller) {
	c.SetField(FieldNickname, "Ada Lovelace")
	c.SetField(FieldFirstName, "ada")
	c.SetField(FieldLastName, "lovelace")
	c.SetField(FieldEmail, "ada@example.com")
	c.SetField(FieldPassword, "abcdef")
	c.SetField(FieldConfirmPassword, "abcdef")
}

// toReview walks a filled controller from Welcome to Review.
func toReview(t *testing.T, c *Controller) {
	t.Helper()
	fill(c)
	for c.State().Step != StepReview {
		require.True(t, c.Advance(), "stuck on %s", c.State().Step)
	}
}

func waitResult(t *testing.T, ch <-chan SubmitResult) SubmitResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for submit result")
		return SubmitResult{}
	}
}

func TestNew_StartsOnWelcome(t *testing.T) {
	c := New(&fakeRegistrar{})
	s := c.State()
	assert.Equal(t, StepWelcome, s.Step)
	assert.False(t, s.Reviewing)
	assert.Empty(t, s.Err)
	assert.True(t, s.CanAdvance())
}

func TestSetField_NormalizesNickname(t *testing.T) {
	c := New(&fakeRegistrar{})
	c.SetField(FieldNickname, "Jane Doe@")
	assert.Equal(t, "janedoe", c.State().Fields.Nickname)
}

func TestAdvance_InvalidFieldsKeepStep(t *testing.T) {
	tests := []struct {
		name  string
		step  Step
		field Field
		value string
	}{
		{"short nickname", StepNickname, FieldNickname, "ab"},
		{"half a name", StepName, FieldLastName, ""},
		{"bad email", StepEmail, FieldEmail, "a@b"},
		{"short password", StepPassword, FieldPassword, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&fakeRegistrar{})
			fill(c)
			for c.State().Step != tt.step {
				require.True(t, c.Advance())
			}
			c.SetField(tt.field, tt.value)

			assert.False(t, c.State().CanAdvance())
			assert.False(t, c.Advance())
			assert.Equal(t, tt.step, c.State().Step)
			assert.Empty(t, c.State().Err, "invalid input is not an error")
		})
	}
}

func TestAdvance_WalksForwardInOrder(t *testing.T) {
	c := New(&fakeRegistrar{})
	fill(c)

	want := []Step{StepNickname, StepName, StepEmail, StepPassword, StepBio, StepReview}
	for _, step := range want {
		require.True(t, c.Advance())
		assert.Equal(t, step, c.State().Step)
	}
	assert.True(t, c.State().Reviewing)

	assert.False(t, c.Advance(), "review only moves on through Submit")
	assert.Equal(t, StepReview, c.State().Step)
}

func TestAdvance_EmptyNameAndBioAreOptional(t *testing.T) {
	c := New(&fakeRegistrar{})
	c.SetField(FieldNickname, "ada")
	c.SetField(FieldEmail, "ada@example.com")
	c.SetField(FieldPassword, "abcdef")
	c.SetField(FieldConfirmPassword, "abcdef")

	for c.State().Step != StepReview {
		require.True(t, c.Advance(), "stuck on %s", c.State().Step)
	}
}

func TestGoBack_ReturnsToRequestedStep(t *testing.T) {
	c := New(&fakeRegistrar{})
	fill(c)
	require.True(t, c.Advance())
	require.True(t, c.Advance())
	require.Equal(t, StepName, c.State().Step)

	assert.True(t, c.GoBack(StepNickname))
	assert.Equal(t, StepNickname, c.State().Step)

	assert.False(t, c.GoBack(StepSubmitting), "terminal step is never a back target")
	assert.False(t, c.GoBack(Step(99)))
}

func TestEditFromReview_AdvanceReturnsToReview(t *testing.T) {
	c := New(&fakeRegistrar{})
	toReview(t, c)

	require.True(t, c.GoBack(StepEmail))
	assert.Equal(t, StepEmail, c.State().Step)

	require.True(t, c.Advance())
	assert.Equal(t, StepReview, c.State().Step)
}

func TestGoBack_FromReviewOnlyToDataEntry(t *testing.T) {
	c := New(&fakeRegistrar{})
	toReview(t, c)

	assert.False(t, c.GoBack(StepWelcome), "welcome needs Restart")
	assert.Equal(t, StepReview, c.State().Step)
	assert.False(t, c.GoBack(StepReview))

	require.True(t, c.Restart())
	assert.Equal(t, StepWelcome, c.State().Step)
}

func TestEditStep_BackAlsoReturnsToReview(t *testing.T) {
	c := New(&fakeRegistrar{})
	toReview(t, c)

	require.True(t, c.EditStep(StepName))
	assert.Equal(t, StepName, c.State().Step)

	require.True(t, c.GoBack(StepEmail), "target is ignored while reviewing")
	assert.Equal(t, StepReview, c.State().Step)
}

func TestEditStep_OnlyFromReview(t *testing.T) {
	c := New(&fakeRegistrar{})
	fill(c)
	require.True(t, c.Advance())
	assert.False(t, c.EditStep(StepEmail), "not reviewing yet")

	toReview(t, c)
	assert.False(t, c.EditStep(StepWelcome), "welcome is not a data-entry step")
	assert.False(t, c.EditStep(StepReview))
	require.True(t, c.EditStep(StepBio))
	assert.False(t, c.EditStep(StepEmail), "already left review")
}

func TestEditStep_InvalidEditBlocksReturn(t *testing.T) {
	c := New(&fakeRegistrar{})
	toReview(t, c)
	require.True(t, c.EditStep(StepEmail))

	c.SetField(FieldEmail, "ab.com")
	assert.False(t, c.Advance())
	assert.Equal(t, StepEmail, c.State().Step)
}

func TestRestart_KeepsFields(t *testing.T) {
	c := New(&fakeRegistrar{})
	toReview(t, c)

	require.True(t, c.Restart())
	s := c.State()
	assert.Equal(t, StepWelcome, s.Step)
	assert.False(t, s.Reviewing)
	assert.Equal(t, "adalovelace", s.Fields.Nickname)

	require.True(t, c.Advance())
	assert.Equal(t, StepNickname, c.State().Step, "no longer jumps back to review")
}

func TestSubmit_Success(t *testing.T) {
	reg := &fakeRegistrar{}
	c := New(reg)
	toReview(t, c)
	c.mu.Lock()
	c.fields.Email = "  ada@example.com "
	c.mu.Unlock()

	ch, err := c.Submit(context.Background())
	require.NoError(t, err)
	res := waitResult(t, ch)

	require.NoError(t, res.Err)
	s := c.State()
	assert.Equal(t, StepSubmitting, s.Step)
	assert.True(t, s.Done())
	assert.False(t, s.Submitting)

	reg.mu.Lock()
	assert.Equal(t, "ada@example.com", reg.last.Email, "fields are trimmed before registration")
	reg.mu.Unlock()

	_, ok := <-ch
	assert.False(t, ok, "result channel is closed after delivery")

	assert.False(t, c.GoBack(StepReview), "no way back from the terminal step")
	c.SetField(FieldNickname, "other")
	assert.Equal(t, "adalovelace", c.State().Fields.Nickname)
}

func TestSubmit_FailureStaysOnReview(t *testing.T) {
	reg := &fakeRegistrar{err: errors.New("The email address is already in use by another account.")}
	c := New(reg)
	toReview(t, c)

	ch, err := c.Submit(context.Background())
	require.NoError(t, err)
	res := waitResult(t, ch)

	require.Error(t, res.Err)
	s := c.State()
	assert.Equal(t, StepReview, s.Step)
	assert.Equal(t, "The email address is already in use by another account.", s.Err)

	require.True(t, c.EditStep(StepEmail))
	assert.Empty(t, c.State().Err, "error clears when the step changes")
}

func TestSubmit_DoubleSubmitCallsRegistrarOnce(t *testing.T) {
	reg := &fakeRegistrar{release: make(chan struct{})}
	c := New(reg)
	toReview(t, c)

	first, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, c.State().Submitting)

	second, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.Nil(t, second)

	assert.False(t, c.EditStep(StepEmail), "review is locked while submitting")

	close(reg.release)
	require.NoError(t, waitResult(t, first).Err)
	assert.Equal(t, int32(1), reg.calls.Load())
}

func TestSubmit_RejectedOutsideReview(t *testing.T) {
	reg := &fakeRegistrar{}
	c := New(reg)
	fill(c)

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotOnReview)

	toReview(t, c)
	c.mu.Lock()
	c.fields.Email = "broken"
	c.mu.Unlock()
	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Zero(t, reg.calls.Load())
}

func TestSubscribe_ReceivesSnapshots(t *testing.T) {
	c := New(&fakeRegistrar{})

	var steps []Step
	unsubscribe := c.Subscribe(func(s State) {
		steps = append(steps, s.Step)
		// Re-entrant reads must not deadlock.
		_ = c.State()
	})

	c.SetField(FieldNickname, "ada")
	c.Advance()
	unsubscribe()
	c.Advance()

	assert.Equal(t, []Step{StepWelcome, StepNickname}, steps)
}

func TestPasswordStatus(t *testing.T) {
	c := New(&fakeRegistrar{})
	assert.Equal(t, validate.PasswordNeutral, c.PasswordStatus())

	c.SetField(FieldPassword, "abcdef")
	c.SetField(FieldConfirmPassword, "abcdeg")
	assert.Equal(t, validate.PasswordMismatch, c.PasswordStatus())

	c.SetField(FieldConfirmPassword, "abcdef")
	assert.Equal(t, validate.PasswordValid, c.PasswordStatus())
}

func TestAdvanceLabel(t *testing.T) {
	assert.Equal(t, "I'll add one later", AdvanceLabel(StepBio, Fields{}))
	assert.Equal(t, "I'm done with my bio!", AdvanceLabel(StepBio, Fields{Bio: "hi"}))
	assert.Equal(t, "Create my account!", AdvanceLabel(StepReview, Fields{}))
	assert.Equal(t, "Next", AdvanceLabel(StepEmail, Fields{}))
}
