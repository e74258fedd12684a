// Package onboarding sequences the account registration wizard: which step is
// showing, whether the user may move on, where Back and Next lead once the
// review screen has been reached, and the single registration call at the end.
//
// The Controller is UI-independent. A presentation layer writes field values
// with SetField, invokes the transitions, and renders State snapshots
// delivered through Subscribe.
package onboarding

import (
	"context"
	"errors"
	"sync"

	"github.com/openavatar/openavatar/internal/logger"
	"github.com/openavatar/openavatar/internal/validate"
)

var (
	// ErrNotOnReview is returned by Submit outside the review step.
	ErrNotOnReview = errors.New("onboarding: submit is only available from review")
	// ErrSubmitInFlight is returned by Submit while a registration call is outstanding.
	ErrSubmitInFlight = errors.New("onboarding: registration already in progress")
	// ErrIncomplete is returned by Submit when a data-entry step is invalid.
	ErrIncomplete = errors.New("onboarding: some fields are not valid")
)

// Registrar creates the account from the collected fields.
type Registrar interface {
	Register(ctx context.Context, fields Fields) error
}

// RegistrarFunc adapts a function to Registrar.
type RegistrarFunc func(ctx context.Context, fields Fields) error

// Register calls f.
func (f RegistrarFunc) Register(ctx context.Context, fields Fields) error {
	return f(ctx, fields)
}

// State is an immutable snapshot of the wizard.
type State struct {
	Step       Step
	Fields     Fields
	Reviewing  bool
	Submitting bool
	// Err is the last registration failure, cleared on every step change.
	Err string
}

// CanAdvance reports whether Advance would move from this state.
func (s State) CanAdvance() bool {
	return s.Step < StepReview && !s.Submitting && s.Fields.StepValid(s.Step)
}

// Done reports whether registration has succeeded.
func (s State) Done() bool {
	return s.Step == StepSubmitting
}

// SubmitResult is delivered once per accepted Submit.
type SubmitResult struct {
	Err error
}

// Controller owns the wizard state. It is safe for concurrent use; the
// registration result arrives on its own goroutine.
type Controller struct {
	registrar Registrar

	mu         sync.Mutex
	step       Step
	fields     Fields
	reviewing  bool
	submitting bool
	err        string

	observers map[int]func(State)
	nextObs   int
}

// New returns a controller on the welcome step.
func New(registrar Registrar) *Controller {
	return &Controller{
		registrar: registrar,
		observers: make(map[int]func(State)),
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() State {
	return State{
		Step:       c.step,
		Fields:     c.fields,
		Reviewing:  c.reviewing,
		Submitting: c.submitting,
		Err:        c.err,
	}
}

// Subscribe registers fn to receive every state change. fn is called without
// the controller's lock held, so it may call back into the controller. The
// returned function removes the subscription.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// commit publishes the state built while mu was held, then releases it.
func (c *Controller) commit() {
	s := c.snapshot()
	fns := make([]func(State), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// setStep must be called with mu held.
func (c *Controller) setStep(s Step) {
	if s == c.step {
		return
	}
	logger.Debug("onboarding: %s -> %s", c.step, s)
	c.step = s
	c.err = ""
	if s == StepReview {
		c.reviewing = true
	}
}

// SetField stores a value typed by the user. Nickname input is normalized.
// Writes are ignored once registration is in flight or done.
func (c *Controller) SetField(f Field, value string) {
	c.mu.Lock()
	if c.submitting || c.step.Terminal() {
		c.mu.Unlock()
		return
	}
	c.fields.set(f, value)
	c.commit()
}

// Advance moves forward when the current step is valid: back to Review when
// reviewing, otherwise to the next step. It reports whether the step changed.
// Review and the terminal step never advance; use Submit from Review.
func (c *Controller) Advance() bool {
	c.mu.Lock()
	if c.step >= StepReview || c.submitting || !c.fields.StepValid(c.step) {
		c.mu.Unlock()
		return false
	}
	target := c.step.next()
	if c.reviewing {
		target = StepReview
	}
	c.setStep(target)
	c.commit()
	return true
}

// GoBack moves to the requested step. While reviewing, Back from a
// data-entry step always returns to Review regardless of to, and Review
// itself only goes back to data-entry steps; Restart is the way to Welcome.
// The terminal step is never a valid target.
func (c *Controller) GoBack(to Step) bool {
	c.mu.Lock()
	if !c.goBack(to) {
		c.mu.Unlock()
		return false
	}
	c.commit()
	return true
}

func (c *Controller) goBack(to Step) bool {
	if !to.Valid() || to.Terminal() || c.step.Terminal() || c.submitting {
		return false
	}
	if c.reviewing {
		switch {
		case c.step.DataEntry():
			to = StepReview
		case !to.DataEntry():
			return false
		}
	}
	if to == c.step {
		return false
	}
	c.setStep(to)
	return true
}

// EditStep leaves Review for a data-entry step; the next Advance or GoBack
// from there returns to Review. It is only available on Review.
func (c *Controller) EditStep(s Step) bool {
	c.mu.Lock()
	if !c.reviewing || c.step != StepReview || !s.DataEntry() || !c.goBack(s) {
		c.mu.Unlock()
		return false
	}
	c.commit()
	return true
}

// Restart leaves Review for Welcome and forgets that review was reached.
// Entered values are kept.
func (c *Controller) Restart() bool {
	c.mu.Lock()
	if c.step != StepReview || c.submitting {
		c.mu.Unlock()
		return false
	}
	c.reviewing = false
	c.setStep(StepWelcome)
	c.commit()
	return true
}

// Submit starts the registration call with the collected fields. The result
// is delivered on the returned channel, which is closed afterwards. On
// failure the wizard stays on Review with Err set; on success it moves to
// the terminal step. A Submit while one is outstanding is rejected with
// ErrSubmitInFlight and never reaches the Registrar.
func (c *Controller) Submit(ctx context.Context) (<-chan SubmitResult, error) {
	c.mu.Lock()
	switch {
	case c.submitting:
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	case c.step != StepReview:
		c.mu.Unlock()
		return nil, ErrNotOnReview
	case !c.fields.Complete():
		c.mu.Unlock()
		return nil, ErrIncomplete
	}
	c.submitting = true
	c.err = ""
	fields := c.fields.Trimmed()
	c.commit()

	results := make(chan SubmitResult, 1)
	go func() {
		defer close(results)
		err := c.registrar.Register(ctx, fields)

		c.mu.Lock()
		c.submitting = false
		if err != nil {
			logger.Warn("onboarding: registration failed: %v", err)
			c.err = err.Error()
		} else {
			logger.Info("onboarding: registered @%s", fields.Nickname)
			c.setStep(StepSubmitting)
		}
		c.commit()
		results <- SubmitResult{Err: err}
	}()
	return results, nil
}

// ReviewRows summarizes the current fields for the review step.
func (c *Controller) ReviewRows() []ReviewRow {
	return ReviewRows(c.State().Fields)
}

// PasswordStatus classifies the current password pair.
func (c *Controller) PasswordStatus() validate.PasswordStatus {
	s := c.State()
	return validate.PasswordState(s.Fields.Password, s.Fields.ConfirmPassword)
}

// AdvanceLabel returns the caption of the forward action on step s.
func AdvanceLabel(s Step, f Fields) string {
	switch s {
	case StepWelcome:
		return "Get started"
	case StepBio:
		return validate.BioActionLabel(f.Bio)
	case StepReview:
		return "Create my account!"
	case StepSubmitting:
		return ""
	default:
		return "Next"
	}
}
