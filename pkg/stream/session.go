// Package stream implements the client side of a relay generation: a Session
// drives one prompt through the relay's SSE endpoint, applies each content
// delta to an accumulator, and settles into exactly one terminal state.
package stream

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/codestream/pkg/accumulate"
	"github.com/papercomputeco/codestream/pkg/classify"
)

// State is the lifecycle state of a generation session.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Terminal reports whether the state is one of the three end states.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

var (
	// ErrEmptyPrompt is returned by Run before any network call when the
	// prompt is empty or whitespace-only.
	ErrEmptyPrompt = errors.New("prompt must not be empty")

	// ErrNotIdle is returned by Run on a session that has already run.
	ErrNotIdle = errors.New("session has already run")
)

// TokenFunc observes each content token as it is applied, in arrival order.
type TokenFunc func(token string)

// Session is a single generation: one prompt, one stream, one terminal state.
// A Session is not reusable; create a new one per prompt.
type Session struct {
	id     string
	prompt string
	client *Client

	mu        sync.Mutex
	state     State
	acc       *accumulate.Accumulator
	result    *classify.Result
	runErr    error
	observers []TokenFunc

	cancel          context.CancelFunc
	cancelOnce      sync.Once
	cancelRequested bool
}

// NewSession creates an idle session for the given prompt.
func (c *Client) NewSession(prompt string) *Session {
	return &Session{
		id:     uuid.NewString(),
		prompt: prompt,
		client: c,
		state:  StateIdle,
		acc:    accumulate.New(),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Prompt returns the prompt the session was created with.
func (s *Session) Prompt() string { return s.prompt }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Output returns the accumulated content so far. After a terminal state it is
// the final, frozen output.
func (s *Session) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acc.Live()
}

// Classification returns the result of classifying the final output. It is
// nil until the session completes or is cancelled; failed sessions are never
// classified.
func (s *Session) Classification() *classify.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Err returns the error that moved the session to StateFailed, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runErr
}

// OnToken registers an observer called synchronously for every content token,
// in arrival order. Must be called before Run.
func (s *Session) OnToken(fn TokenFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Cancel requests cancellation. It is idempotent and safe to call from any
// goroutine at any point in the lifecycle: before Run it pre-empts the
// session, during Run it tears down the stream, after a terminal state it is
// a no-op.
func (s *Session) Cancel() {
	s.cancelOnce.Do(func() {
		s.mu.Lock()
		s.cancelRequested = true
		cancel := s.cancel
		s.mu.Unlock()

		if cancel != nil {
			cancel()
		}
	})
}

// Run drives the session to a terminal state. It validates the prompt before
// any network call, streams deltas from the relay, and returns once the
// session has settled. The returned error is nil for completed and cancelled
// sessions.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrNotIdle
	}

	if strings.TrimSpace(s.prompt) == "" {
		s.state = StateFailed
		s.runErr = ErrEmptyPrompt
		s.acc.Finalize()
		s.mu.Unlock()
		return ErrEmptyPrompt
	}

	if s.cancelRequested {
		s.settleLocked(StateCancelled, nil)
		s.mu.Unlock()
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = StateRunning
	s.mu.Unlock()
	defer cancel()

	s.client.log.Debug("session running",
		zap.String("session_id", s.id),
		zap.Int("prompt_len", len(s.prompt)),
	)

	err := s.client.stream(runCtx, s)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err == nil:
		s.settleLocked(StateCompleted, nil)
		return nil

	case errors.Is(err, context.Canceled):
		s.settleLocked(StateCancelled, nil)
		return nil

	default:
		s.settleLocked(StateFailed, err)
		return err
	}
}

// apply folds one token into the accumulator and notifies observers.
func (s *Session) apply(token string) {
	s.mu.Lock()
	_ = s.acc.Apply(token)
	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(token)
	}
}

// settleLocked freezes the accumulator and records the terminal state.
// Completed and cancelled sessions are classified exactly once, on whatever
// content arrived; failed sessions keep their partial output unclassified.
// Callers must hold s.mu.
func (s *Session) settleLocked(state State, err error) {
	text := s.acc.Finalize()
	s.state = state
	s.runErr = err

	if state == StateCompleted || state == StateCancelled {
		res := classify.Classify(text)
		s.result = &res
	}

	s.client.log.Debug("session settled",
		zap.String("session_id", s.id),
		zap.String("state", string(state)),
		zap.Int("output_len", len(text)),
		zap.Error(err),
	)
}
