// Package accumulate owns the growing output buffer for one streaming
// session. Fragments are applied in strict arrival order; the buffer never
// shrinks and never reorders. Both the live (mid-stream) view and the final
// (post-termination) view derive from the same underlying buffer.
package accumulate

import (
	"errors"
	"strings"
)

// ErrFinalized is returned by Apply after Finalize. Applying to a frozen
// buffer is a programming error in the caller, not a recoverable stream
// condition, so it must not silently succeed.
var ErrFinalized = errors.New("accumulator is finalized")

// Observer is called synchronously on every Apply with the fragment that
// arrived and the updated live view. There is no batching or debouncing:
// every fragment arrival is independently observable.
type Observer func(fragment, live string)

// Accumulator collects streamed text fragments into a single document.
// It is session-local state: one accumulator per session, never shared.
type Accumulator struct {
	buf       strings.Builder
	finalized bool
	observer  Observer
}

// New returns an empty, unfrozen Accumulator.
func New() *Accumulator {
	return &Accumulator{}
}

// OnApply registers the observer invoked on every successful Apply.
func (a *Accumulator) OnApply(fn Observer) {
	a.observer = fn
}

// Apply appends fragment to the buffer and publishes the updated live view.
func (a *Accumulator) Apply(fragment string) error {
	if a.finalized {
		return ErrFinalized
	}
	a.buf.WriteString(fragment)
	if a.observer != nil {
		a.observer(fragment, a.buf.String())
	}
	return nil
}

// Live returns the current (possibly partial) view of the buffer.
func (a *Accumulator) Live() string {
	return a.buf.String()
}

// Finalize freezes the buffer and returns the final view. Finalizing an
// already-final buffer is a no-op returning the same view.
func (a *Accumulator) Finalize() string {
	a.finalized = true
	return a.buf.String()
}

// Finalized reports whether the buffer is frozen.
func (a *Accumulator) Finalized() bool {
	return a.finalized
}

// Reset clears the buffer and un-freezes it, for reuse at the start of a
// new session sharing the same instance.
func (a *Accumulator) Reset() {
	a.buf.Reset()
	a.finalized = false
}
