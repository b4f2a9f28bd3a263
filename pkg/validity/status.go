package validity

import (
	"fmt"
	"slices"
	"sync"
)

// Status is the visible validation state of a component.
type Status int

const (
	StatusInitialized Status = iota
	StatusSilenced
	StatusValidationStarted
	StatusValidationException
	StatusValidationSucceed
	StatusValidationErrored
)

var statusNames = [...]string{
	StatusInitialized:         "initialized",
	StatusSilenced:            "silenced",
	StatusValidationStarted:   "validation_started",
	StatusValidationException: "validation_exception",
	StatusValidationSucceed:   "validation_succeed",
	StatusValidationErrored:   "validation_errored",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Infer maps a check result onto the status it produces.
func Infer(result Result) Status {
	switch result {
	case ResultSucceed:
		return StatusValidationSucceed
	case ResultErrored:
		return StatusValidationErrored
	case ResultException:
		return StatusValidationException
	default:
		return StatusSilenced
	}
}

// StatusTracker holds a component status and notifies subscribers when it
// changes. The zero value starts at StatusInitialized.
type StatusTracker struct {
	mu          sync.RWMutex
	status      Status
	nextToken   uint64
	subscribers []subscriber
}

type subscriber struct {
	token uint64
	fn    func(Status)
}

// Current returns the tracked status.
func (t *StatusTracker) Current() Status {
	if t == nil {
		return StatusInitialized
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Infer sets the status inferred from result and returns it.
func (t *StatusTracker) Infer(result Result) Status {
	status := Infer(result)
	t.Force(status)
	return status
}

// Force sets the status directly. It is used for transitions that are not
// derived from a result, such as ValidationStarted.
func (t *StatusTracker) Force(status Status) {
	if t == nil {
		return
	}
	t.mu.Lock()
	changed := t.status != status
	t.status = status
	subscribers := slices.Clone(t.subscribers)
	t.mu.Unlock()

	if !changed {
		return
	}
	for _, sub := range subscribers {
		sub.fn(status)
	}
}

// Subscribe registers fn to run after every status change. The returned
// func removes the subscription.
func (t *StatusTracker) Subscribe(fn func(Status)) func() {
	if t == nil || fn == nil {
		return func() {}
	}
	t.mu.Lock()
	t.nextToken++
	token := t.nextToken
	t.subscribers = append(t.subscribers, subscriber{token: token, fn: fn})
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.subscribers = slices.DeleteFunc(t.subscribers, func(s subscriber) bool {
			return s.token == token
		})
	}
}
