package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrGaveUp is returned when the form still fails after the allowed
	// number of rounds.
	ErrGaveUp = errors.New("prompt: form still invalid")
)
