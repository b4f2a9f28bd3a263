package validity

import (
	"fmt"
	"strings"
)

// Result is the outcome of a single validity check.
type Result int

const (
	// ResultDisabled means validation is switched off for the component.
	ResultDisabled Result = iota
	// ResultUnrequired means the control is barred from constraint validation.
	ResultUnrequired
	// ResultUnvalidated means the check was skipped, e.g. during composition.
	ResultUnvalidated
	// ResultException means the check itself failed to run.
	ResultException
	// ResultSucceed means every constraint passed.
	ResultSucceed
	// ResultErrored means at least one constraint failed.
	ResultErrored
)

var resultNames = [...]string{
	ResultDisabled:    "disabled",
	ResultUnrequired:  "unrequired",
	ResultUnvalidated: "unvalidated",
	ResultException:   "exception",
	ResultSucceed:     "succeed",
	ResultErrored:     "errored",
}

func (r Result) String() string {
	if r < 0 || int(r) >= len(resultNames) {
		return fmt.Sprintf("result(%d)", int(r))
	}
	return resultNames[r]
}

// Failed reports whether the result blocks a submit.
func (r Result) Failed() bool {
	return r == ResultErrored || r == ResultException
}

// MarshalText implements encoding.TextMarshaler.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Result) UnmarshalText(text []byte) error {
	parsed, err := ParseResult(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseResult converts a result name back into a Result.
func ParseResult(name string) (Result, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for idx, candidate := range resultNames {
		if candidate == normalized {
			return Result(idx), nil
		}
	}
	return ResultDisabled, fmt.Errorf("validity: unknown result %q", name)
}
