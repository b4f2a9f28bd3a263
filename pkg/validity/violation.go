package validity

import (
	"fmt"
	"strings"
)

// Violation names a single failed constraint.
type Violation string

const (
	BadInput          Violation = "BAD_INPUT"
	PatternMismatch   Violation = "PATTERN_MISMATCH"
	RangeOverflow     Violation = "RANGE_OVERFLOW"
	RangeUnderflow    Violation = "RANGE_UNDERFLOW"
	StepMismatch      Violation = "STEP_MISMATCH"
	TooLong           Violation = "TOO_LONG"
	TooShort          Violation = "TOO_SHORT"
	TypeMismatch      Violation = "TYPE_MISMATCH"
	ValueMissing      Violation = "VALUE_MISSING"
	RevalidateInvalid Violation = "REVALIDATE_INVALID"
)

// Violations lists every known violation in a stable order.
func Violations() []Violation {
	return []Violation{
		BadInput,
		PatternMismatch,
		RangeOverflow,
		RangeUnderflow,
		StepMismatch,
		TooLong,
		TooShort,
		TypeMismatch,
		ValueMissing,
		RevalidateInvalid,
	}
}

// ParseViolation accepts either the canonical name or its lowercase form.
func ParseViolation(name string) (Violation, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for _, v := range Violations() {
		if string(v) == normalized {
			return v, nil
		}
	}
	return "", fmt.Errorf("validity: unknown violation %q", name)
}

// ViolationSet is an insertion ordered set of violations. The zero value is
// ready to use. It is not safe for concurrent use; owners guard it.
type ViolationSet struct {
	order []Violation
}

// NewViolationSet returns a set holding the given violations.
func NewViolationSet(violations ...Violation) ViolationSet {
	var set ViolationSet
	set.Add(violations...)
	return set
}

// Add inserts violations that are not present yet.
func (s *ViolationSet) Add(violations ...Violation) {
	for _, v := range violations {
		if v == "" || s.Contain(v) {
			continue
		}
		s.order = append(s.order, v)
	}
}

// Clear empties the set.
func (s *ViolationSet) Clear() {
	s.order = nil
}

// Contain reports whether v is in the set.
func (s ViolationSet) Contain(v Violation) bool {
	for _, existing := range s.order {
		if existing == v {
			return true
		}
	}
	return false
}

// ContainAny reports whether any of the given violations is in the set.
func (s ViolationSet) ContainAny(violations ...Violation) bool {
	for _, v := range violations {
		if s.Contain(v) {
			return true
		}
	}
	return false
}

// Len returns the number of violations.
func (s ViolationSet) Len() int {
	return len(s.order)
}

// Slice returns a copy of the violations in insertion order.
func (s ViolationSet) Slice() []Violation {
	if len(s.order) == 0 {
		return nil
	}
	return append([]Violation(nil), s.order...)
}
