package validity

// Bounds is an inclusive count range. Nil limits are unbounded.
type Bounds struct {
	Minimum *int
	Maximum *int
}

// Check applies the count law: inside the range succeeds, above the maximum
// overflows, anything else underflows.
func (b Bounds) Check(count int) (Result, Violation) {
	aboveMin := b.Minimum == nil || count >= *b.Minimum
	belowMax := b.Maximum == nil || count <= *b.Maximum
	switch {
	case aboveMin && belowMax:
		return ResultSucceed, ""
	case !belowMax:
		return ResultErrored, RangeOverflow
	default:
		return ResultErrored, RangeUnderflow
	}
}

// Limit returns a pointer to n for use in Bounds literals.
func Limit(n int) *int {
	return &n
}
