package form

import (
	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// Size is the visual size of a control.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Orientation lays out the choices of a group.
type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
)

// orDefault lays groups out vertically unless horizontal is asked for.
func (o Orientation) orDefault() Orientation {
	if o == OrientationHorizontal {
		return o
	}
	return OrientationVertical
}

// applySize toggles the prefix-sm and prefix-lg classes.
func applySize(el *dom.Element, prefix string, size Size) {
	el.ToggleClass(prefix+"-sm", size == SizeSmall)
	el.ToggleClass(prefix+"-lg", size == SizeLarge)
}

// applyAria mirrors a validation status onto aria-invalid and
// aria-errormessage. Initialized and silenced states carry neither.
func applyAria(el *dom.Element, status validity.Status, errorMessageID string) {
	if el == nil {
		return
	}
	switch status {
	case validity.StatusValidationSucceed:
		el.SetAttr("aria-invalid", "false")
		el.RemoveAttr("aria-errormessage")
	case validity.StatusValidationErrored, validity.StatusValidationException:
		el.SetAttr("aria-invalid", "true")
		el.SetOptional("aria-errormessage", errorMessageID)
	default:
		el.RemoveAttr("aria-invalid")
		el.RemoveAttr("aria-errormessage")
	}
}

func applyAttrs(el *dom.Element, attrs []dom.Attr) {
	for _, attr := range attrs {
		el.SetAttr(attr.Name, attr.Value)
	}
}
