// Package shareid generates and distributes the identifiers that tie a
// control, its labels and its error message together.
package shareid

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Provider names the kind of container that handed out an id.
type Provider int

const (
	ProviderNone Provider = iota
	ProviderForm
	ProviderMasthead
	ProviderFormGroup
	ProviderChoiceGroup
	ProviderRadioGroup
	ProviderCheckboxGroup
)

func (p Provider) String() string {
	switch p {
	case ProviderForm:
		return "form"
	case ProviderMasthead:
		return "masthead"
	case ProviderFormGroup:
		return "form_group"
	case ProviderChoiceGroup:
		return "choice_group"
	case ProviderRadioGroup:
		return "radio_group"
	case ProviderCheckboxGroup:
		return "checkbox_group"
	default:
		return "none"
	}
}

const (
	// ErrorMessageSuffix marks the element holding invalid feedback.
	ErrorMessageSuffix = "_errormessage"
	// MastheadSuffix marks the element labelling a group.
	MastheadSuffix = "_masthead"
)

// ErrorMessage returns the errormessage id derived from id.
func ErrorMessage(id string) string {
	if id == "" {
		return ""
	}
	return id + ErrorMessageSuffix
}

// Masthead returns the masthead id derived from id.
func Masthead(id string) string {
	if id == "" {
		return ""
	}
	return id + MastheadSuffix
}

// Generate returns a new id made of a hex timestamp and random hex digits.
// The result is safe to use as an HTML id.
func Generate() string {
	stamp := strconv.FormatInt(time.Now().UnixMilli(), 16)
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("j%s%s", stamp, random[:12])
}

// Fetcher hands ids to the components nested in a container.
type Fetcher interface {
	Fetch() string
	Provider() Provider
}

type fixed struct {
	id       string
	provider Provider
}

// Fixed returns a Fetcher that yields id on every call.
func Fixed(id string, provider Provider) Fetcher {
	return fixed{id: id, provider: provider}
}

func (f fixed) Fetch() string      { return f.id }
func (f fixed) Provider() Provider { return f.provider }

type sequence struct {
	base     string
	provider Provider
	next     atomic.Int64
}

// Sequence returns a Fetcher that yields base_1, base_2 and so on. An empty
// base yields empty ids.
func Sequence(base string, provider Provider) Fetcher {
	return &sequence{base: base, provider: provider}
}

func (s *sequence) Fetch() string {
	if s.base == "" {
		return ""
	}
	n := s.next.Add(1)
	return s.base + "_" + strconv.FormatInt(n, 10)
}

func (s *sequence) Provider() Provider { return s.provider }

// None is the fetcher used outside of any container.
var None Fetcher = fixed{}
