package shareid_test

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/shareid"
)

func TestGenerateProducesDistinctHTMLIDs(t *testing.T) {
	pattern := regexp.MustCompile(`^j[0-9a-f]+$`)
	seen := make(map[string]struct{})
	for i := 0; i < 64; i++ {
		id := shareid.Generate()
		if !pattern.MatchString(id) {
			t.Fatalf("id %q is not a valid html id", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestFixedAndSequence(t *testing.T) {
	fixed := shareid.Fixed("abc", shareid.ProviderFormGroup)
	if fixed.Fetch() != "abc" || fixed.Fetch() != "abc" {
		t.Fatalf("fixed fetcher must be stable")
	}
	if fixed.Provider() != shareid.ProviderFormGroup {
		t.Fatalf("provider = %s", fixed.Provider())
	}

	seq := shareid.Sequence("abc", shareid.ProviderRadioGroup)
	got := []string{seq.Fetch(), seq.Fetch(), seq.Fetch()}
	if diff := cmp.Diff([]string{"abc_1", "abc_2", "abc_3"}, got); diff != "" {
		t.Fatalf("sequence mismatch (-want +got):\n%s", diff)
	}

	if shareid.Sequence("", shareid.ProviderCheckboxGroup).Fetch() != "" {
		t.Fatalf("empty base must yield empty ids")
	}
}

func TestDerivedIDs(t *testing.T) {
	if got := shareid.ErrorMessage("x"); got != "x_errormessage" {
		t.Fatalf("ErrorMessage = %q", got)
	}
	if got := shareid.Masthead("x"); got != "x_masthead" {
		t.Fatalf("Masthead = %q", got)
	}
	if shareid.Masthead("") != "" || shareid.ErrorMessage("") != "" {
		t.Fatalf("empty ids must stay empty")
	}
}
