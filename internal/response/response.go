// Package response validates raw questionnaire answers into typed values.
package response

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/volunteer-match/internal/categorize"
	"github.com/sells-group/volunteer-match/internal/model"
)

// ErrInvalid is wrapped by every parse failure in this package.
var ErrInvalid = eris.New("invalid answer")

func invalid(format string, args ...any) error {
	return eris.Wrap(ErrInvalid, fmt.Sprintf(format, args...))
}

// Preference tokens.
const (
	Yes    = "YES"
	No     = "NO"
	NoPref = "NO_PREF"
)

// Preference is a yes/no/no-preference answer. Exactly one flag is set.
type Preference struct {
	Yes    bool `json:"yes"`
	No     bool `json:"no"`
	NoPref bool `json:"no_pref"`
}

// ParsePreference accepts exactly YES, NO or NO_PREF.
func ParsePreference(token string) (Preference, error) {
	switch token {
	case Yes:
		return Preference{Yes: true}, nil
	case No:
		return Preference{No: true}, nil
	case NoPref:
		return Preference{NoPref: true}, nil
	}
	return Preference{}, invalid("preference %q: expected one of %s, %s, %s", token, Yes, No, NoPref)
}

// ParseYesNo accepts YES or NO.
func ParseYesNo(token string) (bool, error) {
	switch token {
	case Yes:
		return true, nil
	case No:
		return false, nil
	}
	return false, invalid("answer %q: expected %s or %s", token, Yes, No)
}

// CompletelyAvailable is the answer meaning "any number of days".
const CompletelyAvailable = -1

// UnboundedDays stands in for complete availability.
const UnboundedDays = 999

// Availability is how many days a respondent can give.
type Availability struct {
	Defined    bool    `json:"defined"`
	Completely bool    `json:"completely"`
	Days       float64 `json:"days"`
}

// ParseAvailability accepts a positive day count or -1 for complete
// availability.
func ParseAvailability(n float64) (Availability, error) {
	switch {
	case math.IsNaN(n) || math.IsInf(n, 0):
		return Availability{}, invalid("availability %v is not a number of days", n)
	case n > 0:
		return Availability{Defined: true, Days: n}, nil
	case n == CompletelyAvailable:
		return Availability{Completely: true, Days: UnboundedDays}, nil
	}
	return Availability{}, invalid("availability %v: expected a positive number of days or %d", n, CompletelyAvailable)
}

// ParseMultiChoice upper-cases token and checks it against valid, ignoring
// case.
func ParseMultiChoice(token string, valid []string) (string, error) {
	upper := cases.Upper(language.Und)
	choice := upper.String(strings.TrimSpace(token))
	for _, v := range valid {
		if upper.String(v) == choice {
			return choice, nil
		}
	}
	return "", invalid("option %q: expected one of %s", token, strings.Join(valid, ", "))
}

// Selection is the set of categories a respondent ticked.
type Selection map[string]struct{}

// Has reports whether category was selected.
func (s Selection) Has(category string) bool {
	_, ok := s[category]
	return ok
}

// Sorted returns the selected categories alphabetically.
func (s Selection) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParseSelection parses every token as a multi-choice answer. The result
// always contains categorize.None so roles that require nothing match.
func ParseSelection(tokens []string, valid []string) (Selection, error) {
	sel := Selection{categorize.None: {}}
	for _, tok := range tokens {
		choice, err := ParseMultiChoice(tok, valid)
		if err != nil {
			return nil, err
		}
		sel[choice] = struct{}{}
	}
	return sel, nil
}

// ParseKnowledge accepts NONE, LIMITED, AVERAGE or THOROUGH.
func ParseKnowledge(token string) (model.KnowledgeLevel, error) {
	level, ok := model.ParseKnowledgeLevel(token)
	if !ok {
		return model.KnowledgeUnknown, invalid("knowledge level %q: expected NONE, LIMITED, AVERAGE or THOROUGH", token)
	}
	return level, nil
}

// MaxAge bounds plausible respondent ages.
const MaxAge = 130

// Age is the respondent's age and, when given alongside it, their student
// status.
type Age struct {
	Years   int   `json:"age"`
	Student *bool `json:"student,omitempty"`
}

// ParseAge validates a whole-number age.
func ParseAge(years float64, student *bool) (Age, error) {
	if years != math.Trunc(years) || math.IsInf(years, 0) {
		return Age{}, invalid("age %v is not a whole number", years)
	}
	if years < 0 || years > MaxAge {
		return Age{}, invalid("age %v is out of range", years)
	}
	return Age{Years: int(years), Student: student}, nil
}
