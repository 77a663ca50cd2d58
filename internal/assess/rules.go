package assess

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/volunteer-match/internal/categorize"
	"github.com/sells-group/volunteer-match/internal/extract"
	"github.com/sells-group/volunteer-match/internal/model"
	"github.com/sells-group/volunteer-match/internal/response"
)

// Score deltas.
const (
	StrongMatch  = 5
	ExactMatch   = 8
	PartialMatch = 3
	AgePenalty   = -3
	WeakFit      = -2
)

var (
	standingTerms = []string{"stand", "walk"}
	movingTerms   = []string{"move", "walk", "run", "carry", "lift", "transport", "stand"}
)

// Outcome is the effect of one rule application. It is committed to a
// session as a whole.
type Outcome struct {
	Deltas     map[string]int `json:"deltas"`
	Eliminated []string       `json:"eliminated"`
}

func (o *Outcome) add(role string, delta int) {
	if o.Deltas == nil {
		o.Deltas = make(map[string]int)
	}
	o.Deltas[role] += delta
}

func (o *Outcome) eliminate(role string) {
	o.Eliminated = append(o.Eliminated, role)
}

// Age scores roles whose minimum age the respondent meets, or student-only
// roles for students. Unqualified roles are eliminated unless they allow
// age exceptions, in which case they take a penalty.
func Age(roles []model.Role, age int, student bool, eliminate bool) Outcome {
	var out Outcome
	years := float64(age)
	for _, r := range roles {
		qualified := false

		// A missing or unreadable minimum places no restriction.
		if !r.AgeMin.Students && (!r.AgeMin.HasValue || r.AgeMin.Value <= years) {
			qualified = true
			if !r.AgePreference.Truthy() {
				out.add(r.Name, StrongMatch)
			} else if ceiling, ok := agePreference(r.AgePreference); ok && ceiling > years {
				out.add(r.Name, PartialMatch)
			}
		}

		if student && r.AgeMin.Students {
			qualified = true
			out.add(r.Name, StrongMatch)
		}

		if eliminate && !qualified {
			if r.AgeExceptionAllowed {
				out.add(r.Name, AgePenalty)
			} else {
				out.eliminate(r.Name)
			}
		}
	}
	return out
}

func agePreference(f model.Field) (float64, bool) {
	if f.Kind != model.FieldText {
		return 0, false
	}
	return extract.Number(f.Text)
}

// Physical matches a preference for physical work against the role's
// physical requirement. No preference changes nothing.
func Physical(roles []model.Role, p response.Preference, eliminate bool) Outcome {
	var out Outcome
	if p.NoPref {
		return out
	}
	for _, r := range roles {
		physical := r.PhysicalReq.Truthy()
		switch {
		case p.Yes && physical, p.No && !physical:
			out.add(r.Name, StrongMatch)
		case eliminate:
			out.eliminate(r.Name)
		}
	}
	return out
}

// Standing scores capable respondents for roles that mention standing or
// walking, and eliminates those roles for respondents who cannot.
func Standing(roles []model.Role, p response.Preference, eliminate bool) Outcome {
	return ability(roles, p, eliminate, standingTerms)
}

// Moving is Standing for any sustained movement.
func Moving(roles []model.Role, p response.Preference, eliminate bool) Outcome {
	return ability(roles, p, eliminate, movingTerms)
}

func ability(roles []model.Role, p response.Preference, eliminate bool, terms []string) Outcome {
	var out Outcome
	for _, r := range roles {
		if r.PhysicalReq.Kind != model.FieldText {
			continue
		}
		text := strings.ToLower(r.PhysicalReq.Text)
		required := false
		for _, t := range terms {
			if strings.Contains(text, t) {
				required = true
				break
			}
		}
		if !required {
			continue
		}
		switch {
		case p.No && eliminate:
			out.eliminate(r.Name)
		case p.Yes:
			out.add(r.Name, PartialMatch)
		}
	}
	return out
}

// Availability scores roles whose time commitment fits the respondent's
// days. Completely available respondents fit everything.
func Availability(roles []model.Role, a response.Availability, eliminate bool) Outcome {
	var out Outcome
	for _, r := range roles {
		if a.Completely {
			out.add(r.Name, StrongMatch)
			continue
		}
		if !a.Defined {
			continue
		}
		if a.Days >= extract.Days(r.TimeCommitment.String()) {
			out.add(r.Name, StrongMatch)
		} else if eliminate {
			out.eliminate(r.Name)
		}
	}
	return out
}

// WorkingPreference scores roles matching a BTS or FRONT choice and
// eliminates roles with the opposite setting. NO_PREF changes nothing.
func WorkingPreference(roles []model.Role, choice model.WorkPref, eliminate bool) Outcome {
	var out Outcome
	opposite := choice.Opposite()
	if opposite == "" {
		return out
	}
	for _, r := range roles {
		switch {
		case r.WorkPref == choice:
			out.add(r.Name, StrongMatch)
		case eliminate && r.WorkPref == opposite:
			out.eliminate(r.Name)
		}
	}
	return out
}

// Leadership matches a preference for leadership duties. No preference
// skips the rule entirely.
func Leadership(roles []model.Role, p response.Preference, eliminate bool) Outcome {
	var out Outcome
	if p.NoPref {
		return out
	}
	for _, r := range roles {
		lead := r.LeadershipPref
		switch {
		case p.Yes == lead:
			out.add(r.Name, StrongMatch)
		case eliminate:
			out.eliminate(r.Name)
		}
	}
	return out
}

// PriorExperience rewards experienced respondents in proportion to how much
// the role wants experience, and nudges newcomers toward roles that do not.
// It never eliminates.
func PriorExperience(roles []model.Role, has bool) Outcome {
	var out Outcome
	for _, r := range roles {
		strength := extract.RequirementStrength(r.PriorFirstExp)
		if has {
			switch strength {
			case model.StrengthRequired:
				out.add(r.Name, ExactMatch)
			case model.StrengthPreferred:
				out.add(r.Name, StrongMatch)
			default:
				out.add(r.Name, PartialMatch)
			}
			continue
		}
		switch strength {
		case model.StrengthFalse:
			out.add(r.Name, StrongMatch)
		case model.StrengthPreferred:
			out.add(r.Name, WeakFit)
		}
	}
	return out
}

// GameKnowledge compares the respondent's level against each role's
// required depth. Roles with an unreadable requirement are skipped.
func GameKnowledge(roles []model.Role, level model.KnowledgeLevel, eliminate bool) Outcome {
	var out Outcome
	for _, r := range roles {
		required := extract.KnowledgeLevel(r.BasicGameKnowledge)
		if required == model.KnowledgeUnknown {
			continue
		}
		switch {
		case level == required:
			out.add(r.Name, ExactMatch)
		case level > required:
			out.add(r.Name, StrongMatch)
		case eliminate:
			out.eliminate(r.Name)
		}
	}
	return out
}

// Requirements categorizes each role's field and scores roles whose top
// category the respondent selected; the rest are eliminated. Roles whose
// text matches no category are skipped.
func Requirements(roles []model.Role, field func(model.Role) model.Field, c *categorize.Categorizer, selected response.Selection, eliminate bool) (Outcome, error) {
	return requirements(roles, field, c, selected, ExactMatch, eliminate)
}

// PreferredExperience scores like Requirements but never eliminates.
func PreferredExperience(roles []model.Role, field func(model.Role) model.Field, c *categorize.Categorizer, selected response.Selection) (Outcome, error) {
	return requirements(roles, field, c, selected, PartialMatch, false)
}

func requirements(roles []model.Role, field func(model.Role) model.Field, c *categorize.Categorizer, selected response.Selection, delta int, eliminate bool) (Outcome, error) {
	var out Outcome
	for _, r := range roles {
		top, err := c.TopOf(field(r))
		if err != nil {
			return Outcome{}, eris.Wrapf(ErrDataQuality, "role %q: %v", r.Name, err)
		}
		if top == categorize.NoCategory {
			continue
		}
		switch {
		case selected.Has(top):
			out.add(r.Name, delta)
		case eliminate:
			out.eliminate(r.Name)
		}
	}
	return out, nil
}
