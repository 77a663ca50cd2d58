package dataset

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/volunteer-match/internal/model"
)

var attributes = map[string]func(model.Role) bool{
	"age_min":               func(r model.Role) bool { return r.AgeMin.HasValue || r.AgeMin.Students },
	"age_preference":        func(r model.Role) bool { return r.AgePreference.Truthy() },
	"physical_req":          func(r model.Role) bool { return r.PhysicalReq.Truthy() },
	"time_commitment":       func(r model.Role) bool { return r.TimeCommitment.Truthy() },
	"leadership_pref":       func(r model.Role) bool { return r.LeadershipPref },
	"prior_first_exp":       func(r model.Role) bool { return r.PriorFirstExp.Truthy() },
	"basic_game_knowledge":  func(r model.Role) bool { return r.BasicGameKnowledge.Truthy() },
	"required_skills":       func(r model.Role) bool { return r.RequiredSkills.Truthy() },
	"required_experience":   func(r model.Role) bool { return r.RequiredExperience.Truthy() },
	"preferred_experience":  func(r model.Role) bool { return r.PreferredExperience.Truthy() },
	"age_exception_allowed": func(r model.Role) bool { return r.AgeExceptionAllowed },
}

// Attributes lists the names Filter accepts.
func Attributes() []string {
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Filter keeps the roles whose attribute is truthy, in dataset order.
func Filter(roles []model.Role, attribute string) ([]model.Role, error) {
	truthy, ok := attributes[normalizeHeader(attribute)]
	if !ok {
		return nil, eris.Errorf("dataset: unknown attribute %q", attribute)
	}
	out := make([]model.Role, 0, len(roles))
	for _, r := range roles {
		if truthy(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
