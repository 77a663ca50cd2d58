package model

import (
	"strconv"
	"strings"
)

// Role is one volunteer position from the role sheet. Roles are read-only
// once loaded; scoring rules never modify them.
type Role struct {
	Name                string   `json:"role_name"`
	AgeMin              AgeBound `json:"age_min"`
	AgePreference       Field    `json:"age_preference"`
	PhysicalReq         Field    `json:"physical_req"`
	TimeCommitment      Field    `json:"time_commitment"`
	WorkPref            WorkPref `json:"work_pref"`
	LeadershipPref      bool     `json:"leadership_pref"`
	PriorFirstExp       Field    `json:"prior_first_exp"`
	BasicGameKnowledge  Field    `json:"basic_game_knowledge"`
	RequiredSkills      Field    `json:"required_skills"`
	RequiredExperience  Field    `json:"required_experience"`
	PreferredExperience Field    `json:"preferred_experience"`
	AgeExceptionAllowed bool     `json:"age_exception_allowed"`
}

// RoleNames returns the names of roles in dataset order.
func RoleNames(roles []Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	return names
}

// StudentsToken marks a role reserved for student volunteers.
const StudentsToken = "Students"

// AgeBound is the parsed age_min column.
type AgeBound struct {
	Raw      string  `json:"raw,omitempty"`
	Students bool    `json:"students,omitempty"`
	Value    float64 `json:"value,omitempty"`
	HasValue bool    `json:"has_value"`
}

// ParseAgeBound interprets an age_min cell. Plain integers are taken as-is,
// the Students token marks a student-only role, and anything else goes
// through extract (passed in to keep model free of parsing policy).
func ParseAgeBound(raw string, extract func(string) (float64, bool)) AgeBound {
	raw = strings.TrimSpace(raw)
	b := AgeBound{Raw: raw}
	if raw == "" {
		return b
	}
	if strings.EqualFold(raw, StudentsToken) {
		b.Students = true
		return b
	}
	if n, err := strconv.Atoi(raw); err == nil {
		b.Value, b.HasValue = float64(n), true
		return b
	}
	if extract != nil {
		if v, ok := extract(raw); ok {
			b.Value, b.HasValue = v, true
		}
	}
	return b
}

// WorkPref is the role's working environment.
type WorkPref string

// Work preferences. Anything the sheet holds beyond these is kept verbatim.
const (
	WorkPrefBTS    WorkPref = "BTS"
	WorkPrefFront  WorkPref = "FRONT"
	WorkPrefNoPref WorkPref = "NO_PREF"
)

// ParseWorkPref normalizes the spellings seen in role sheets.
func ParseWorkPref(raw string) WorkPref {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	switch s {
	case "BTS", "BEHIND THE SCENES":
		return WorkPrefBTS
	case "FRONT", "FRONT FACING", "FRONT OF HOUSE":
		return WorkPrefFront
	case "NO PREF", "NO PREFERENCE", "EITHER", "BOTH":
		return WorkPrefNoPref
	}
	return WorkPref(strings.TrimSpace(raw))
}

// Opposite returns the directional preference that conflicts with p.
func (p WorkPref) Opposite() WorkPref {
	switch p {
	case WorkPrefBTS:
		return WorkPrefFront
	case WorkPrefFront:
		return WorkPrefBTS
	}
	return ""
}
