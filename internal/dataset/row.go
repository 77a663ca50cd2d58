package dataset

import (
	"fmt"
	"strings"

	"github.com/sells-group/volunteer-match/internal/extract"
	"github.com/sells-group/volunteer-match/internal/model"
)

// Row is one raw line of a role sheet, before any coercion.
type Row struct {
	RoleName            string `csv:"role_name"`
	AgeMin              string `csv:"age_min"`
	AgePreference       string `csv:"age_preference"`
	PhysicalReq         string `csv:"physical_req"`
	TimeCommitment      string `csv:"time_commitment"`
	WorkPref            string `csv:"work_pref"`
	LeadershipPref      string `csv:"leadership_pref"`
	PriorFirstExp       string `csv:"prior_first_exp"`
	BasicGameKnowledge  string `csv:"basic_game_knowledge"`
	RequiredSkills      string `csv:"required_skills"`
	RequiredExperience  string `csv:"required_experience"`
	PreferredExperience string `csv:"preferred_experience"`
	AgeExceptionAllowed string `csv:"age_exception_allowed"`
}

// Columns lists every column a role sheet may carry, in storage order.
var Columns = []string{
	"role_name",
	"age_min",
	"age_preference",
	"physical_req",
	"time_commitment",
	"work_pref",
	"leadership_pref",
	"prior_first_exp",
	"basic_game_knowledge",
	"required_skills",
	"required_experience",
	"preferred_experience",
	"age_exception_allowed",
}

// optionalColumns may be absent from a sheet.
var optionalColumns = map[string]bool{
	"age_preference":        true,
	"preferred_experience":  true,
	"age_exception_allowed": true,
}

// Values returns the row in Columns order for COPY. Blank cells become NULL.
func (r Row) Values() []any {
	cells := []string{
		r.RoleName, r.AgeMin, r.AgePreference, r.PhysicalReq, r.TimeCommitment,
		r.WorkPref, r.LeadershipPref, r.PriorFirstExp, r.BasicGameKnowledge,
		r.RequiredSkills, r.RequiredExperience, r.PreferredExperience, r.AgeExceptionAllowed,
	}
	out := make([]any, len(cells))
	for i, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			out[i] = c
		}
	}
	return out
}

// Fault is one data-quality problem found in a sheet.
type Fault struct {
	Line   int    `json:"line"`
	Role   string `json:"role"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (f Fault) String() string {
	if f.Role == "" {
		return fmt.Sprintf("line %d: %s %s", f.Line, f.Column, f.Reason)
	}
	return fmt.Sprintf("line %d (%s): %s %q %s", f.Line, f.Role, f.Column, f.Value, f.Reason)
}

// Check lists the data-quality faults in rows. Line numbers count the
// header as line 1.
func Check(rows []Row) []Fault {
	var faults []Fault
	seen := make(map[string]int, len(rows))
	for i, r := range rows {
		line := i + 2
		name := strings.TrimSpace(r.RoleName)
		switch {
		case name == "":
			faults = append(faults, Fault{Line: line, Column: "role_name", Reason: "is empty"})
		case seen[name] > 0:
			faults = append(faults, Fault{Line: line, Role: name, Column: "role_name", Value: name,
				Reason: fmt.Sprintf("duplicates line %d", seen[name])})
		default:
			seen[name] = line
		}
		for _, c := range []struct{ column, value string }{
			{"leadership_pref", r.LeadershipPref},
			{"age_exception_allowed", r.AgeExceptionAllowed},
		} {
			if _, ok := parseFlag(c.value); !ok {
				faults = append(faults, Fault{Line: line, Role: name, Column: c.column, Value: c.value, Reason: "is not true or false"})
			}
		}
	}
	return faults
}

// Role coerces the row. Callers run Check first; Role itself treats an
// unparseable flag as false.
func (r Row) Role() model.Role {
	lead, _ := parseFlag(r.LeadershipPref)
	exception, _ := parseFlag(r.AgeExceptionAllowed)
	return model.Role{
		Name:                strings.TrimSpace(r.RoleName),
		AgeMin:              model.ParseAgeBound(r.AgeMin, extract.Number),
		AgePreference:       model.ParseField(r.AgePreference),
		PhysicalReq:         model.ParseField(r.PhysicalReq),
		TimeCommitment:      model.ParseField(r.TimeCommitment),
		WorkPref:            model.ParseWorkPref(r.WorkPref),
		LeadershipPref:      lead,
		PriorFirstExp:       model.ParseField(r.PriorFirstExp),
		BasicGameKnowledge:  model.ParseField(r.BasicGameKnowledge),
		RequiredSkills:      model.ParseField(r.RequiredSkills),
		RequiredExperience:  model.ParseField(r.RequiredExperience),
		PreferredExperience: model.ParseField(r.PreferredExperience),
		AgeExceptionAllowed: exception,
	}
}

// parseFlag reads a strictly boolean column. Blank is false.
func parseFlag(raw string) (value bool, ok bool) {
	if strings.TrimSpace(raw) == "" {
		return false, true
	}
	return model.ParseBoolToken(raw)
}
