// Package assess scores volunteer roles against questionnaire answers and
// tracks which roles remain eligible.
package assess

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/volunteer-match/internal/categorize"
	"github.com/sells-group/volunteer-match/internal/model"
	"github.com/sells-group/volunteer-match/internal/response"
)

// Scope selects which roles a rule is applied to.
type Scope string

// Scopes.
const (
	// ScopeAll keeps scoring eliminated roles so fallback ranking stays
	// informative.
	ScopeAll Scope = "all"
	// ScopeActive only scores roles still in contention.
	ScopeActive Scope = "active"
)

// DefaultResultCount is how many roles a result recommends.
const DefaultResultCount = 3

// Options tunes an Engine.
type Options struct {
	Scope       Scope
	ResultCount int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{Scope: ScopeAll, ResultCount: DefaultResultCount}
}

var (
	requiredSkills      = categorize.New(categorize.RequiredSkills)
	requiredExperience  = categorize.New(categorize.RequiredExperience)
	preferredExperience = categorize.New(categorize.PreferredExperience)
)

type ruleDef struct {
	inputs      []model.InputType
	tokens      []string
	categorizer *categorize.Categorizer
	field       func(model.Role) model.Field
	eliminates  bool
}

var (
	preferenceTokens = []string{response.Yes, response.No, response.NoPref}
	workTokens       = []string{string(model.WorkPrefBTS), string(model.WorkPrefFront), string(model.WorkPrefNoPref)}
	knowledgeTokens  = []string{"NONE", "LIMITED", "AVERAGE", "THOROUGH"}
	selects          = []model.InputType{model.InputSelect2, model.InputSelect3}
)

var rules = map[RuleID]ruleDef{
	RuleAge:               {inputs: []model.InputType{model.InputNumber}, eliminates: true},
	RulePhysical:          {inputs: selects, tokens: preferenceTokens, eliminates: true},
	RuleStanding:          {inputs: selects, tokens: preferenceTokens, eliminates: true},
	RuleMoving:            {inputs: selects, tokens: preferenceTokens, eliminates: true},
	RuleAvailability:      {inputs: []model.InputType{model.InputNumber}, eliminates: true},
	RuleWorkingPreference: {inputs: selects, tokens: workTokens, eliminates: true},
	RuleLeadership:        {inputs: selects, tokens: preferenceTokens, eliminates: true},
	RulePriorExperience:   {inputs: []model.InputType{model.InputSelect2}, tokens: []string{response.Yes, response.No}},
	RuleGameKnowledge:     {inputs: []model.InputType{model.InputSelect4}, tokens: knowledgeTokens, eliminates: true},
	RuleRequiredSkills: {
		inputs:      []model.InputType{model.InputMultiSelect},
		categorizer: requiredSkills,
		field:       func(r model.Role) model.Field { return r.RequiredSkills },
		eliminates:  true,
	},
	RuleRequiredExperience: {
		inputs:      []model.InputType{model.InputMultiSelect},
		categorizer: requiredExperience,
		field:       func(r model.Role) model.Field { return r.RequiredExperience },
		eliminates:  true,
	},
	RulePreferredExperience: {
		inputs:      []model.InputType{model.InputMultiSelect},
		categorizer: preferredExperience,
		field:       preferredExperienceField,
	},
}

func preferredExperienceField(r model.Role) model.Field {
	if r.PreferredExperience.IsEmpty() {
		return r.RequiredExperience
	}
	return r.PreferredExperience
}

// Categories returns the categories a multiselect rule accepts, or nil.
func Categories(rule RuleID) []string {
	def, ok := rules[rule]
	if !ok || def.categorizer == nil {
		return nil
	}
	return def.categorizer.Names()
}

// Engine holds the loaded roles and the validated question plan. It is
// immutable; per-respondent state lives in Session.
type Engine struct {
	roles     []model.Role
	questions []model.Question
	opts      Options
}

// NewEngine validates roles and questions and returns an Engine. Every
// question must name a known rule with a compatible input type and
// options, and role data must be unambiguous for the rules in the plan.
func NewEngine(roles []model.Role, questions []model.Question, opts Options) (*Engine, error) {
	if opts.Scope == "" {
		opts.Scope = ScopeAll
	}
	if opts.Scope != ScopeAll && opts.Scope != ScopeActive {
		return nil, eris.Wrapf(ErrPlan, "unknown scope %q", opts.Scope)
	}
	if opts.ResultCount <= 0 {
		opts.ResultCount = DefaultResultCount
	}
	if len(roles) == 0 {
		return nil, eris.Wrap(ErrDataQuality, "no roles loaded")
	}
	if len(questions) == 0 {
		return nil, eris.Wrap(ErrPlan, "no questions loaded")
	}

	seen := make(map[string]bool, len(roles))
	for i, r := range roles {
		if strings.TrimSpace(r.Name) == "" {
			return nil, eris.Wrapf(ErrDataQuality, "role %d: empty role_name", i)
		}
		if seen[r.Name] {
			return nil, eris.Wrapf(ErrDataQuality, "role %q: duplicate role_name", r.Name)
		}
		seen[r.Name] = true
	}

	for i, q := range questions {
		if err := validateQuestion(i, q); err != nil {
			return nil, err
		}
		def := rules[RuleID(q.Rule)]
		if def.categorizer == nil {
			continue
		}
		for _, r := range roles {
			if _, err := def.categorizer.TopOf(def.field(r)); err != nil {
				return nil, eris.Wrapf(ErrDataQuality, "role %q: %s: %v", r.Name, q.Rule, err)
			}
		}
	}

	return &Engine{
		roles:     slices.Clone(roles),
		questions: slices.Clone(questions),
		opts:      opts,
	}, nil
}

func validateQuestion(i int, q model.Question) error {
	if q.ID != i {
		return eris.Wrapf(ErrPlan, "question %d: id %d does not match its position", i, q.ID)
	}
	def, ok := rules[RuleID(q.Rule)]
	if !ok {
		return eris.Wrapf(ErrPlan, "question %d: unknown rule %q", i, q.Rule)
	}
	if !slices.Contains(def.inputs, q.Type) {
		return eris.Wrapf(ErrPlan, "question %d: rule %s cannot take %s input", i, q.Rule, q.Type)
	}
	if q.Eliminate && !def.eliminates {
		return eris.Wrapf(ErrPlan, "question %d: rule %s never eliminates", i, q.Rule)
	}

	values := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if values[o.Value] {
			return eris.Wrapf(ErrPlan, "question %d: duplicate option %q", i, o.Value)
		}
		values[o.Value] = true
	}

	switch {
	case q.Type == model.InputNumber:
		if len(q.Options) > 0 {
			return eris.Wrapf(ErrPlan, "question %d: number questions take no options", i)
		}
	case q.Type.IsSelect():
		want, _ := strconv.Atoi(strings.TrimPrefix(string(q.Type), "select-"))
		if len(q.Options) != want {
			return eris.Wrapf(ErrPlan, "question %d: %s needs %d options, has %d", i, q.Type, want, len(q.Options))
		}
		for _, o := range q.Options {
			if !slices.Contains(def.tokens, o.Value) {
				return eris.Wrapf(ErrPlan, "question %d: option %q is not one of %s", i, o.Value, strings.Join(def.tokens, ", "))
			}
		}
	case q.Type == model.InputMultiSelect:
		if len(q.Options) == 0 {
			return eris.Wrapf(ErrPlan, "question %d: multiselect needs options", i)
		}
		for _, o := range q.Options {
			if !def.categorizer.Has(o.Value) {
				return eris.Wrapf(ErrPlan, "question %d: option %q is not a %s category", i, o.Value, q.Rule)
			}
		}
	}
	return nil
}

// Roles returns the loaded roles in dataset order.
func (e *Engine) Roles() []model.Role { return slices.Clone(e.roles) }

// Questions returns the question plan.
func (e *Engine) Questions() []model.Question { return slices.Clone(e.questions) }

// Len is the number of questions.
func (e *Engine) Len() int { return len(e.questions) }

// Options returns the engine options after defaults.
func (e *Engine) Options() Options { return e.opts }

// Question returns question i. Indices past the end wrap to the first
// question; negative indices are rejected.
func (e *Engine) Question(i int) (model.Question, error) {
	if i < 0 {
		return model.Question{}, eris.Wrapf(ErrInvalid, "question id %d is negative", i)
	}
	if i >= len(e.questions) {
		i = 0
	}
	return e.questions[i], nil
}

// ParseQuestionID parses a string-encoded question index.
func ParseQuestionID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, eris.Wrapf(ErrInvalid, "question_id %q is not an integer", raw)
	}
	return id, nil
}

// Command parses raw as an answer to question i.
func (e *Engine) Command(i int, raw json.RawMessage) (Command, error) {
	if i < 0 || i >= len(e.questions) {
		return nil, eris.Wrapf(ErrInvalid, "question id %d out of range", i)
	}
	q := e.questions[i]
	cmd, err := e.command(q, raw)
	if err != nil {
		return nil, eris.Wrapf(err, "question %d (%s)", i, q.Key)
	}
	return cmd, nil
}

func (e *Engine) command(q model.Question, raw json.RawMessage) (Command, error) {
	rule := RuleID(q.Rule)
	switch rule {
	case RuleAge:
		age, err := response.DecodeAge(raw)
		if err != nil {
			return nil, err
		}
		return AgeCommand{Age: age, Eliminate: q.Eliminate}, nil

	case RulePhysical, RuleStanding, RuleMoving, RuleLeadership:
		tok, err := choice(q, raw)
		if err != nil {
			return nil, err
		}
		p, err := response.ParsePreference(tok)
		if err != nil {
			return nil, err
		}
		switch rule {
		case RulePhysical:
			return PhysicalCommand{Preference: p, Eliminate: q.Eliminate}, nil
		case RuleStanding:
			return StandingCommand{Preference: p, Eliminate: q.Eliminate}, nil
		case RuleMoving:
			return MovingCommand{Preference: p, Eliminate: q.Eliminate}, nil
		}
		return LeadershipCommand{Preference: p, Eliminate: q.Eliminate}, nil

	case RuleAvailability:
		n, err := response.DecodeNumber(raw)
		if err != nil {
			return nil, err
		}
		a, err := response.ParseAvailability(n)
		if err != nil {
			return nil, err
		}
		return AvailabilityCommand{Availability: a, Eliminate: q.Eliminate}, nil

	case RuleWorkingPreference:
		tok, err := choice(q, raw)
		if err != nil {
			return nil, err
		}
		return WorkingPreferenceCommand{Choice: model.WorkPref(tok), Eliminate: q.Eliminate}, nil

	case RulePriorExperience:
		tok, err := choice(q, raw)
		if err != nil {
			return nil, err
		}
		has, err := response.ParseYesNo(tok)
		if err != nil {
			return nil, err
		}
		return PriorExperienceCommand{HasExperience: has}, nil

	case RuleGameKnowledge:
		tok, err := choice(q, raw)
		if err != nil {
			return nil, err
		}
		level, err := response.ParseKnowledge(tok)
		if err != nil {
			return nil, err
		}
		return GameKnowledgeCommand{Level: level, Eliminate: q.Eliminate}, nil

	case RuleRequiredSkills, RuleRequiredExperience, RulePreferredExperience:
		toks, err := response.DecodeTokens(raw)
		if err != nil {
			return nil, err
		}
		for i, t := range toks {
			if v, ok := q.ResolveOption(t); ok {
				toks[i] = v
			}
		}
		sel, err := response.ParseSelection(toks, q.OptionValues())
		if err != nil {
			return nil, err
		}
		return RequirementCommand{RuleID: rule, Selected: sel, Eliminate: q.Eliminate}, nil
	}
	return nil, eris.Wrapf(ErrPlan, "unknown rule %q", q.Rule)
}

// choice resolves a single-choice answer to its canonical option value.
func choice(q model.Question, raw json.RawMessage) (string, error) {
	tok, err := response.DecodeToken(raw)
	if err != nil {
		return "", err
	}
	if v, ok := q.ResolveOption(tok); ok {
		return v, nil
	}
	return response.ParseMultiChoice(tok, q.OptionValues())
}

// Evaluate computes the outcome of cmd over roles without touching any
// session. student is the session's student status, overridden by an age
// answer that states it.
func Evaluate(roles []model.Role, cmd Command, student bool) (Outcome, error) {
	switch c := cmd.(type) {
	case AgeCommand:
		if c.Age.Student != nil {
			student = *c.Age.Student
		}
		return Age(roles, c.Age.Years, student, c.Eliminate), nil
	case PhysicalCommand:
		return Physical(roles, c.Preference, c.Eliminate), nil
	case StandingCommand:
		return Standing(roles, c.Preference, c.Eliminate), nil
	case MovingCommand:
		return Moving(roles, c.Preference, c.Eliminate), nil
	case AvailabilityCommand:
		return Availability(roles, c.Availability, c.Eliminate), nil
	case WorkingPreferenceCommand:
		return WorkingPreference(roles, c.Choice, c.Eliminate), nil
	case LeadershipCommand:
		return Leadership(roles, c.Preference, c.Eliminate), nil
	case PriorExperienceCommand:
		return PriorExperience(roles, c.HasExperience), nil
	case GameKnowledgeCommand:
		return GameKnowledge(roles, c.Level, c.Eliminate), nil
	case RequirementCommand:
		def, ok := rules[c.RuleID]
		if !ok || def.categorizer == nil {
			return Outcome{}, eris.Wrapf(ErrInvalid, "rule %q takes no category selection", c.RuleID)
		}
		if c.RuleID == RulePreferredExperience {
			return PreferredExperience(roles, def.field, def.categorizer, c.Selected)
		}
		return Requirements(roles, def.field, def.categorizer, c.Selected, c.Eliminate)
	case nil:
		return Outcome{}, eris.Wrap(ErrInvalid, "nil command")
	}
	return Outcome{}, eris.Wrapf(ErrInvalid, "unsupported command %s", fmt.Sprintf("%T", cmd))
}
