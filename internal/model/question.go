package model

import "strings"

// InputType is how a question expects to be answered.
type InputType string

// Input types used by the catalog. The select variants carry their option
// count so clients can pick a widget without inspecting options.
const (
	InputNumber      InputType = "number"
	InputSelect2     InputType = "select-2"
	InputSelect3     InputType = "select-3"
	InputSelect4     InputType = "select-4"
	InputMultiSelect InputType = "multiselect"
)

// IsSelect reports whether t is a single-choice select.
func (t InputType) IsSelect() bool {
	return strings.HasPrefix(string(t), "select")
}

// Option is one answer choice. Value is the canonical token the engine
// consumes; Label is what a respondent sees.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Question is one questionnaire step.
type Question struct {
	ID        int       `json:"id" yaml:"id"`
	Key       string    `json:"key" yaml:"key"`
	Text      string    `json:"question" yaml:"question"`
	Type      InputType `json:"type" yaml:"type"`
	Options   []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	Rule      string    `json:"rule" yaml:"rule"`
	Eliminate bool      `json:"eliminate" yaml:"eliminate"`
}

// OptionValues returns the canonical tokens of q's options.
func (q Question) OptionValues() []string {
	out := make([]string, len(q.Options))
	for i, o := range q.Options {
		out[i] = o.Value
	}
	return out
}

// ResolveOption maps a respondent token to its canonical option value.
// Both values and labels match, ignoring case and surrounding space.
func (q Question) ResolveOption(token string) (string, bool) {
	t := strings.TrimSpace(token)
	for _, o := range q.Options {
		if strings.EqualFold(o.Value, t) || (o.Label != "" && strings.EqualFold(o.Label, t)) {
			return o.Value, true
		}
	}
	return "", false
}
