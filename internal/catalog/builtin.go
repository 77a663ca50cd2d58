package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/volunteer-match/internal/assess"
	"github.com/sells-group/volunteer-match/internal/model"
	"github.com/sells-group/volunteer-match/internal/response"
)

func yesNo() []model.Option {
	return []model.Option{
		{Value: response.Yes, Label: "Yes"},
		{Value: response.No, Label: "No"},
	}
}

func yesNoPref() []model.Option {
	return append(yesNo(), model.Option{Value: response.NoPref, Label: "No Preference"})
}

// Builtin returns the default questionnaire. Each call returns fresh slices.
func Builtin() []model.Question {
	return []model.Question{
		{
			ID: 0, Key: "age", Text: "What is your age?",
			Type: model.InputNumber, Rule: string(assess.RuleAge), Eliminate: true,
		},
		{
			ID: 1, Key: "physical_ability", Text: "Do you prefer roles with physical activity?",
			Type: model.InputSelect3, Options: yesNoPref(), Rule: string(assess.RulePhysical), Eliminate: true,
		},
		{
			ID: 2, Key: "physical_ability_stand", Text: "Are you able to stand for long periods of time?",
			Type: model.InputSelect2, Options: yesNo(), Rule: string(assess.RuleStanding), Eliminate: true,
		},
		{
			ID: 3, Key: "physical_ability_move", Text: "Are you able to move around for long periods of time (e.g., walking, lifting)?",
			Type: model.InputSelect2, Options: yesNo(), Rule: string(assess.RuleMoving), Eliminate: true,
		},
		{
			ID: 4, Key: "availability", Text: "How many days are you available to volunteer for? Enter -1 if you are available for any number of days.",
			Type: model.InputNumber, Rule: string(assess.RuleAvailability), Eliminate: true,
		},
		{
			ID: 5, Key: "working_preference", Text: "Do you prefer working behind the scenes, front-facing, or no preference?",
			Type: model.InputSelect3, Rule: string(assess.RuleWorkingPreference), Eliminate: true,
			Options: []model.Option{
				{Value: string(model.WorkPrefBTS), Label: "Behind the scenes"},
				{Value: string(model.WorkPrefFront), Label: "Front-facing"},
				{Value: string(model.WorkPrefNoPref), Label: "No Preference"},
			},
		},
		{
			ID: 6, Key: "leadership_preference", Text: "Do you prefer roles with leadership responsibilities?",
			Type: model.InputSelect3, Options: yesNoPref(), Rule: string(assess.RuleLeadership), Eliminate: true,
		},
		{
			ID: 7, Key: "prior_experience", Text: "Do you have any prior experience with FIRST, volunteering or participating in the competitions?",
			Type: model.InputSelect2, Options: yesNo(), Rule: string(assess.RulePriorExperience),
		},
		{
			ID: 8, Key: "game_knowledge", Text: "How much knowledge do you have of the FIRST Robotics Competition and game rules?",
			Type: model.InputSelect4, Rule: string(assess.RuleGameKnowledge), Eliminate: true,
			Options: []model.Option{
				{Value: "NONE", Label: "None"},
				{Value: "LIMITED", Label: "Limited"},
				{Value: "AVERAGE", Label: "Average"},
				{Value: "THOROUGH", Label: "Thorough"},
			},
		},
		{
			ID: 9, Key: "required_skills", Text: "Which of the following required skills do you have?",
			Type: model.InputMultiSelect, Options: categoryOptions(assess.RuleRequiredSkills),
			Rule: string(assess.RuleRequiredSkills), Eliminate: true,
		},
		{
			ID: 10, Key: "experience", Text: "Which of the following experiences do you have?",
			Type: model.InputMultiSelect, Options: categoryOptions(assess.RuleRequiredExperience),
			Rule: string(assess.RuleRequiredExperience), Eliminate: true,
		},
		{
			ID: 11, Key: "preferred_experience", Text: "Which of these would you also bring to a role?",
			Type: model.InputMultiSelect, Options: categoryOptions(assess.RulePreferredExperience),
			Rule: string(assess.RulePreferredExperience),
		},
	}
}

func categoryOptions(rule assess.RuleID) []model.Option {
	title := cases.Title(language.English)
	names := assess.Categories(rule)
	out := make([]model.Option, len(names))
	for i, n := range names {
		out[i] = model.Option{Value: n, Label: title.String(strings.ToLower(n))}
	}
	return out
}
