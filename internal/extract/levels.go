package extract

import (
	"strings"

	"github.com/sells-group/volunteer-match/internal/model"
)

var (
	requiredIndicators  = []string{"must", "required", "years", "prior years", "minimum", "experience required"}
	preferredIndicators = []string{"recommended", "helpful", "knowledge of", "general knowledge", "understanding of"}

	thoroughIndicators = []string{"thorough", "advanced", "in-depth"}
	averageIndicators  = []string{"average", "familiar", "general knowledge"}
	limitedIndicators  = []string{"can learn", "basic", "some knowledge"}
)

// RequirementStrength classifies a prior_first_exp cell.
func RequirementStrength(f model.Field) model.RequirementStrength {
	switch f.Kind {
	case model.FieldBool:
		if f.Bool {
			return model.StrengthRequired
		}
		return model.StrengthFalse
	case model.FieldEmpty:
		return model.StrengthUnknown
	}

	upper := strings.ToUpper(f.Text)
	switch {
	case strings.Contains(upper, "FALSE"):
		return model.StrengthFalse
	case strings.Contains(upper, "TRUE"):
		return model.StrengthRequired
	case strings.Contains(upper, "PREFERRED"):
		return model.StrengthPreferred
	}

	lower := strings.ToLower(f.Text)
	switch {
	case containsAny(lower, requiredIndicators):
		return model.StrengthRequired
	case containsAny(lower, preferredIndicators):
		return model.StrengthPreferred
	}
	return model.StrengthUnknown
}

// KnowledgeLevel classifies a basic_game_knowledge cell.
func KnowledgeLevel(f model.Field) model.KnowledgeLevel {
	switch f.Kind {
	case model.FieldBool:
		if f.Bool {
			return model.KnowledgeLimited
		}
		return model.KnowledgeNone
	case model.FieldEmpty:
		return model.KnowledgeUnknown
	}

	upper := strings.ToUpper(f.Text)
	if strings.Contains(upper, "FALSE") {
		return model.KnowledgeNone
	}
	if upper == "TRUE" {
		return model.KnowledgeLimited
	}

	lower := strings.ToLower(f.Text)
	switch {
	case containsAny(lower, thoroughIndicators):
		return model.KnowledgeThorough
	case containsAny(lower, averageIndicators):
		return model.KnowledgeAverage
	case containsAny(lower, limitedIndicators):
		return model.KnowledgeLimited
	}
	return model.KnowledgeUnknown
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
