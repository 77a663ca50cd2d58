package assess

import (
	"github.com/sells-group/volunteer-match/internal/model"
	"github.com/sells-group/volunteer-match/internal/response"
)

// RuleID names a scoring rule. Questions reference rules by these ids.
type RuleID string

// Rules, in the order the builtin questionnaire asks them.
const (
	RuleAge                 RuleID = "age"
	RulePhysical            RuleID = "physical_ability"
	RuleStanding            RuleID = "standing_ability"
	RuleMoving              RuleID = "moving_ability"
	RuleAvailability        RuleID = "availability"
	RuleWorkingPreference   RuleID = "working_preference"
	RuleLeadership          RuleID = "leadership_preference"
	RulePriorExperience     RuleID = "prior_experience"
	RuleGameKnowledge       RuleID = "game_knowledge"
	RuleRequiredSkills      RuleID = "required_skills"
	RuleRequiredExperience  RuleID = "required_experience"
	RulePreferredExperience RuleID = "preferred_experience"
)

// Command is one parsed answer bound to the rule that consumes it. The
// concrete types below are the only implementations.
type Command interface {
	Rule() RuleID
}

// AgeCommand carries the respondent's age.
type AgeCommand struct {
	Age       response.Age
	Eliminate bool
}

// PhysicalCommand carries the preference for physical roles.
type PhysicalCommand struct {
	Preference response.Preference
	Eliminate  bool
}

// StandingCommand carries whether the respondent can stand for long periods.
type StandingCommand struct {
	Preference response.Preference
	Eliminate  bool
}

// MovingCommand carries whether the respondent can keep moving for long
// periods.
type MovingCommand struct {
	Preference response.Preference
	Eliminate  bool
}

// AvailabilityCommand carries the respondent's available days.
type AvailabilityCommand struct {
	Availability response.Availability
	Eliminate    bool
}

// WorkingPreferenceCommand carries BTS, FRONT or NO_PREF.
type WorkingPreferenceCommand struct {
	Choice    model.WorkPref
	Eliminate bool
}

// LeadershipCommand carries the preference for leadership duties.
type LeadershipCommand struct {
	Preference response.Preference
	Eliminate  bool
}

// PriorExperienceCommand carries whether the respondent has volunteered or
// competed before.
type PriorExperienceCommand struct {
	HasExperience bool
}

// GameKnowledgeCommand carries the respondent's knowledge of the game.
type GameKnowledgeCommand struct {
	Level     model.KnowledgeLevel
	Eliminate bool
}

// RequirementCommand carries ticked categories for one of the
// required_skills, required_experience or preferred_experience rules.
type RequirementCommand struct {
	RuleID    RuleID
	Selected  response.Selection
	Eliminate bool
}

func (AgeCommand) Rule() RuleID               { return RuleAge }
func (PhysicalCommand) Rule() RuleID          { return RulePhysical }
func (StandingCommand) Rule() RuleID          { return RuleStanding }
func (MovingCommand) Rule() RuleID            { return RuleMoving }
func (AvailabilityCommand) Rule() RuleID      { return RuleAvailability }
func (WorkingPreferenceCommand) Rule() RuleID { return RuleWorkingPreference }
func (LeadershipCommand) Rule() RuleID        { return RuleLeadership }
func (PriorExperienceCommand) Rule() RuleID   { return RulePriorExperience }
func (GameKnowledgeCommand) Rule() RuleID     { return RuleGameKnowledge }
func (c RequirementCommand) Rule() RuleID     { return c.RuleID }
