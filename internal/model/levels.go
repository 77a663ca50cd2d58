package model

import "strings"

// RequirementStrength describes how mandatory a qualification is for a role.
type RequirementStrength string

// Requirement strengths.
const (
	StrengthRequired  RequirementStrength = "REQUIRED"
	StrengthPreferred RequirementStrength = "PREFERRED"
	StrengthFalse     RequirementStrength = "FALSE"
	StrengthUnknown   RequirementStrength = "UNKNOWN"
)

// KnowledgeLevel is an ordered depth of game knowledge.
type KnowledgeLevel int

// Knowledge levels, lowest first. KnowledgeUnknown sorts below everything
// and is never compared by rules.
const (
	KnowledgeUnknown KnowledgeLevel = iota - 1
	KnowledgeNone
	KnowledgeLimited
	KnowledgeAverage
	KnowledgeThorough
)

var knowledgeNames = map[KnowledgeLevel]string{
	KnowledgeUnknown:  "UNKNOWN",
	KnowledgeNone:     "NONE",
	KnowledgeLimited:  "LIMITED",
	KnowledgeAverage:  "AVERAGE",
	KnowledgeThorough: "THOROUGH",
}

// KnowledgeLevels lists the answerable levels in ascending order.
var KnowledgeLevels = []KnowledgeLevel{KnowledgeNone, KnowledgeLimited, KnowledgeAverage, KnowledgeThorough}

func (k KnowledgeLevel) String() string {
	if s, ok := knowledgeNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseKnowledgeLevel maps NONE/LIMITED/AVERAGE/THOROUGH (any case) to a level.
func ParseKnowledgeLevel(token string) (KnowledgeLevel, bool) {
	t := strings.ToUpper(strings.TrimSpace(token))
	for _, k := range KnowledgeLevels {
		if knowledgeNames[k] == t {
			return k, true
		}
	}
	return KnowledgeUnknown, false
}
