package domain

import (
	"fmt"
	"strings"
)

// SkillLevel is the learner's self-reported starting level for a topic.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// ValidSkillLevels is the canonical set of accepted skill level strings.
var ValidSkillLevels = map[SkillLevel]bool{
	SkillBeginner:     true,
	SkillIntermediate: true,
	SkillAdvanced:     true,
}

// ParseSkillLevel normalizes and validates a skill level string.
func ParseSkillLevel(s string) (SkillLevel, error) {
	level := SkillLevel(strings.ToLower(strings.TrimSpace(s)))
	if !ValidSkillLevels[level] {
		return "", fmt.Errorf("skill level %q must be one of beginner, intermediate, advanced", s)
	}
	return level, nil
}

// Display returns the capitalized form used in prompts and responses.
func (l SkillLevel) Display() string {
	switch l {
	case SkillBeginner:
		return "Beginner"
	case SkillIntermediate:
		return "Intermediate"
	case SkillAdvanced:
		return "Advanced"
	default:
		return string(l)
	}
}
