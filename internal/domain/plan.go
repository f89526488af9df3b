package domain

import (
	"fmt"
	"strings"
	"time"
)

// ChunkSize is the number of days generated per LLM round-trip. Plans longer
// than one chunk are extended on demand, one chunk at a time.
const ChunkSize = 7

// MaxPlanDays bounds the total requested duration of a plan.
const MaxPlanDays = 365

// Plan is a complete learning schedule for one topic/duration/skill-level
// request, composed of ordered Days. Days may be partially populated: only
// chunks generated so far exist in the store.
type Plan struct {
	ID         string
	UserID     string
	Topic      string
	TotalDays  int
	SkillLevel SkillLevel
	CreatedAt  time.Time
	Days       []Day

	// GeneratedDays is the highest day index present in the store, carried on
	// plans loaded without their day content.
	GeneratedDays int
}

// Day is one ordered slot of a Plan. Day indices across all generated chunks
// form a contiguous range starting at 1.
type Day struct {
	ID       string
	PlanID   string
	DayIndex int
	Title    string
	Tasks    []Task
}

// Task is a single unit of work within a Day. Completed is the only field
// that mutates after creation.
type Task struct {
	ID           string
	DayID        string
	Description  string
	ResourceLink string
	Completed    bool
}

// MaxDayIndex returns the highest generated day index, or 0 for an empty plan.
// Days are stored in index order; when content is not loaded the stored
// GeneratedDays count is used.
func (p *Plan) MaxDayIndex() int {
	if len(p.Days) == 0 {
		return p.GeneratedDays
	}
	return p.Days[len(p.Days)-1].DayIndex
}

// Exhausted reports whether every requested day has been generated, i.e.
// extend is a no-op.
func (p *Plan) Exhausted() bool {
	return p.MaxDayIndex() >= p.TotalDays
}

// ValidateGenerateInput checks the user-supplied generation parameters before
// any external call is made.
func ValidateGenerateInput(topic string, durationDays int) error {
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("topic must not be empty")
	}
	if durationDays <= 0 {
		return fmt.Errorf("duration must be a positive number of days")
	}
	if durationDays > MaxPlanDays {
		return fmt.Errorf("duration must not exceed %d days", MaxPlanDays)
	}
	return nil
}
