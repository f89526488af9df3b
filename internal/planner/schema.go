package planner

import (
	"fmt"
	"strings"
)

// chunkResponse is the JSON structure the LLM must output for one chunk.
type chunkResponse struct {
	DailyPlan []chunkDay `json:"dailyPlan"`
}

type chunkDay struct {
	Day   int         `json:"day"`
	Title string      `json:"title"`
	Tasks []chunkTask `json:"tasks"`
}

type chunkTask struct {
	Description  string `json:"description"`
	ResourceLink string `json:"resourceLink"`
}

// validateChunk returns a validator that checks a decoded chunk against the
// requested day range. Acceptance is atomic: any violating day rejects the
// whole response rather than silently truncating the plan.
func validateChunk(fromDay, toDay int) func(chunkResponse) error {
	return func(resp chunkResponse) error {
		want := toDay - fromDay + 1
		if len(resp.DailyPlan) == 0 {
			return fmt.Errorf("dailyPlan is empty")
		}
		if len(resp.DailyPlan) != want {
			return fmt.Errorf("expected %d days (%d..%d), got %d", want, fromDay, toDay, len(resp.DailyPlan))
		}
		for i, day := range resp.DailyPlan {
			if day.Day != fromDay+i {
				return fmt.Errorf("day at position %d has number %d, expected %d", i, day.Day, fromDay+i)
			}
			if len(day.Tasks) == 0 {
				return fmt.Errorf("day %d has no tasks", day.Day)
			}
			for j, task := range day.Tasks {
				if strings.TrimSpace(task.Description) == "" {
					return fmt.Errorf("day %d task %d has an empty description", day.Day, j+1)
				}
			}
		}
		return nil
	}
}
