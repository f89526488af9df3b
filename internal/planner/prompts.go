package planner

import (
	"fmt"
	"strings"

	"learnpath/internal/domain"
)

const generateSystemPrompt = `You are an expert instructional designer. Your task is to create a personalized, day-by-day learning plan for the requested topic, time frame and skill level.

The output must be a clean JSON object and nothing else.
The top-level JSON object must have a single key "dailyPlan".
The value of "dailyPlan" must be an array with exactly one object per requested day, in ascending day order.
Each day object must contain exactly these keys:
1. "day" (number): the day number in the overall schedule.
2. "title" (string): a concise theme for that day.
3. "tasks" (array): the task objects for that day, at least one.

Each task object must contain:
- "description" (string): one or two sentences explaining what to do.
- "resourceLink" (string): a single, high-quality, real URL to a helpful resource, or "" if none applies.

Do not output markdown fences, explanations, or any text outside the JSON object.`

// BuildUserPrompt constructs the per-request instruction. fromDay and toDay
// are inclusive; for continuation chunks fromDay is greater than 1 and the
// model is told what ground the plan has already covered.
func BuildUserPrompt(topic string, skill domain.SkillLevel, totalDays, fromDay, toDay int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %q\n", strings.TrimSpace(topic))
	fmt.Fprintf(&b, "Total time frame: %d days\n", totalDays)
	fmt.Fprintf(&b, "Current skill level: %s\n\n", skill.Display())

	if fromDay > 1 {
		fmt.Fprintf(&b, "This is a continuation. Days 1 through %d of the plan already exist and build from the basics toward day %d.\n", fromDay-1, fromDay-1)
		fmt.Fprintf(&b, "Generate ONLY days %d through %d, continuing naturally from the earlier material without repeating it.\n", fromDay, toDay)
	} else {
		fmt.Fprintf(&b, "Generate days %d through %d of the plan.\n", fromDay, toDay)
	}

	fmt.Fprintf(&b, "The \"day\" numbers must be exactly %d..%d with no gaps.\n", fromDay, toDay)
	b.WriteString("Ensure the material for these days realistically fits the learner's overall time frame.")

	return b.String()
}
