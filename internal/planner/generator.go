package planner

import (
	"context"
	"fmt"
	"strings"

	"learnpath/internal/domain"
	"learnpath/internal/llm"
)

// Generator produces one validated chunk of plan days via the LLM.
type Generator interface {
	// GenerateChunk requests days fromDay..toDay (inclusive) of a totalDays
	// plan and returns them as domain days in index order. The returned days
	// carry no IDs; the caller assigns identity when persisting.
	GenerateChunk(ctx context.Context, topic string, skill domain.SkillLevel, totalDays, fromDay, toDay int) ([]domain.Day, error)
}

type generator struct {
	client llm.Client
}

// NewGenerator creates a Generator backed by an LLM client.
func NewGenerator(client llm.Client) Generator {
	return &generator{client: client}
}

func (g *generator) GenerateChunk(ctx context.Context, topic string, skill domain.SkillLevel, totalDays, fromDay, toDay int) ([]domain.Day, error) {
	if fromDay < 1 || toDay < fromDay || toDay > totalDays {
		return nil, fmt.Errorf("invalid day range %d..%d for a %d-day plan", fromDay, toDay, totalDays)
	}

	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: generateSystemPrompt,
		UserPrompt:   BuildUserPrompt(topic, skill, totalDays, fromDay, toDay),
	})
	if err != nil {
		return nil, fmt.Errorf("generating days %d..%d: %w", fromDay, toDay, err)
	}

	chunk, err := llm.ExtractJSON(resp.Text, validateChunk(fromDay, toDay))
	if err != nil {
		return nil, fmt.Errorf("parsing days %d..%d: %w", fromDay, toDay, err)
	}

	days := make([]domain.Day, 0, len(chunk.DailyPlan))
	for _, d := range chunk.DailyPlan {
		title := strings.TrimSpace(d.Title)
		if title == "" {
			title = fmt.Sprintf("Day %d", d.Day)
		}
		day := domain.Day{
			DayIndex: d.Day,
			Title:    title,
		}
		for _, t := range d.Tasks {
			day.Tasks = append(day.Tasks, domain.Task{
				Description:  strings.TrimSpace(t.Description),
				ResourceLink: strings.TrimSpace(t.ResourceLink),
			})
		}
		days = append(days, day)
	}
	return days, nil
}
