package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"learnpath/internal/domain"
	"learnpath/internal/repository"
)

func seedableUser(login string) *domain.User {
	return &domain.User{
		ID:                 uuid.NewString(),
		Login:              login,
		PasswordHash:       "$2a$10$fakehash",
		RecoveryQuestion:   "First pet?",
		RecoveryAnswerHash: "$2a$10$fakeanswer",
		CreatedAt:          time.Now().UTC().Truncate(time.Second),
	}
}

func seedUser(t *testing.T, repo *repository.SQLiteUserRepo, login string) *domain.User {
	t.Helper()
	u := seedableUser(login)
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func seedPlan(t *testing.T, repo *repository.SQLitePlanRepo, userID string, totalDays int) *domain.Plan {
	t.Helper()
	p := &domain.Plan{
		ID:         uuid.NewString(),
		UserID:     userID,
		Topic:      "Python",
		TotalDays:  totalDays,
		SkillLevel: domain.SkillBeginner,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

// makeDays builds from..to days with identities assigned, two tasks each.
func makeDays(planID string, from, to int) []domain.Day {
	var days []domain.Day
	for i := from; i <= to; i++ {
		day := domain.Day{
			ID:       uuid.NewString(),
			PlanID:   planID,
			DayIndex: i,
			Title:    fmt.Sprintf("Theme %d", i),
		}
		for j := 0; j < 2; j++ {
			day.Tasks = append(day.Tasks, domain.Task{
				ID:           uuid.NewString(),
				DayID:        day.ID,
				Description:  fmt.Sprintf("Task %d.%d", i, j),
				ResourceLink: "https://example.com",
			})
		}
		days = append(days, day)
	}
	return days
}
