package repository

import (
	"context"

	"learnpath/internal/domain"
)

// AdminFeedbackRow is a joined view of a feedback row with its plan topic and
// author login, used by the admin feedback listing.
type AdminFeedbackRow struct {
	Feedback  domain.Feedback
	PlanTopic string
	UserLogin string
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	// InsertDays inserts a chunk of days and their tasks for an existing plan.
	// Callers run it inside a transaction together with Create or MaxDayIndex
	// to keep the day-index range contiguous.
	InsertDays(ctx context.Context, planID string, days []domain.Day) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	// GetWithContent loads a plan with all its days and tasks in index order.
	GetWithContent(ctx context.Context, id string) (*domain.Plan, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Plan, error)
	MaxDayIndex(ctx context.Context, planID string) (int, error)
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	SetCompleted(ctx context.Context, id string, completed bool) error
	// OwnerOf resolves the user who owns the plan a task belongs to.
	OwnerOf(ctx context.Context, id string) (string, error)
}

type FeedbackRepo interface {
	// Upsert inserts a feedback row or replaces the existing rating for the
	// same (plan, user) pair.
	Upsert(ctx context.Context, f *domain.Feedback) error
	Get(ctx context.Context, planID, userID string) (*domain.Feedback, error)
	ListAll(ctx context.Context) ([]AdminFeedbackRow, error)
}
