package service

import (
	"context"

	"learnpath/internal/domain"
	"learnpath/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, login, password, recoveryQuestion, recoveryAnswer string) (*domain.User, error)
	Login(ctx context.Context, login, password string) (token string, user *domain.User, err error)
	RecoveryQuestion(ctx context.Context, login string) (string, error)
	ResetPassword(ctx context.Context, login, recoveryAnswer, newPassword string) error
	JWTSecret() string
}

// ExtendResult is the outcome of one extend call. Exhausted is true when the
// plan now covers its full requested duration; NewDays is empty when the call
// was a no-op on an already-complete plan.
type ExtendResult struct {
	NewDays   []domain.Day
	Exhausted bool
}

type PlanService interface {
	// Generate creates a plan and its first chunk of days in one atomic write.
	Generate(ctx context.Context, userID, topic string, durationDays int, skillLevel string) (*domain.Plan, error)
	// Extend generates and appends the next chunk of an incomplete plan.
	Extend(ctx context.Context, userID, planID string) (*ExtendResult, error)
	Get(ctx context.Context, userID, planID string) (*domain.Plan, error)
	List(ctx context.Context, userID string) ([]*domain.Plan, error)
	ToggleTask(ctx context.Context, userID, taskID string, completed bool) (*domain.Task, error)
	Delete(ctx context.Context, userID, planID string) error
}

type FeedbackService interface {
	Submit(ctx context.Context, userID, planID string, helpful bool, comment string) error
	ListForAdmin(ctx context.Context, adminPassword string) ([]repository.AdminFeedbackRow, error)
}
