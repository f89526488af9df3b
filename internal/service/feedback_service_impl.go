package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"learnpath/internal/domain"
	"learnpath/internal/repository"
)

type feedbackService struct {
	feedback      repository.FeedbackRepo
	plans         repository.PlanRepo
	adminPassword string
}

// NewFeedbackService creates a FeedbackService. The admin password guards the
// cross-user feedback listing.
func NewFeedbackService(feedback repository.FeedbackRepo, plans repository.PlanRepo, adminPassword string) FeedbackService {
	if adminPassword == "" {
		panic("admin password cannot be empty")
	}
	return &feedbackService{feedback: feedback, plans: plans, adminPassword: adminPassword}
}

func (s *feedbackService) Submit(ctx context.Context, userID, planID string, helpful bool, comment string) error {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return err
	}
	if plan.UserID != userID {
		return ErrNotOwner
	}
	if len(comment) > 2000 {
		return fmt.Errorf("%w: comment must not exceed 2000 characters", ErrInvalidInput)
	}

	// One rating per (plan, user): resubmitting replaces the earlier row.
	return s.feedback.Upsert(ctx, &domain.Feedback{
		ID:        uuid.New().String(),
		PlanID:    planID,
		UserID:    userID,
		Helpful:   helpful,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now().UTC(),
	})
}

func (s *feedbackService) ListForAdmin(ctx context.Context, adminPassword string) ([]repository.AdminFeedbackRow, error) {
	if subtle.ConstantTimeCompare([]byte(adminPassword), []byte(s.adminPassword)) != 1 {
		return nil, ErrAdminDenied
	}
	return s.feedback.ListAll(ctx)
}
