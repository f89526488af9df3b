package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"learnpath/internal/db"
	"learnpath/internal/domain"
	"learnpath/internal/planner"
	"learnpath/internal/repository"
)

type planService struct {
	plans     repository.PlanRepo
	tasks     repository.TaskRepo
	generator planner.Generator
	uow       db.UnitOfWork
}

// NewPlanService creates a PlanService. Multi-row writes (create, extend) run
// through the unit of work so the contiguous day-index invariant survives
// partial failures.
func NewPlanService(plans repository.PlanRepo, tasks repository.TaskRepo, generator planner.Generator, uow db.UnitOfWork) PlanService {
	return &planService{plans: plans, tasks: tasks, generator: generator, uow: uow}
}

func (s *planService) Generate(ctx context.Context, userID, topic string, durationDays int, skillLevel string) (*domain.Plan, error) {
	if err := domain.ValidateGenerateInput(topic, durationDays); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	skill, err := domain.ParseSkillLevel(skillLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	topic = strings.TrimSpace(topic)

	// The LLM round-trip happens before any row is written: a failed or
	// malformed generation leaves no partial plan behind.
	toDay := durationDays
	if toDay > domain.ChunkSize {
		toDay = domain.ChunkSize
	}
	days, err := s.generator.GenerateChunk(ctx, topic, skill, durationDays, 1, toDay)
	if err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		ID:         uuid.New().String(),
		UserID:     userID,
		Topic:      topic,
		TotalDays:  durationDays,
		SkillLevel: skill,
		CreatedAt:  time.Now().UTC(),
		Days:       assignIdentity(days, ""),
	}
	for i := range plan.Days {
		plan.Days[i].PlanID = plan.ID
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		if err := txPlans.Create(ctx, plan); err != nil {
			return err
		}
		return txPlans.InsertDays(ctx, plan.ID, plan.Days)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) Extend(ctx context.Context, userID, planID string) (*ExtendResult, error) {
	plan, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	maxIdx, err := s.plans.MaxDayIndex(ctx, planID)
	if err != nil {
		return nil, err
	}
	if maxIdx >= plan.TotalDays {
		return &ExtendResult{Exhausted: true}, nil
	}

	fromDay := maxIdx + 1
	toDay := maxIdx + domain.ChunkSize
	if toDay > plan.TotalDays {
		toDay = plan.TotalDays
	}

	days, err := s.generator.GenerateChunk(ctx, plan.Topic, plan.SkillLevel, plan.TotalDays, fromDay, toDay)
	if err != nil {
		return nil, err
	}
	days = assignIdentity(days, planID)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)

		// Re-check inside the transaction so a concurrent extend cannot
		// produce overlapping or gapped indices.
		cur, err := txPlans.MaxDayIndex(ctx, planID)
		if err != nil {
			return err
		}
		if cur != maxIdx {
			return fmt.Errorf("plan changed during extension: %w", repository.ErrDuplicate)
		}
		return txPlans.InsertDays(ctx, planID, days)
	})
	if err != nil {
		return nil, err
	}

	return &ExtendResult{
		NewDays:   days,
		Exhausted: toDay >= plan.TotalDays,
	}, nil
}

func (s *planService) Get(ctx context.Context, userID, planID string) (*domain.Plan, error) {
	plan, err := s.plans.GetWithContent(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrNotOwner
	}
	return plan, nil
}

func (s *planService) List(ctx context.Context, userID string) ([]*domain.Plan, error) {
	return s.plans.ListByUser(ctx, userID)
}

func (s *planService) ToggleTask(ctx context.Context, userID, taskID string, completed bool) (*domain.Task, error) {
	owner, err := s.tasks.OwnerOf(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, ErrNotOwner
	}
	if err := s.tasks.SetCompleted(ctx, taskID, completed); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, taskID)
}

func (s *planService) Delete(ctx context.Context, userID, planID string) error {
	if _, err := s.getOwned(ctx, userID, planID); err != nil {
		return err
	}
	return s.plans.Delete(ctx, planID)
}

func (s *planService) getOwned(ctx context.Context, userID, planID string) (*domain.Plan, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrNotOwner
	}
	return plan, nil
}

// assignIdentity gives generated value-object days and tasks their row IDs.
func assignIdentity(days []domain.Day, planID string) []domain.Day {
	for i := range days {
		days[i].ID = uuid.New().String()
		days[i].PlanID = planID
		for j := range days[i].Tasks {
			days[i].Tasks[j].ID = uuid.New().String()
			days[i].Tasks[j].DayID = days[i].ID
		}
	}
	return days
}
