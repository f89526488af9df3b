package service_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"learnpath/internal/domain"
	"learnpath/internal/planner"
	"learnpath/internal/repository"
	"learnpath/internal/service"
	"learnpath/internal/testutil"
)

// chunkBody builds a valid dailyPlan response for days from..to.
func chunkBody(from, to int) string {
	var days []map[string]any
	for d := from; d <= to; d++ {
		days = append(days, map[string]any{
			"day":   d,
			"title": fmt.Sprintf("Theme %d", d),
			"tasks": []map[string]any{
				{"description": fmt.Sprintf("Task %d", d), "resourceLink": "https://example.com"},
			},
		})
	}
	out, _ := json.Marshal(map[string]any{"dailyPlan": days})
	return string(out)
}

type planEnv struct {
	db    *sql.DB
	stub  *testutil.StubLLM
	plans *repository.SQLitePlanRepo
	svc   service.PlanService
	user  *domain.User
}

func newPlanEnv(t *testing.T, responses ...testutil.StubResponse) *planEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	users := repository.NewSQLiteUserRepo(database)
	plans := repository.NewSQLitePlanRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	stub := &testutil.StubLLM{Responses: responses}

	auth := service.NewAuthService(users, "test-secret", time.Hour, bcrypt.MinCost, 8)
	user, err := auth.Register(context.Background(), "alice", "password123", "Q?", "A")
	require.NoError(t, err)

	svc := service.NewPlanService(plans, tasks, planner.NewGenerator(stub), testutil.NewTestUoW(database))
	return &planEnv{db: database, stub: stub, plans: plans, svc: svc, user: user}
}

func TestPlanService_GenerateFirstChunk(t *testing.T) {
	env := newPlanEnv(t, testutil.StubResponse{Text: chunkBody(1, 7)})
	ctx := context.Background()

	plan, err := env.svc.Generate(ctx, env.user.ID, "  Python  ", 14, "Beginner")
	require.NoError(t, err)
	assert.Equal(t, "Python", plan.Topic)
	assert.Equal(t, 14, plan.TotalDays)
	assert.Equal(t, domain.SkillBeginner, plan.SkillLevel)
	require.Len(t, plan.Days, 7)

	stored, err := env.plans.GetWithContent(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, stored.Days, 7)
	for i, day := range stored.Days {
		assert.Equal(t, i+1, day.DayIndex)
		assert.NotEmpty(t, day.Tasks)
	}
	assert.False(t, stored.Exhausted())
}

func TestPlanService_GenerateShortPlanSingleChunk(t *testing.T) {
	env := newPlanEnv(t, testutil.StubResponse{Text: chunkBody(1, 3)})
	ctx := context.Background()

	plan, err := env.svc.Generate(ctx, env.user.ID, "Go", 3, "intermediate")
	require.NoError(t, err)
	require.Len(t, plan.Days, 3)

	stored, err := env.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.True(t, stored.Exhausted())
}

func TestPlanService_GenerateInvalidInputSkipsLLM(t *testing.T) {
	env := newPlanEnv(t, testutil.StubResponse{Text: chunkBody(1, 7)})
	ctx := context.Background()

	_, err := env.svc.Generate(ctx, env.user.ID, "   ", 14, "beginner")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = env.svc.Generate(ctx, env.user.ID, "Python", 0, "beginner")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = env.svc.Generate(ctx, env.user.ID, "Python", 400, "beginner")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = env.svc.Generate(ctx, env.user.ID, "Python", 14, "expert")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	assert.Empty(t, env.stub.Calls)
}

func TestPlanService_GenerateRollsBackOnWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	users := repository.NewSQLiteUserRepo(database)
	plans := repository.NewSQLitePlanRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	stub := &testutil.StubLLM{Responses: []testutil.StubResponse{{Text: chunkBody(1, 7)}}}
	ctx := context.Background()

	auth := service.NewAuthService(users, "test-secret", time.Hour, bcrypt.MinCost, 8)
	user, err := auth.Register(ctx, "alice", "password123", "Q?", "A")
	require.NoError(t, err)

	boom := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: boom}
	svc := service.NewPlanService(plans, tasks, planner.NewGenerator(stub), uow)

	plan, err := svc.Generate(ctx, user.ID, "Python", 14, "beginner")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, plan)

	// nothing persisted: neither the plan row nor any earlier day rows
	listed, err := plans.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	var dayCount int
	require.NoError(t, database.QueryRowContext(ctx, `SELECT COUNT(*) FROM days`).Scan(&dayCount))
	assert.Equal(t, 0, dayCount)
}

func TestPlanService_ExtendAppendsNextChunk(t *testing.T) {
	env := newPlanEnv(t,
		testutil.StubResponse{Text: chunkBody(1, 7)},
		testutil.StubResponse{Text: chunkBody(8, 14)},
	)
	ctx := context.Background()

	plan, err := env.svc.Generate(ctx, env.user.ID, "Python", 14, "beginner")
	require.NoError(t, err)

	result, err := env.svc.Extend(ctx, env.user.ID, plan.ID)
	require.NoError(t, err)
	require.Len(t, result.NewDays, 7)
	assert.Equal(t, 8, result.NewDays[0].DayIndex)
	assert.Equal(t, 14, result.NewDays[6].DayIndex)
	assert.True(t, result.Exhausted)

	stored, err := env.plans.GetWithContent(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, stored.Days, 14)
	assert.True(t, stored.Exhausted())
}

func TestPlanService_ExtendPartialFinalChunk(t *testing.T) {
	env := newPlanEnv(t,
		testutil.StubResponse{Text: chunkBody(1, 7)},
		testutil.StubResponse{Text: chunkBody(8, 10)},
	)
	ctx := context.Background()

	plan, err := env.svc.Generate(ctx, env.user.ID, "Python", 10, "beginner")
	require.NoError(t, err)

	result, err := env.svc.Extend(ctx, env.user.ID, plan.ID)
	require.NoError(t, err)
	require.Len(t, result.NewDays, 3)
	assert.True(t, result.Exhausted)
}

func TestPlanService_ExtendExhaustedIsNoOp(t *testing.T) {
	env := newPlanEnv(t, testutil.StubResponse{Text: chunkBody(1, 7)})
	ctx := context.Background()

	plan, err := env.svc.Generate(ctx, env.user.ID, "Python", 7, "beginner")
	require.NoError(t, err)
	require.Len(t, env.stub.Calls, 1)

	result, err := env.svc.Extend(ctx, env.user.ID, plan.ID)
	require.NoError(t, err)
	assert.True(t, result.Exhausted)
	assert.Empty(t, result.NewDays)
	assert.Len(t, env.stub.Calls, 1)
}

func TestPlanService_ExtendDeniedForNonOwner(t *testing.T) {
	env := newPlanEnv(t, testutil.StubResponse{Text: chunkBody(1, 7)})
	ctx := context.Background()

	plan, err := env.svc.Generate(ctx, env.user.ID, "Python", 14, "beginner")
	require.NoError(t, err)

	_, err = env.svc.Extend(ctx, "someone-else", plan.ID)
	assert.ErrorIs(t, err, service.ErrNotOwner)
}

func TestPlanService_GetAndList(t *testing.T) {
	env := newPlanEnv(t, testutil.StubResponse{Text: chunkBody(1, 7)})
	ctx := context.Background()

	plan, err := env.svc.Generate(ctx, env.user.ID, "Python", 14, "beginner")
	require.NoError(t, err)

	got, err := env.svc.Get(ctx, env.user.ID, plan.ID)
	require.NoError(t, err)
	assert.Len(t, got.Days, 7)

	_, err = env.svc.Get(ctx, "someone-else", plan.ID)
	assert.ErrorIs(t, err, service.ErrNotOwner)

	listed, err := env.svc.List(ctx, env.user.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 7, listed[0].GeneratedDays)
}

func TestPlanService_ToggleTask(t *testing.T) {
	env := newPlanEnv(t, testutil.StubResponse{Text: chunkBody(1, 7)})
	ctx := context.Background()

	plan, err := env.svc.Generate(ctx, env.user.ID, "Python", 14, "beginner")
	require.NoError(t, err)
	taskID := plan.Days[0].Tasks[0].ID

	task, err := env.svc.ToggleTask(ctx, env.user.ID, taskID, true)
	require.NoError(t, err)
	assert.True(t, task.Completed)

	// idempotent re-apply
	task, err = env.svc.ToggleTask(ctx, env.user.ID, taskID, true)
	require.NoError(t, err)
	assert.True(t, task.Completed)

	task, err = env.svc.ToggleTask(ctx, env.user.ID, taskID, false)
	require.NoError(t, err)
	assert.False(t, task.Completed)

	_, err = env.svc.ToggleTask(ctx, "someone-else", taskID, true)
	assert.ErrorIs(t, err, service.ErrNotOwner)

	_, err = env.svc.ToggleTask(ctx, env.user.ID, "missing", true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanService_Delete(t *testing.T) {
	env := newPlanEnv(t, testutil.StubResponse{Text: chunkBody(1, 7)})
	ctx := context.Background()

	plan, err := env.svc.Generate(ctx, env.user.ID, "Python", 14, "beginner")
	require.NoError(t, err)

	err = env.svc.Delete(ctx, "someone-else", plan.ID)
	assert.ErrorIs(t, err, service.ErrNotOwner)

	require.NoError(t, env.svc.Delete(ctx, env.user.ID, plan.ID))

	_, err = env.svc.Get(ctx, env.user.ID, plan.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
