package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"learnpath/internal/api"
	"learnpath/internal/planner"
	"learnpath/internal/repository"
	"learnpath/internal/service"
	"learnpath/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testAdminPassword = "admin-pass"

func newTestRouter(t *testing.T, responses ...testutil.StubResponse) (*gin.Engine, *testutil.StubLLM) {
	t.Helper()
	database := testutil.NewTestDB(t)
	users := repository.NewSQLiteUserRepo(database)
	plans := repository.NewSQLitePlanRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	feedback := repository.NewSQLiteFeedbackRepo(database)
	stub := &testutil.StubLLM{Responses: responses}

	authService := service.NewAuthService(users, "test-secret", time.Hour, bcrypt.MinCost, 8)
	planService := service.NewPlanService(plans, tasks, planner.NewGenerator(stub), testutil.NewTestUoW(database))
	feedbackService := service.NewFeedbackService(feedback, plans, testAdminPassword)

	router := gin.New()
	api.SetupRoutes(router, authService, planService, feedbackService)
	return router, stub
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func registerAndLogin(t *testing.T, router *gin.Engine, login string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"login":            login,
		"password":         "password123",
		"recoveryQuestion": "First pet?",
		"recoveryAnswer":   "Rex",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"login":    login,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	return decode[api.LoginResponse](t, w).Token
}

// planChunk builds a valid dailyPlan response covering days from..to.
func planChunk(from, to int) string {
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

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegister_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"login": "alice", "password": "short", "recoveryQuestion": "Q?", "recoveryAnswer": "A",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"password": "password123", "recoveryQuestion": "Q?", "recoveryAnswer": "A",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_DuplicateLogin(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"login":            "alice",
		"password":         "password456",
		"recoveryQuestion": "Q?",
		"recoveryAnswer":   "A",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"login": "alice", "password": "wrongpass1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/recovery-question", "", gin.H{"login": "alice"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "First pet?")

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/reset-password", "", gin.H{
		"login": "alice", "recoveryAnswer": "rex", "newPassword": "newpassword1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"login": "alice", "password": "newpassword1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/plans", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/plans", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPlanLifecycle(t *testing.T) {
	router, _ := newTestRouter(t,
		testutil.StubResponse{Text: planChunk(1, 7)},
		testutil.StubResponse{Text: planChunk(8, 14)},
	)
	token := registerAndLogin(t, router, "alice")

	// create
	w := doJSON(t, router, http.MethodPost, "/api/v1/plans", token, gin.H{
		"topic": "Python", "durationDays": 14, "skillLevel": "beginner",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	created := decode[api.PlanResponse](t, w)
	require.Len(t, created.Days, 7)
	assert.Equal(t, "Beginner", created.SkillLevel)
	assert.False(t, created.Exhausted)

	// list
	w = doJSON(t, router, http.MethodGet, "/api/v1/plans", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[[]api.PlanResponse](t, w)
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].Days)

	// get with content
	w = doJSON(t, router, http.MethodGet, "/api/v1/plans/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[api.PlanResponse](t, w)
	require.Len(t, got.Days, 7)
	require.NotEmpty(t, got.Days[0].Tasks)
	taskID := got.Days[0].Tasks[0].ID

	// toggle a task
	w = doJSON(t, router, http.MethodPatch, "/api/v1/tasks/"+taskID, token, gin.H{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[api.TaskResponse](t, w).Completed)

	// extend
	w = doJSON(t, router, http.MethodPost, "/api/v1/plans/"+created.ID+"/extend", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	extended := decode[api.ExtendPlanResponse](t, w)
	require.Len(t, extended.NewDays, 7)
	assert.Equal(t, 8, extended.NewDays[0].Day)
	assert.True(t, extended.Exhausted)

	// extend past the end is a no-op
	w = doJSON(t, router, http.MethodPost, "/api/v1/plans/"+created.ID+"/extend", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	noop := decode[api.ExtendPlanResponse](t, w)
	assert.True(t, noop.Exhausted)
	assert.Empty(t, noop.NewDays)

	// delete
	w = doJSON(t, router, http.MethodDelete, "/api/v1/plans/"+created.ID, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/plans/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGeneratePlan_LLMFailure(t *testing.T) {
	router, _ := newTestRouter(t, testutil.StubResponse{Text: "sorry, no JSON today"})
	token := registerAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/api/v1/plans", token, gin.H{
		"topic": "Python", "durationDays": 14, "skillLevel": "beginner",
	})
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"retryable":true`)
}

func TestGetPlan_OtherUsersPlanForbidden(t *testing.T) {
	router, _ := newTestRouter(t, testutil.StubResponse{Text: planChunk(1, 7)})
	aliceToken := registerAndLogin(t, router, "alice")
	bobToken := registerAndLogin(t, router, "bob")

	w := doJSON(t, router, http.MethodPost, "/api/v1/plans", aliceToken, gin.H{
		"topic": "Python", "durationDays": 7, "skillLevel": "beginner",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	planID := decode[api.PlanResponse](t, w).ID

	w = doJSON(t, router, http.MethodGet, "/api/v1/plans/"+planID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/plans/"+planID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFeedbackFlow(t *testing.T) {
	router, _ := newTestRouter(t, testutil.StubResponse{Text: planChunk(1, 7)})
	token := registerAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/api/v1/plans", token, gin.H{
		"topic": "Python", "durationDays": 7, "skillLevel": "beginner",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	planID := decode[api.PlanResponse](t, w).ID

	w = doJSON(t, router, http.MethodPost, "/api/v1/plans/"+planID+"/feedback", token, gin.H{
		"helpful": true, "comment": "great pacing",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// missing admin password
	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/feedback", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// wrong admin password
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/feedback", nil)
	req.Header.Set(api.AdminPasswordHeader, "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// correct admin password
	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/feedback", nil)
	req.Header.Set(api.AdminPasswordHeader, testAdminPassword)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []api.AdminFeedbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].UserLogin)
	assert.Equal(t, "Python", rows[0].PlanTopic)
	assert.True(t, rows[0].Helpful)
}

func TestToggleTask_MissingBody(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPatch, "/api/v1/tasks/some-id", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
