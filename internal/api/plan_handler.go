package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"learnpath/internal/domain"
	"learnpath/internal/service"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type GeneratePlanRequest struct {
	Topic        string `json:"topic" binding:"required"`
	DurationDays int    `json:"durationDays" binding:"required,min=1,max=365"`
	SkillLevel   string `json:"skillLevel" binding:"required"`
}

type ToggleTaskRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type TaskResponse struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	ResourceLink string `json:"resourceLink,omitempty"`
	Completed    bool   `json:"completed"`
}

type DayResponse struct {
	ID    string         `json:"id"`
	Day   int            `json:"day"`
	Title string         `json:"title"`
	Tasks []TaskResponse `json:"tasks"`
}

type PlanResponse struct {
	ID         string        `json:"id"`
	Topic      string        `json:"topic"`
	TotalDays  int           `json:"totalDays"`
	SkillLevel string        `json:"skillLevel"`
	CreatedAt  time.Time     `json:"createdAt"`
	Exhausted  bool          `json:"exhausted"`
	Days       []DayResponse `json:"days,omitempty"`
}

type ExtendPlanResponse struct {
	Exhausted bool          `json:"exhausted"`
	NewDays   []DayResponse `json:"newDays,omitempty"`
}

func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.Generate(c.Request.Context(), userID, req.Topic, req.DurationDays, req.SkillLevel)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapPlanToResponse(plan))
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	plans, err := h.planService.List(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		resp = append(resp, mapPlanToResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapPlanToResponse(plan))
}

func (h *PlanHandler) ExtendPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	result, err := h.planService.Extend(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := ExtendPlanResponse{Exhausted: result.Exhausted}
	for _, d := range result.NewDays {
		resp.NewDays = append(resp.NewDays, mapDayToResponse(d))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.planService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) ToggleTask(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ToggleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	task, err := h.planService.ToggleTask(c.Request.Context(), userID, c.Param("id"), *req.Completed)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapTaskToResponse(*task))
}

func mapPlanToResponse(p *domain.Plan) PlanResponse {
	resp := PlanResponse{
		ID:         p.ID,
		Topic:      p.Topic,
		TotalDays:  p.TotalDays,
		SkillLevel: p.SkillLevel.Display(),
		CreatedAt:  p.CreatedAt,
		Exhausted:  p.Exhausted(),
	}
	for _, d := range p.Days {
		resp.Days = append(resp.Days, mapDayToResponse(d))
	}
	return resp
}

func mapDayToResponse(d domain.Day) DayResponse {
	resp := DayResponse{
		ID:    d.ID,
		Day:   d.DayIndex,
		Title: d.Title,
		Tasks: make([]TaskResponse, 0, len(d.Tasks)),
	}
	for _, t := range d.Tasks {
		resp.Tasks = append(resp.Tasks, mapTaskToResponse(t))
	}
	return resp
}

func mapTaskToResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		Description:  t.Description,
		ResourceLink: t.ResourceLink,
		Completed:    t.Completed,
	}
}
