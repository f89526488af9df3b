package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"learnpath/internal/repository"
	"learnpath/internal/service"
)

// FeedbackHandler holds the feedback service dependency.
type FeedbackHandler struct {
	feedbackService service.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// AdminPasswordHeader carries the admin password for the feedback listing.
const AdminPasswordHeader = "X-Admin-Password"

type SubmitFeedbackRequest struct {
	Helpful *bool  `json:"helpful" binding:"required"`
	Comment string `json:"comment"`
}

type AdminFeedbackResponse struct {
	ID        string    `json:"id"`
	PlanID    string    `json:"planId"`
	PlanTopic string    `json:"planTopic"`
	UserLogin string    `json:"userLogin"`
	Helpful   bool      `json:"helpful"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.feedbackService.Submit(c.Request.Context(), userID, c.Param("id"), *req.Helpful, req.Comment); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "feedback recorded"})
}

func (h *FeedbackHandler) AdminListFeedback(c *gin.Context) {
	rows, err := h.feedbackService.ListForAdmin(c.Request.Context(), c.GetHeader(AdminPasswordHeader))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := make([]AdminFeedbackResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, mapAdminFeedback(row))
	}
	c.JSON(http.StatusOK, resp)
}

func mapAdminFeedback(row repository.AdminFeedbackRow) AdminFeedbackResponse {
	return AdminFeedbackResponse{
		ID:        row.Feedback.ID,
		PlanID:    row.Feedback.PlanID,
		PlanTopic: row.PlanTopic,
		UserLogin: row.UserLogin,
		Helpful:   row.Feedback.Helpful,
		Comment:   row.Feedback.Comment,
		CreatedAt: row.Feedback.CreatedAt,
	}
}
