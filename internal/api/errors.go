package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"learnpath/internal/llm"
	"learnpath/internal/repository"
	"learnpath/internal/service"
)

// handleServiceError maps the service-layer error taxonomy onto HTTP codes.
// Generation-service and parse failures are flagged retryable so the client
// can offer a retry without treating the session as broken.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotOwner), errors.Is(err, service.ErrAdminDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrLoginTaken):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicate):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, llm.ErrAuthFailed):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"error":     "generation service rejected the configured credentials",
			"retryable": false,
		})
	case errors.Is(err, llm.ErrRateLimited),
		errors.Is(err, llm.ErrUnavailable),
		errors.Is(err, llm.ErrEmptyResponse),
		errors.Is(err, llm.ErrTimeout),
		errors.Is(err, llm.ErrInvalidOutput):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"error":     "plan generation failed, please try again",
			"retryable": true,
		})
	default:
		abortWithError(c, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
