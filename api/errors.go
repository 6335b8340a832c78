package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solnguyen93/flightcast/internal/domain"
)

// fail translates domain errors into the response contract. Duplicate saves
// are an expected outcome and are not logged; persistence failures are
// logged with detail and reported generically.
func (h *FlightHandler) fail(c *gin.Context, err error) {
	respondError(c, err, h.log.WithField("path", c.Request.URL.Path))
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	respondError(c, err, h.log.WithField("path", c.Request.URL.Path))
}

type fieldLogger interface {
	Error(args ...interface{})
	Warn(args ...interface{})
}

func respondError(c *gin.Context, err error, log fieldLogger) {
	switch {
	case errors.Is(err, domain.ErrDuplicateFlight):
		c.JSON(http.StatusConflict, gin.H{"status": "failure", "message": "Flight already saved"})
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"status": "failure", "message": "Access unauthorized."})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"status": "failure", "message": "Access unauthorized."})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": "failure", "message": "No data found"})
	case errors.Is(err, domain.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "message": "Username already taken"})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "message": "Email already taken"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "message": "Invalid credentials."})
	case errors.Is(err, domain.ErrUpstreamAuth):
		log.Warn("upstream token exchange failed: ", err)
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "Failed to fetch token"})
	case errors.Is(err, domain.ErrUpstreamRequest):
		log.Warn("upstream search failed: ", err)
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "Failed to fetch flights"})
	case errors.Is(err, domain.ErrPersistence):
		log.Error("persistence failure: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "failure", "message": "Database commit failed."})
	default:
		log.Error("unexpected error: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "failure", "message": "An unknown error occurred."})
	}
}
