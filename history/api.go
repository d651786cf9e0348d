package history

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIServer exposes the load history over HTTP.
type APIServer struct {
	store *Store
}

// NewAPIServer creates a new history API server.
func NewAPIServer(store *Store) *APIServer {
	return &APIServer{
		store: store,
	}
}

// Register mounts the history routes on the given group.
func (s *APIServer) Register(group *gin.RouterGroup) {
	group.GET("/history", s.HandleListAttempts)
	group.GET("/history/:id", s.HandleGetAttempt)
}

// ListAttemptsResponse represents the response for GET /api/v1/history.
type ListAttemptsResponse struct {
	Attempts []Attempt `json:"attempts"`
	Total    int       `json:"total"`
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// HandleListAttempts handles GET /api/v1/history.
func (s *APIServer) HandleListAttempts(c *gin.Context) {
	filter := Filter{Limit: 20}

	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Invalid limit parameter"))
			return
		}
		filter.Limit = limit
	}

	if offsetParam := c.Query("offset"); offsetParam != "" {
		offset, err := strconv.Atoi(offsetParam)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Invalid offset parameter"))
			return
		}
		filter.Offset = offset
	}

	if status := c.Query("status"); status != "" {
		if status != StatusLoaded && status != StatusFailed {
			c.JSON(http.StatusBadRequest, errorResponse("validation_error", ErrInvalidStatus.Error()))
			return
		}
		filter.Status = &status
	}

	attempts, err := s.store.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to list load attempts"))
		return
	}

	c.JSON(http.StatusOK, ListAttemptsResponse{
		Attempts: attempts,
		Total:    len(attempts),
	})
}

// HandleGetAttempt handles GET /api/v1/history/{id}.
func (s *APIServer) HandleGetAttempt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid_id", "Invalid attempt ID"))
		return
	}

	attempt, err := s.store.Get(id)
	if errors.Is(err, ErrAttemptNotFound) {
		c.JSON(http.StatusNotFound, errorResponse("not_found", "Load attempt with ID "+id.String()+" not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to retrieve load attempt"))
		return
	}

	c.JSON(http.StatusOK, attempt)
}
