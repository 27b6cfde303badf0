package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recipevault/backend/internal/service"
)

// parseID reads the :id path parameter. A non-numeric id is treated the
// same as a missing record.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}

// parseIDList parses a comma-separated id list query parameter.
func parseIDList(raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// abortServiceError maps service errors onto the API error taxonomy.
// Ownership violations surface as 404 so that foreign records are
// indistinguishable from missing ones.
func abortServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrLabelExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
