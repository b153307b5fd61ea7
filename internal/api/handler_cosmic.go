package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lunary-backend/internal/cosmic"
)

// GetGlobalCosmic handles GET /api/cosmic/today. An optional ?date=
// (YYYY-MM-DD) selects another day; the row is built lazily on a miss.
func (h *Handler) GetGlobalCosmic(c *gin.Context) {
	at := time.Now().UTC()
	if dateParam := c.Query("date"); dateParam != "" {
		parsed, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid date. Use YYYY-MM-DD."})
			return
		}
		at = parsed
	}

	row, err := h.cosmic.GlobalData(c.Request.Context(), at)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cosmic data"})
		return
	}

	c.JSON(http.StatusOK, row)
}

// GetUserSnapshot handles GET /api/users/{user_id}/snapshot. Missing birth
// data degrades to an unpersonalized response rather than an error: the
// page still renders, just without a personal highlight.
func (h *Handler) GetUserSnapshot(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	now := time.Now().UTC()
	snap, err := h.cosmic.SnapshotFor(c.Request.Context(), userID, now)
	if err != nil {
		if errors.Is(err, cosmic.ErrNoBirthData) {
			c.JSON(http.StatusOK, gin.H{
				"personalized": false,
				"message":      "no personalized highlight today",
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build snapshot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"personalized": true,
		"snapshot":     snap,
	})
}
