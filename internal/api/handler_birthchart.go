package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lunary-backend/internal/model"
)

type putBirthChartRequest struct {
	Positions []model.BirthChartPosition `json:"positions" binding:"required,min=1,dive"`
}

// PutBirthChart handles PUT /api/users/{user_id}/birth-chart. After the
// chart is saved, every derived cache for the user is swept synchronously.
// Sweep failures are logged by the coordinator and never fail the request:
// the primary mutation already succeeded.
func (h *Handler) PutBirthChart(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req putBirthChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chart, err := json.Marshal(req.Positions)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.SaveBirthChart(c.Request.Context(), userID, chart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save birth chart"})
		return
	}

	results := h.invalidator.InvalidateDerivedCaches(c.Request.Context(), userID)
	cleared := 0
	for _, r := range results {
		if r.Err == nil {
			cleared++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"saved":          true,
		"caches_cleared": cleared,
		"caches_total":   len(results),
	})
}
