package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetRetrogradeStatus handles GET /api/retrograde. Inactive is a normal
// structured result, not an error.
func (h *Handler) GetRetrogradeStatus(c *gin.Context) {
	now := time.Now().UTC()
	status := h.retro.StatusAt(now)

	resp := gin.H{
		"is_active":     status.IsActive,
		"is_completed":  status.IsCompleted,
		"survival_days": status.SurvivalDays,
		"badge":         status.Badge,
	}
	if status.Period != nil {
		resp["planet"] = status.Period.Planet.String()
		resp["sign"] = status.Period.Sign.String()
		resp["start"] = status.Period.Start.Format("2006-01-02")
		resp["end"] = status.Period.End.Format("2006-01-02")
		resp["space_slug"] = h.retro.ActiveSpaceSlug(now)
	}

	c.JSON(http.StatusOK, resp)
}
