package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servis-automat/servis/internal/application/ticket/usecases"
	"github.com/servis-automat/servis/internal/interfaces/http/handlers/common"
	"github.com/servis-automat/servis/internal/shared/logger"
	"github.com/servis-automat/servis/internal/shared/utils"
)

// DashboardHandler serves the aggregated ticket counters.
type DashboardHandler struct {
	statsUC usecases.DashboardStatsExecutor
	logger  logger.Interface
}

func NewDashboardHandler(statsUC usecases.DashboardStatsExecutor, log logger.Interface) *DashboardHandler {
	return &DashboardHandler{
		statsUC: statsUC,
		logger:  log,
	}
}

// GetStats handles GET /dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	identity, ok := common.Caller(c)
	if !ok {
		return
	}

	stats, err := h.statsUC.Execute(c.Request.Context(), usecases.DashboardStatsQuery{Identity: identity})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", stats)
}
