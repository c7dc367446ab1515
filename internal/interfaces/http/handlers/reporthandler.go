package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servis-automat/servis/internal/interfaces/http/handlers/common"
	"github.com/servis-automat/servis/internal/shared/logger"
	"github.com/servis-automat/servis/internal/shared/utils"
)

type ReportHandler struct {
	weeklyUC     weeklyReportUseCase
	sendWeeklyUC sendWeeklyReportUseCase
	logger       logger.Interface
}

func NewReportHandler(weeklyUC weeklyReportUseCase, sendWeeklyUC sendWeeklyReportUseCase, log logger.Interface) *ReportHandler {
	return &ReportHandler{
		weeklyUC:     weeklyUC,
		sendWeeklyUC: sendWeeklyUC,
		logger:       log,
	}
}

// WeeklyReport handles GET /reports/weekly
func (h *ReportHandler) WeeklyReport(c *gin.Context) {
	identity, ok := common.Caller(c)
	if !ok {
		return
	}

	report, err := h.weeklyUC.Execute(c.Request.Context(), identity)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", report)
}

// SendWeeklyReport handles POST /reports/weekly/send
func (h *ReportHandler) SendWeeklyReport(c *gin.Context) {
	identity, ok := common.Caller(c)
	if !ok {
		return
	}

	result, err := h.sendWeeklyUC.Execute(c.Request.Context(), identity)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("weekly report dispatched",
		"user_id", identity.SubjectID,
		"sent", result.Sent,
		"failed", len(result.Failed),
	)
	utils.SuccessResponse(c, http.StatusOK, "Weekly report sent", result)
}
