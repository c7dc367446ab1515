package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servis-automat/servis/internal/interfaces/http/handlers/common"
	"github.com/servis-automat/servis/internal/shared/constants"
	"github.com/servis-automat/servis/internal/shared/logger"
	"github.com/servis-automat/servis/internal/shared/utils"
)

type ClubHandler struct {
	listClubsUC    listClubsUseCase
	listMachinesUC listMachinesUseCase
	machineLabelUC machineLabelUseCase
	logger         logger.Interface
}

func NewClubHandler(
	listClubsUC listClubsUseCase,
	listMachinesUC listMachinesUseCase,
	machineLabelUC machineLabelUseCase,
	log logger.Interface,
) *ClubHandler {
	return &ClubHandler{
		listClubsUC:    listClubsUC,
		listMachinesUC: listMachinesUC,
		machineLabelUC: machineLabelUC,
		logger:         log,
	}
}

// ListClubs handles GET /clubs
func (h *ClubHandler) ListClubs(c *gin.Context) {
	identity, ok := common.Caller(c)
	if !ok {
		return
	}

	result, err := h.listClubsUC.Execute(c.Request.Context(), identity)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListMachines handles GET /clubs/:id/machines
func (h *ClubHandler) ListMachines(c *gin.Context) {
	identity, ok := common.Caller(c)
	if !ok {
		return
	}

	clubID, err := utils.ParseUintParam(c, "id", "club")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listMachinesUC.Execute(c.Request.Context(), identity, clubID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// MachineLabel handles GET /machines/:id/label and streams a PNG QR sticker.
func (h *ClubHandler) MachineLabel(c *gin.Context) {
	identity, ok := common.Caller(c)
	if !ok {
		return
	}

	machineID, err := utils.ParseUintParam(c, "id", "machine")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	label, err := h.machineLabelUC.Execute(c.Request.Context(), identity, machineID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", label.Filename))
	c.Data(http.StatusOK, constants.ContentTypePNG, label.PNG)
}
