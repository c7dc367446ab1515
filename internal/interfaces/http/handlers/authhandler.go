package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servis-automat/servis/internal/application/user/dto"
	"github.com/servis-automat/servis/internal/application/user/usecases"
	"github.com/servis-automat/servis/internal/interfaces/http/handlers/common"
	"github.com/servis-automat/servis/internal/shared/logger"
	"github.com/servis-automat/servis/internal/shared/utils"
)

type AuthHandler struct {
	loginUC       usecases.LoginExecutor
	refreshUC     usecases.RefreshTokenExecutor
	currentUserUC usecases.GetCurrentUserExecutor
	logger        logger.Interface
}

func NewAuthHandler(
	loginUC usecases.LoginExecutor,
	refreshUC usecases.RefreshTokenExecutor,
	currentUserUC usecases.GetCurrentUserExecutor,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		loginUC:       loginUC,
		refreshUC:     refreshUC,
		currentUserUC: currentUserUC,
		logger:        logger,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.loginUC.Execute(c.Request.Context(), usecases.LoginCommand{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", result)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	identity, ok := common.Caller(c)
	if !ok {
		return
	}

	result, err := h.refreshUC.Execute(c.Request.Context(), identity)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Token refreshed", result)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := common.Caller(c)
	if !ok {
		return
	}

	result, err := h.currentUserUC.Execute(c.Request.Context(), identity)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
