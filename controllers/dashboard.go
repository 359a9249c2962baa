package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"reliquia-backend/models"
	"reliquia-backend/services"
	"reliquia-backend/utils"
)

type DashboardAPI interface {
	Overview(ctx context.Context) (*services.DashboardOverview, error)
}

type EarningsAPI interface {
	Weekly(ctx context.Context, offset int) (*services.WeeklyEarnings, error)
}

type ModerationAPI interface {
	BanPresets() []services.BanPreset
	Search(ctx context.Context, q string) ([]models.User, error)
	Ban(ctx context.Context, id uuid.UUID, preset, custom string) (*models.User, error)
	Unban(ctx context.Context, id uuid.UUID) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type BanInput struct {
	Preset       string `json:"preset" binding:"required"`
	CustomReason string `json:"customReason"`
}

// AdminController serves the barber's panel: overview, earnings and user moderation.
type AdminController struct {
	dashboard  DashboardAPI
	earnings   EarningsAPI
	moderation ModerationAPI
	logger     *zap.Logger
}

func NewAdminController(dashboard DashboardAPI, earnings EarningsAPI, moderation ModerationAPI, logger *zap.Logger) *AdminController {
	return &AdminController{dashboard: dashboard, earnings: earnings, moderation: moderation, logger: logger}
}

func (a *AdminController) GetDashboardOverview(c *gin.Context) {
	overview, err := a.dashboard.Overview(c.Request.Context())
	if err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GetWeeklyEarnings takes ?week=N, 0 being the current week and -1 the previous one.
func (a *AdminController) GetWeeklyEarnings(c *gin.Context) {
	offset := 0
	if raw := c.Query("week"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid week offset")
			return
		}
		offset = n
	}
	earnings, err := a.earnings.Weekly(c.Request.Context(), offset)
	if err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, earnings)
}

func (a *AdminController) SearchUsers(c *gin.Context) {
	users, err := a.moderation.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (a *AdminController) GetBanPresets(c *gin.Context) {
	c.JSON(http.StatusOK, a.moderation.BanPresets())
}

// BanUser toggles the ban: a banned user is unbanned instead.
func (a *AdminController) BanUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input BanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	user, err := a.moderation.Ban(c.Request.Context(), userID, input.Preset, input.CustomReason)
	if err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *AdminController) UnbanUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := a.moderation.Unban(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *AdminController) DeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := a.moderation.Delete(c.Request.Context(), userID); err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
