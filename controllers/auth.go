package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"reliquia-backend/models"
	"reliquia-backend/services"
	"reliquia-backend/utils"
)

type AccountAPI interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Me(ctx context.Context, id uuid.UUID) (*models.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, password, confirmation string) error
}

type RegisterInput struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	BirthDate string `json:"birthDate"` // dd/mm/yyyy
	Password  string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	accounts     AccountAPI
	tokens       *utils.TokenManager
	secureCookie bool
	logger       *zap.Logger
}

func NewAuthController(accounts AccountAPI, tokens *utils.TokenManager, secureCookie bool, logger *zap.Logger) *AuthController {
	return &AuthController{accounts: accounts, tokens: tokens, secureCookie: secureCookie, logger: logger}
}

func (a *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	user, err := a.accounts.Register(c.Request.Context(), services.RegisterRequest{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		BirthDate: input.BirthDate,
		Password:  input.Password,
	})
	if err != nil {
		respondServiceError(c, a.logger, err)
		return
	}

	token, ok := a.issueToken(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user":    user,
	})
}

func (a *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := a.accounts.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		var banned *services.BannedError
		if errors.As(err, &banned) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     services.ErrUserBanned.Error(),
				"banReason": banned.Reason,
			})
			return
		}
		respondServiceError(c, a.logger, err)
		return
	}

	token, ok := a.issueToken(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (a *AuthController) issueToken(c *gin.Context, user *models.User) (string, bool) {
	token, err := a.tokens.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		a.logger.Error("failed to generate token", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return "", false
	}
	c.SetCookie(
		utils.TokenCookie,
		token,
		int(a.tokens.Expiry().Seconds()),
		"/",
		"",
		a.secureCookie,
		true,
	)
	return token, true
}
