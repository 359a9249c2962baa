package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"reliquia-backend/services"
	"reliquia-backend/utils"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrNothingOwed, http.StatusNotFound},
	{services.ErrInvalidCredentials, http.StatusUnauthorized},
	{services.ErrUserBanned, http.StatusForbidden},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrProtectedUser, http.StatusForbidden},
	{services.ErrSlotTaken, http.StatusConflict},
	{services.ErrEmailTaken, http.StatusConflict},
	{services.ErrSlugTaken, http.StatusConflict},
	{services.ErrInvalidTransition, http.StatusConflict},
	{services.ErrClosedDate, http.StatusUnprocessableEntity},
	{services.ErrInvalidSelection, http.StatusBadRequest},
	{services.ErrUnknownService, http.StatusBadRequest},
	{services.ErrUnknownCombo, http.StatusBadRequest},
	{services.ErrComboWithDiscount, http.StatusBadRequest},
	{services.ErrNoAdHocDiscount, http.StatusBadRequest},
	{services.ErrInvalidSlot, http.StatusBadRequest},
	{services.ErrInvalidBanReason, http.StatusBadRequest},
	{services.ErrWeakPassword, http.StatusBadRequest},
	{services.ErrPasswordMismatch, http.StatusBadRequest},
	{services.ErrInvalidPhone, http.StatusBadRequest},
	{services.ErrInvalidBirthDate, http.StatusBadRequest},
	{services.ErrInvalidStatus, http.StatusBadRequest},
	{services.ErrInvalidService, http.StatusBadRequest},
}

// respondServiceError maps a service error to its HTTP status. Unknown errors
// are logged and hidden behind a 500.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			utils.RespondWithError(c, e.status, err.Error())
			return
		}
	}
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := utils.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	return id, true
}
