package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"reliquia-backend/models"
	"reliquia-backend/services"
	"reliquia-backend/utils"
)

type BookingAPI interface {
	AvailableSlots(ctx context.Context, date string) (services.Availability, error)
	Quote(ctx context.Context, req services.QuoteRequest) (*services.Quote, error)
	Book(ctx context.Context, req services.BookRequest) (*models.Appointment, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error)
	ListAll(ctx context.Context, status string) ([]models.Appointment, error)
	CancelOwn(ctx context.Context, userID, apptID uuid.UUID) (*models.Appointment, error)
	Confirm(ctx context.Context, apptID uuid.UUID) (*models.Appointment, error)
	AdminCancel(ctx context.Context, apptID uuid.UUID) error
}

type QuoteInput struct {
	ServiceIDs  []string `json:"serviceIds"`
	ComboID     string   `json:"comboId"`
	AcceptAdHoc bool     `json:"acceptAdHocDiscount"`
}

type BookInput struct {
	Date        string   `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string   `json:"time" binding:"required"` // HH:MM
	ServiceIDs  []string `json:"serviceIds"`
	ComboID     string   `json:"comboId"`
	AcceptAdHoc bool     `json:"acceptAdHocDiscount"`
}

type AppointmentController struct {
	booking BookingAPI
	logger  *zap.Logger
}

func NewAppointmentController(booking BookingAPI, logger *zap.Logger) *AppointmentController {
	return &AppointmentController{booking: booking, logger: logger}
}

func (a *AppointmentController) Quote(c *gin.Context) {
	var input QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	quote, err := a.booking.Quote(c.Request.Context(), services.QuoteRequest{
		ServiceIDs:  input.ServiceIDs,
		ComboID:     input.ComboID,
		AcceptAdHoc: input.AcceptAdHoc,
	})
	if err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (a *AppointmentController) GetSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "date query parameter is required")
		return
	}
	availability, err := a.booking.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

func (a *AppointmentController) CreateAppointment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input BookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := a.booking.Book(c.Request.Context(), services.BookRequest{
		UserID:      userID,
		Date:        input.Date,
		Time:        input.Time,
		ServiceIDs:  input.ServiceIDs,
		ComboID:     input.ComboID,
		AcceptAdHoc: input.AcceptAdHoc,
	})
	if err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (a *AppointmentController) GetMyAppointments(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	appts, err := a.booking.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (a *AppointmentController) CancelMyAppointment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	apptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	appt, err := a.booking.CancelOwn(c.Request.Context(), userID, apptID)
	if err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// ListAppointments is the admin view, optionally filtered by ?status=.
func (a *AppointmentController) ListAppointments(c *gin.Context) {
	appts, err := a.booking.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (a *AppointmentController) ConfirmAppointment(c *gin.Context) {
	apptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	appt, err := a.booking.Confirm(c.Request.Context(), apptID)
	if err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (a *AppointmentController) DeleteAppointment(c *gin.Context) {
	apptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := a.booking.AdminCancel(c.Request.Context(), apptID); err != nil {
		respondServiceError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled successfully"})
}
