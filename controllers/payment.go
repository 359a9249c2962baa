package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"reliquia-backend/services"
	"reliquia-backend/utils"
)

const (
	defaultQRSize = 320
	maxQRSize     = 1024
)

type PaymentAPI interface {
	Balance(ctx context.Context, userID uuid.UUID) (*services.Balance, error)
	OutstandingClients(ctx context.Context) ([]services.ClientBalance, error)
	PixFor(ctx context.Context, userID uuid.UUID) (*services.PixCharge, error)
	PixQRCode(ctx context.Context, userID uuid.UUID, size int) ([]byte, error)
}

type PaymentController struct {
	payments PaymentAPI
	logger   *zap.Logger
}

func NewPaymentController(payments PaymentAPI, logger *zap.Logger) *PaymentController {
	return &PaymentController{payments: payments, logger: logger}
}

// GetMyBalance returns what the logged-in customer owes
func (p *PaymentController) GetMyBalance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	balance, err := p.payments.Balance(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, p.logger, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (p *PaymentController) GetOutstandingClients(c *gin.Context) {
	clients, err := p.payments.OutstandingClients(c.Request.Context())
	if err != nil {
		respondServiceError(c, p.logger, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClientPix returns the Pix copy-and-paste payload for a client's confirmed total
func (p *PaymentController) GetClientPix(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	charge, err := p.payments.PixFor(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, p.logger, err)
		return
	}
	c.JSON(http.StatusOK, charge)
}

func (p *PaymentController) GetClientPixQR(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxQRSize {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid size")
			return
		}
		size = n
	}

	png, err := p.payments.PixQRCode(c.Request.Context(), userID, size)
	if err != nil {
		respondServiceError(c, p.logger, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
