// controllers/service.go
package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"reliquia-backend/models"
	"reliquia-backend/services"
	"reliquia-backend/utils"
)

type CatalogAPI interface {
	ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	CreateService(ctx context.Context, input services.ServiceInput) (*models.Service, error)
	UpdateService(ctx context.Context, id uuid.UUID, input services.ServiceUpdate) (*models.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
	Combos(ctx context.Context) ([]services.ComboView, error)
}

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	Slug        string           `json:"slug" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Duration    int              `json:"duration" binding:"min=0"` // in minutes
	Category    string           `json:"category"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Duration    *int             `json:"duration"`
	Category    *string          `json:"category"`
	IsActive    *bool            `json:"isActive"`
}

type CatalogController struct {
	catalog CatalogAPI
	logger  *zap.Logger
}

func NewCatalogController(catalog CatalogAPI, logger *zap.Logger) *CatalogController {
	return &CatalogController{catalog: catalog, logger: logger}
}

// GetServices lists the services customers can book
func (s *CatalogController) GetServices(c *gin.Context) {
	list, err := s.catalog.ListServices(c.Request.Context(), true)
	if err != nil {
		respondServiceError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetCombos lists the combos with their savings
func (s *CatalogController) GetCombos(c *gin.Context) {
	combos, err := s.catalog.Combos(c.Request.Context())
	if err != nil {
		respondServiceError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, combos)
}

// ListAllServices includes inactive services
func (s *CatalogController) ListAllServices(c *gin.Context) {
	list, err := s.catalog.ListServices(c.Request.Context(), false)
	if err != nil {
		respondServiceError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateService creates a new service
func (s *CatalogController) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service, err := s.catalog.CreateService(c.Request.Context(), services.ServiceInput{
		Slug:        input.Slug,
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
		Duration:    input.Duration,
		Category:    input.Category,
	})
	if err != nil {
		respondServiceError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

// GetService retrieves a specific service by ID
func (s *CatalogController) GetService(c *gin.Context) {
	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	service, err := s.catalog.GetService(c.Request.Context(), serviceID)
	if err != nil {
		respondServiceError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

// UpdateService updates an existing service
func (s *CatalogController) UpdateService(c *gin.Context) {
	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service, err := s.catalog.UpdateService(c.Request.Context(), serviceID, services.ServiceUpdate{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Duration:    input.Duration,
		Category:    input.Category,
		IsActive:    input.IsActive,
	})
	if err != nil {
		respondServiceError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

// DeleteService soft deletes a service
func (s *CatalogController) DeleteService(c *gin.Context) {
	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := s.catalog.DeleteService(c.Request.Context(), serviceID); err != nil {
		respondServiceError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
