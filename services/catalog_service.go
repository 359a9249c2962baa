package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"reliquia-backend/catalog"
	"reliquia-backend/models"
	"reliquia-backend/pricing"
	"reliquia-backend/repository"
)

// ComboView is a combo priced against the current service prices.
type ComboView struct {
	pricing.Combo
	RegularPrice    decimal.Decimal `json:"regularPrice"`
	Savings         decimal.Decimal `json:"savings"`
	DiscountPercent int64           `json:"discountPercent"`
	Available       bool            `json:"available"`
}

type ServiceInput struct {
	Slug        string
	Name        string
	Description string
	Price       decimal.Decimal
	Duration    int
	Category    string
}

type ServiceUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Duration    *int
	Category    *string
	IsActive    *bool
}

type CatalogService struct {
	services ServiceStore
	catalog  *catalog.Catalog
	logger   *zap.Logger
}

func NewCatalogService(services ServiceStore, cat *catalog.Catalog, logger *zap.Logger) *CatalogService {
	return &CatalogService{services: services, catalog: cat, logger: logger}
}

// Seed inserts the catalog's default services when none exist yet.
func (s *CatalogService) Seed(ctx context.Context) (int, error) {
	count, err := s.services.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	rows := make([]models.Service, 0, len(s.catalog.Services))
	for _, def := range s.catalog.Services {
		rows = append(rows, models.Service{
			Slug:     def.Slug,
			Name:     def.Name,
			Category: def.Category,
			Price:    def.Price,
			Duration: def.Duration,
			IsActive: true,
		})
	}
	if err := s.services.CreateBatch(ctx, rows); err != nil {
		return 0, err
	}
	s.logger.Info("seeded default services", zap.Int("count", len(rows)))
	return len(rows), nil
}

func (s *CatalogService) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	return s.services.List(ctx, activeOnly)
}

func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	service, err := s.services.FindByID(ctx, id)
	return service, storeErr(err)
}

func (s *CatalogService) CreateService(ctx context.Context, input ServiceInput) (*models.Service, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" || input.Price.IsNegative() {
		return nil, ErrInvalidService
	}
	service := &models.Service{
		Slug:        slug,
		Name:        name,
		Description: input.Description,
		Price:       input.Price.Round(2),
		Duration:    input.Duration,
		Category:    input.Category,
		IsActive:    true,
	}
	if err := s.services.Create(ctx, service); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return service, nil
}

func (s *CatalogService) UpdateService(ctx context.Context, id uuid.UUID, input ServiceUpdate) (*models.Service, error) {
	service, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}

	// Update fields if provided
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidService
		}
		service.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, ErrInvalidService
		}
		service.Price = input.Price.Round(2)
	}
	if input.Duration != nil {
		service.Duration = *input.Duration
	}
	if input.Category != nil {
		service.Category = *input.Category
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := s.services.Save(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *CatalogService) DeleteService(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.services.Delete(ctx, id))
}

// Combos lists every catalog combo with its savings at current prices. A combo
// is unavailable while any of its services is inactive.
func (s *CatalogService) Combos(ctx context.Context) ([]ComboView, error) {
	active, err := s.services.List(ctx, true)
	if err != nil {
		return nil, err
	}
	prices := priceTable(active)

	views := make([]ComboView, 0, len(s.catalog.Combos))
	for _, combo := range s.catalog.Combos {
		available := true
		for _, id := range combo.ServiceIDs {
			if _, ok := prices[id]; !ok {
				available = false
				break
			}
		}
		views = append(views, ComboView{
			Combo:           combo,
			RegularPrice:    pricing.RegularPrice(combo, prices),
			Savings:         pricing.Savings(combo, prices),
			DiscountPercent: pricing.DiscountPercent(combo, prices),
			Available:       available,
		})
	}
	return views, nil
}

func priceTable(services []models.Service) pricing.PriceTable {
	prices := make(pricing.PriceTable, len(services))
	for _, svc := range services {
		prices[svc.Slug] = svc.Price
	}
	return prices
}
