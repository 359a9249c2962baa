package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reliquia-backend/models"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	services := []models.Service{}
	query := r.db.WithContext(ctx).Order("category ASC, name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&services).Error; err != nil {
		return nil, translate(err)
	}
	return services, nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &service, nil
}

// FindBySlugs returns the active services with the given slugs.
func (r *ServiceRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Service, error) {
	services := []models.Service{}
	if len(slugs) == 0 {
		return services, nil
	}
	err := r.db.WithContext(ctx).
		Where("slug IN ? AND is_active = ?", slugs, true).
		Find(&services).Error
	if err != nil {
		return nil, translate(err)
	}
	return services, nil
}

func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) error {
	return translate(r.db.WithContext(ctx).Create(service).Error)
}

// CreateBatch inserts every service in one transaction.
func (r *ServiceRepository) CreateBatch(ctx context.Context, services []models.Service) error {
	if len(services) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&services).Error)
}

func (r *ServiceRepository) Save(ctx context.Context, service *models.Service) error {
	return translate(r.db.WithContext(ctx).Save(service).Error)
}

func (r *ServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Service{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ServiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Service{}).Count(&count).Error
	return count, translate(err)
}
