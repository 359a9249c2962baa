package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"reliquia-backend/models"
	"reliquia-backend/repository"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	Search(ctx context.Context, q string, limit int) ([]models.User, error)
	Save(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type ServiceStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.Service, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Service, error)
	Create(ctx context.Context, service *models.Service) error
	CreateBatch(ctx context.Context, services []models.Service) error
	Save(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type AppointmentStore interface {
	Create(ctx context.Context, appt *models.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	List(ctx context.Context, filter repository.AppointmentFilter) ([]models.Appointment, error)
	TakenTimes(ctx context.Context, date time.Time) ([]string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Totals(ctx context.Context, filter repository.AppointmentFilter) (repository.Totals, error)
	TotalsByUser(ctx context.Context, filter repository.AppointmentFilter) ([]repository.UserTotal, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

// storeErr converts a store miss into ErrNotFound and passes anything else through.
func storeErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
