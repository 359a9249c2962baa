package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reliquia-backend/models"
)

const dateLayout = "2006-01-02"

// AppointmentFilter narrows appointment queries. Zero fields match everything;
// To is exclusive.
type AppointmentFilter struct {
	UserID *uuid.UUID
	Status string
	From   time.Time
	To     time.Time
}

func (f AppointmentFilter) apply(query *gorm.DB) *gorm.DB {
	if f.UserID != nil {
		query = query.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		query = query.Where("appointment_date >= ?", f.From.Format(dateLayout))
	}
	if !f.To.IsZero() {
		query = query.Where("appointment_date < ?", f.To.Format(dateLayout))
	}
	return query
}

// Totals aggregates appointment amounts.
type Totals struct {
	Total decimal.Decimal
	Count int64
}

type UserTotal struct {
	UserID uuid.UUID
	Total  decimal.Decimal
	Count  int64
}

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create writes the appointment and its items in one transaction. A second
// live appointment for the same slot fails with ErrDuplicate.
func (r *AppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	items := appt.Items
	if err := tx.Omit(clause.Associations).Create(appt).Error; err != nil {
		tx.Rollback()
		return translate(err)
	}
	for i := range items {
		items[i].AppointmentID = appt.ID
	}
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			tx.Rollback()
			return translate(err)
		}
	}
	appt.Items = items

	return translate(tx.Commit().Error)
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("User").
		First(&appt, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &appt, nil
}

// List returns matching appointments, newest slot first.
func (r *AppointmentRepository) List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	appts := []models.Appointment{}
	query := filter.apply(r.db.WithContext(ctx).Model(&models.Appointment{})).
		Preload("Items").
		Preload("User").
		Order("appointment_date DESC, appointment_time DESC")
	if err := query.Find(&appts).Error; err != nil {
		return nil, translate(err)
	}
	return appts, nil
}

// TakenTimes lists the slot times held by live appointments on date.
func (r *AppointmentRepository) TakenTimes(ctx context.Context, date time.Time) ([]string, error) {
	times := []string{}
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("appointment_date = ? AND status <> ?", date.Format(dateLayout), models.AppointmentCancelled).
		Pluck("appointment_time", &times).Error
	if err != nil {
		return nil, translate(err)
	}
	return times, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Appointment{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) Totals(ctx context.Context, filter AppointmentFilter) (Totals, error) {
	var totals Totals
	err := filter.apply(r.db.WithContext(ctx).Model(&models.Appointment{})).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Scan(&totals).Error
	return totals, translate(err)
}

// TotalsByUser groups matching appointments per customer, keeping only
// customers whose total is positive.
func (r *AppointmentRepository) TotalsByUser(ctx context.Context, filter AppointmentFilter) ([]UserTotal, error) {
	rows := []UserTotal{}
	err := filter.apply(r.db.WithContext(ctx).Model(&models.Appointment{})).
		Select("user_id, COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Group("user_id").
		Having("SUM(total) > 0").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
