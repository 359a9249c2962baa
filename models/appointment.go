package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
)

// Appointment is one booked slot. A date and time can be held by at most one
// live appointment.
type Appointment struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Date time.Time `gorm:"column:appointment_date;type:date;not null;index;uniqueIndex:idx_appointment_slot,where:status <> 'cancelled' AND deleted_at IS NULL" json:"date"`
	Time string    `gorm:"column:appointment_time;type:varchar(5);not null;uniqueIndex:idx_appointment_slot" json:"time"`

	ComboID       *string         `gorm:"type:varchar(40)" json:"comboId,omitempty"`
	Combo         bool            `gorm:"not null" json:"combo"`
	AdHocDiscount bool            `gorm:"not null" json:"adHocDiscount"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status        string          `gorm:"type:varchar(20);not null;index" json:"status"` // pending, confirmed, cancelled

	Items []AppointmentItem `gorm:"foreignKey:AppointmentID" json:"items"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type AppointmentItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AppointmentID uuid.UUID       `gorm:"type:uuid;index;not null" json:"appointmentId"`
	ServiceID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"serviceId"`
	ServiceSlug   string          `gorm:"type:varchar(40);not null" json:"serviceSlug"`
	ServiceName   string          `gorm:"not null" json:"serviceName"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AppointmentConfirmed
	}
	return
}

func (i *AppointmentItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// ServiceSlugs lists the slugs of the booked services.
func (a *Appointment) ServiceSlugs() []string {
	slugs := make([]string, 0, len(a.Items))
	for _, item := range a.Items {
		slugs = append(slugs, item.ServiceSlug)
	}
	return slugs
}

// IsLive reports whether the appointment still holds its slot.
func (a *Appointment) IsLive() bool {
	return a.Status != AppointmentCancelled
}
