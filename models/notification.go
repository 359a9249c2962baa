// models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationBookingConfirmed = "booking_confirmed"
	NotificationBookingCancelled = "booking_cancelled"
	NotificationBookingReminder  = "booking_reminder"
)

const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationSkipped = "skipped"
)

type Notification struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"userId"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointmentId,omitempty"`
	Type          string     `gorm:"type:varchar(30)" json:"type"`
	Message       string     `gorm:"type:text" json:"message"`
	Channel       string     `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms, none
	Status        string     `gorm:"type:varchar(20)" json:"status"`  // sent, failed, skipped
	ErrorMessage  string     `gorm:"type:text" json:"errorMessage,omitempty"`
	SentAt        time.Time  `json:"sentAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
