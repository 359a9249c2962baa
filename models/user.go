package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UserActive = "active"
	UserBanned = "banned"
)

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Email     string     `gorm:"not null;uniqueIndex:idx_user_email,where:deleted_at IS NULL" json:"email"`
	Phone     string     `gorm:"type:varchar(20)" json:"phone"`
	BirthDate *time.Time `gorm:"type:date" json:"birthDate,omitempty"`
	Password  string     `gorm:"not null" json:"-"`

	IsAdmin   bool   `gorm:"not null" json:"isAdmin"`
	Status    string `gorm:"type:varchar(20);not null;index" json:"status"` // active, banned
	BanReason string `gorm:"type:varchar(180)" json:"banReason,omitempty"`

	LastLogin *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Initialize UUID before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Status == "" {
		u.Status = UserActive
	}
	return
}

func (u *User) IsBanned() bool {
	return u.Status == UserBanned
}

// DisplayName falls back to a generic label for profiles without a name.
func (u *User) DisplayName() string {
	if u == nil || u.Name == "" {
		return "Cliente"
	}
	return u.Name
}
