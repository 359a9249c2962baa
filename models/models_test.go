package models

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestBeforeCreateDefaults(t *testing.T) {
	u := &User{}
	assert.NoError(t, u.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, UserActive, u.Status)

	id := uuid.New()
	a := &Appointment{ID: id, Status: AppointmentPending}
	assert.NoError(t, a.BeforeCreate(nil))
	assert.Equal(t, id, a.ID)
	assert.Equal(t, AppointmentPending, a.Status)

	b := &Appointment{}
	assert.NoError(t, b.BeforeCreate(nil))
	assert.Equal(t, AppointmentConfirmed, b.Status)
}

func TestUserHelpers(t *testing.T) {
	var nilUser *User
	assert.Equal(t, "Cliente", nilUser.DisplayName())
	assert.Equal(t, "Cliente", (&User{}).DisplayName())
	assert.Equal(t, "Harley", (&User{Name: "Harley"}).DisplayName())
	assert.True(t, (&User{Status: UserBanned}).IsBanned())
}

func TestAppointmentHelpers(t *testing.T) {
	a := Appointment{
		Status: AppointmentCancelled,
		Items:  []AppointmentItem{{ServiceSlug: "corte"}, {ServiceSlug: "barba"}},
	}
	assert.Equal(t, []string{"corte", "barba"}, a.ServiceSlugs())
	assert.False(t, a.IsLive())
}

func uniqueIndexes(t *testing.T, model any) map[string]*schema.Index {
	t.Helper()
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	out := map[string]*schema.Index{}
	for _, idx := range s.ParseIndexes() {
		if idx.Class == "UNIQUE" {
			out[idx.Name] = idx
		}
	}
	return out
}

// Soft-deleted rows must not keep a slug, email or slot reserved.
func TestUniqueIndexesSkipDeletedRows(t *testing.T) {
	tests := []struct {
		model any
		index string
		where string
	}{
		{&Service{}, "idx_service_slug", "deleted_at IS NULL"},
		{&User{}, "idx_user_email", "deleted_at IS NULL"},
		{&Appointment{}, "idx_appointment_slot", "status <> 'cancelled' AND deleted_at IS NULL"},
	}
	for _, tt := range tests {
		t.Run(tt.index, func(t *testing.T) {
			indexes := uniqueIndexes(t, tt.model)
			require.Contains(t, indexes, tt.index)
			assert.Equal(t, tt.where, indexes[tt.index].Where)
			assert.Len(t, indexes, 1)
		})
	}
}
