package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reliquia-backend/models"
)

func TestSendDailyReminders(t *testing.T) {
	carlos := &models.User{ID: uuid.New(), Name: "Carlos", Phone: "(85) 99812-3456"}
	rafael := &models.User{ID: uuid.New(), Name: "Rafael", Phone: "(85) 98765-4321"}
	users := newFakeUsers(carlos, rafael)
	appts := newFakeAppointments(users)
	appts.add(models.Appointment{UserID: carlos.ID, Date: mustDate(t, "2026-10-15"), Time: "09:00"})
	appts.add(models.Appointment{UserID: rafael.ID, Date: mustDate(t, "2026-10-15"), Time: "15:00"})
	appts.add(models.Appointment{UserID: rafael.ID, Date: mustDate(t, "2026-10-15"), Time: "16:30", Status: models.AppointmentCancelled})
	appts.add(models.Appointment{UserID: carlos.ID, Date: mustDate(t, "2026-10-16"), Time: "09:00"})
	appts.add(models.Appointment{UserID: carlos.ID, Date: mustDate(t, "2026-10-14"), Time: "15:00"})

	notifier := &fakeNotifier{}
	store := &fakeNotifications{}
	s, err := NewReminderScheduler("0 9 * * *", appts, newTestNotificationService(notifier, store), fortaleza, zap.NewNop())
	require.NoError(t, err)
	s.clock = fixedClock

	assert.Equal(t, 2, s.SendDailyReminders(context.Background()))
	for _, rec := range store.all() {
		assert.Equal(t, models.NotificationBookingReminder, rec.Type)
		assert.Contains(t, rec.Message, "15/10/2026")
	}
	assert.Len(t, notifier.messages(), 2)
}

func TestNewReminderScheduler_InvalidSpec(t *testing.T) {
	_, err := NewReminderScheduler("every day", newFakeAppointments(nil), nil, fortaleza, zap.NewNop())
	assert.Error(t, err)
}

func TestReminderScheduler_StartStop(t *testing.T) {
	s, err := NewReminderScheduler("@every 1h", newFakeAppointments(nil), nil, fortaleza, zap.NewNop())
	require.NoError(t, err)
	s.Start()
	s.Stop()
}
