package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"reliquia-backend/models"
	"reliquia-backend/repository"
	"reliquia-backend/utils"
)

// ReminderScheduler messages customers the day before their appointment.
type ReminderScheduler struct {
	cron          *cron.Cron
	appointments  AppointmentStore
	notifications *NotificationService
	loc           *time.Location
	logger        *zap.Logger
	clock         func() time.Time
}

func NewReminderScheduler(spec string, appointments AppointmentStore, notifications *NotificationService, loc *time.Location, logger *zap.Logger) (*ReminderScheduler, error) {
	s := &ReminderScheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		appointments:  appointments,
		notifications: notifications,
		loc:           loc,
		logger:        logger,
		clock:         time.Now,
	}
	if _, err := s.cron.AddFunc(spec, func() { s.SendDailyReminders(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *ReminderScheduler) Start() {
	s.cron.Start()
	s.logger.Info("reminder scheduler started")
}

// Stop waits for a running job to finish.
func (s *ReminderScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// SendDailyReminders notifies every confirmed appointment booked for tomorrow
// and returns how many reminders were attempted.
func (s *ReminderScheduler) SendDailyReminders(ctx context.Context) int {
	tomorrow := utils.BeginningOfDay(s.clock().In(s.loc)).AddDate(0, 0, 1)
	appts, err := s.appointments.List(ctx, repository.AppointmentFilter{
		Status: models.AppointmentConfirmed,
		From:   tomorrow,
		To:     tomorrow.AddDate(0, 0, 1),
	})
	if err != nil {
		s.logger.Error("failed to fetch appointments for reminders", zap.Error(err))
		return 0
	}

	sent := 0
	for i := range appts {
		appt := &appts[i]
		if appt.User == nil {
			continue
		}
		s.notifications.Notify(ctx, models.NotificationBookingReminder, appt.User, appt)
		sent++
	}
	s.logger.Info("daily reminders processed", zap.Int("count", sent))
	return sent
}
