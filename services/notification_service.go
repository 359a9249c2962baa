package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"reliquia-backend/models"
	"reliquia-backend/utils"
)

var messageTemplates = map[string]string{
	models.NotificationBookingConfirmed: "Olá %s! Seu horário na Barbearia Relíquia está confirmado para %s às %s.",
	models.NotificationBookingCancelled: "Olá %s, seu horário de %s às %s na Barbearia Relíquia foi cancelado.",
	models.NotificationBookingReminder:  "Olá %s! Lembrete: você tem horário na Barbearia Relíquia em %s às %s.",
}

// NotificationService sends booking messages and records every attempt.
type NotificationService struct {
	notifier Notifier
	store    NotificationStore
	logger   *zap.Logger
	clock    func() time.Time
}

func NewNotificationService(notifier Notifier, store NotificationStore, logger *zap.Logger) *NotificationService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &NotificationService{notifier: notifier, store: store, logger: logger, clock: time.Now}
}

// Notify never fails the caller; delivery problems are logged and recorded.
func (s *NotificationService) Notify(ctx context.Context, kind string, user *models.User, appt *models.Appointment) *models.Notification {
	template, ok := messageTemplates[kind]
	if !ok || user == nil || appt == nil {
		s.logger.Warn("notification skipped", zap.String("type", kind))
		return nil
	}
	message := fmt.Sprintf(template, user.DisplayName(), utils.FormatDate(appt.Date), appt.Time)

	status := models.NotificationSent
	errorMsg := ""
	channel := ChannelNone
	if user.Phone == "" {
		status = models.NotificationSkipped
		errorMsg = "no phone on file"
	} else {
		var err error
		channel, err = s.notifier.Send(ctx, user.Phone, message)
		switch {
		case errors.Is(err, ErrNotifierDisabled):
			status = models.NotificationSkipped
		case err != nil:
			status = models.NotificationFailed
			errorMsg = err.Error()
			s.logger.Error("failed to send notification",
				zap.String("type", kind),
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}

	apptID := appt.ID
	record := &models.Notification{
		UserID:        user.ID,
		AppointmentID: &apptID,
		Type:          kind,
		Message:       message,
		Channel:       channel,
		Status:        status,
		ErrorMessage:  errorMsg,
		SentAt:        s.clock(),
	}
	if err := s.store.Create(ctx, record); err != nil {
		s.logger.Error("failed to log notification", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	return record
}
