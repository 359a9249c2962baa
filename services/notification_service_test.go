package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"reliquia-backend/models"
)

func testAppointment(t *testing.T, user *models.User) *models.Appointment {
	return &models.Appointment{ID: uuid.New(), UserID: user.ID, Date: mustDate(t, "2026-10-15"), Time: "16:30"}
}

func TestNotify(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Carlos", Phone: "(85) 99812-3456"}
	appt := testAppointment(t, user)

	tests := []struct {
		name     string
		notifier Notifier
		user     *models.User
		status   string
		channel  string
	}{
		{"sent", &fakeNotifier{}, user, models.NotificationSent, ChannelWhatsApp},
		{"failed", &fakeNotifier{err: errors.New("twilio down")}, user, models.NotificationFailed, ChannelWhatsApp},
		{"disabled", NoopNotifier{}, user, models.NotificationSkipped, ChannelNone},
		{"no phone", &fakeNotifier{}, &models.User{ID: uuid.New(), Name: "Sem Telefone"}, models.NotificationSkipped, ChannelNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeNotifications{}
			svc := newTestNotificationService(tt.notifier, store)

			rec := svc.Notify(context.Background(), models.NotificationBookingReminder, tt.user, appt)
			require.NotNil(t, rec)
			assert.Equal(t, tt.status, rec.Status)
			assert.Equal(t, tt.channel, rec.Channel)
			assert.Equal(t, testNow, rec.SentAt)
			require.NotNil(t, rec.AppointmentID)
			assert.Equal(t, appt.ID, *rec.AppointmentID)
			assert.Len(t, store.all(), 1)
		})
	}
}

func TestNotify_UnknownType(t *testing.T) {
	store := &fakeNotifications{}
	svc := newTestNotificationService(&fakeNotifier{}, store)
	user := &models.User{ID: uuid.New()}

	assert.Nil(t, svc.Notify(context.Background(), "birthday", user, testAppointment(t, user)))
	assert.Nil(t, svc.Notify(context.Background(), models.NotificationBookingReminder, nil, nil))
	assert.Empty(t, store.all())
}

type fakeMessageCreator struct {
	params []*twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessageCreator) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestTwilioNotifier(t *testing.T) {
	tests := []struct {
		name     string
		whatsApp string
		phone    string
		channel  string
		to       string
		from     string
	}{
		{"whatsapp", "+14155238886", "(85) 99812-3456", ChannelWhatsApp, "whatsapp:+5585998123456", "whatsapp:+14155238886"},
		{"sms without whatsapp sender", "", "(85) 99812-3456", ChannelSMS, "+5585998123456", "+15005550006"},
		{"sms for unknown format", "+14155238886", "3456", ChannelSMS, "3456", "+15005550006"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeMessageCreator{}
			n := &TwilioNotifier{api: api, phoneNumber: "+15005550006", whatsAppFrom: tt.whatsApp, logger: zap.NewNop()}

			channel, err := n.Send(context.Background(), tt.phone, "Olá")
			require.NoError(t, err)
			assert.Equal(t, tt.channel, channel)
			require.Len(t, api.params, 1)
			assert.Equal(t, tt.to, *api.params[0].To)
			assert.Equal(t, tt.from, *api.params[0].From)
			assert.Equal(t, "Olá", *api.params[0].Body)
		})
	}

	api := &fakeMessageCreator{err: errors.New("rejected")}
	n := &TwilioNotifier{api: api, phoneNumber: "+15005550006", logger: zap.NewNop()}
	_, err := n.Send(context.Background(), "(85) 99812-3456", "Olá")
	assert.Error(t, err)
}
