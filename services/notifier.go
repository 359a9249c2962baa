// services/notifier.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"reliquia-backend/utils"
)

const (
	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"
	ChannelNone     = "none"
)

var ErrNotifierDisabled = errors.New("notifications are not configured")

// Notifier delivers a text message to a customer's phone and reports the
// channel it used.
type Notifier interface {
	Send(ctx context.Context, phone, body string) (channel string, err error)
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioNotifier struct {
	api          messageCreator
	phoneNumber  string
	whatsAppFrom string
	logger       *zap.Logger
}

func NewTwilioNotifier(accountSID, authToken, phoneNumber, whatsAppNumber string, logger *zap.Logger) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioNotifier{
		api:          client.Api,
		phoneNumber:  phoneNumber,
		whatsAppFrom: whatsAppNumber,
		logger:       logger,
	}
}

// Send uses WhatsApp when the phone converts to E.164 and a WhatsApp sender is
// configured, SMS otherwise.
func (n *TwilioNotifier) Send(_ context.Context, phone, body string) (string, error) {
	to := utils.PhoneToE164(phone)
	if to == "" {
		to = strings.TrimSpace(phone)
	}

	channel := ChannelSMS
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	if strings.HasPrefix(to, "+") && n.whatsAppFrom != "" {
		channel = ChannelWhatsApp
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + n.whatsAppFrom)
	} else {
		params.SetTo(to)
		params.SetFrom(n.phoneNumber)
	}

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		return channel, err
	}
	if resp != nil && resp.Sid != nil {
		n.logger.Debug("message sent", zap.String("sid", *resp.Sid), zap.String("channel", channel))
	}
	return channel, nil
}

// NoopNotifier is used when Twilio is not configured.
type NoopNotifier struct{}

func (NoopNotifier) Send(context.Context, string, string) (string, error) {
	return ChannelNone, ErrNotifierDisabled
}
