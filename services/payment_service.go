package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"reliquia-backend/models"
	"reliquia-backend/pix"
	"reliquia-backend/repository"
)

type PixConfig struct {
	Key          string
	MerchantName string
	MerchantCity string
}

type Balance struct {
	Appointments []models.Appointment `json:"appointments"`
	Total        decimal.Decimal      `json:"total"`
}

type ClientBalance struct {
	UserID       uuid.UUID       `json:"userId"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Appointments int64           `json:"appointments"`
	Total        decimal.Decimal `json:"total"`
}

type PixCharge struct {
	UserID  uuid.UUID       `json:"userId"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Payload string          `json:"payload"`
}

type PaymentService struct {
	appointments AppointmentStore
	users        UserStore
	pix          PixConfig
}

func NewPaymentService(appointments AppointmentStore, users UserStore, cfg PixConfig) *PaymentService {
	return &PaymentService{appointments: appointments, users: users, pix: cfg}
}

// Balance lists a customer's live appointments and what they add up to.
func (s *PaymentService) Balance(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	appts, err := s.appointments.List(ctx, repository.AppointmentFilter{UserID: &userID})
	if err != nil {
		return nil, err
	}
	b := &Balance{Appointments: []models.Appointment{}, Total: decimal.Zero}
	for _, appt := range appts {
		if !appt.IsLive() {
			continue
		}
		b.Appointments = append(b.Appointments, appt)
		b.Total = b.Total.Add(appt.Total)
	}
	return b, nil
}

// OutstandingClients sums confirmed appointments per customer, largest first.
func (s *PaymentService) OutstandingClients(ctx context.Context) ([]ClientBalance, error) {
	totals, err := s.appointments.TotalsByUser(ctx, repository.AppointmentFilter{Status: models.AppointmentConfirmed})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(totals))
	for _, t := range totals {
		ids = append(ids, t.UserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	clients := make([]ClientBalance, 0, len(totals))
	for _, t := range totals {
		user := byID[t.UserID]
		client := ClientBalance{
			UserID:       t.UserID,
			Name:         user.DisplayName(),
			Appointments: t.Count,
			Total:        t.Total,
		}
		if user != nil {
			client.Phone = user.Phone
		}
		clients = append(clients, client)
	}
	return clients, nil
}

// PixFor builds the PIX copy-and-paste code for a customer's confirmed total.
func (s *PaymentService) PixFor(ctx context.Context, userID uuid.UUID) (*PixCharge, error) {
	totals, err := s.appointments.Totals(ctx, repository.AppointmentFilter{
		UserID: &userID,
		Status: models.AppointmentConfirmed,
	})
	if err != nil {
		return nil, err
	}
	if !totals.Total.IsPositive() {
		return nil, ErrNothingOwed
	}

	name := "Cliente"
	if user, err := s.users.FindByID(ctx, userID); err == nil {
		name = user.DisplayName()
	}

	payload, err := pix.Encode(s.pix.Key, s.pix.MerchantName, s.pix.MerchantCity, totals.Total)
	if err != nil {
		return nil, err
	}
	return &PixCharge{UserID: userID, Name: name, Amount: totals.Total, Payload: payload}, nil
}

// PixQRCode renders the customer's PIX code as a PNG.
func (s *PaymentService) PixQRCode(ctx context.Context, userID uuid.UUID, size int) ([]byte, error) {
	charge, err := s.PixFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return pix.QRCode(charge.Payload, size)
}
