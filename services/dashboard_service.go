package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"reliquia-backend/models"
	"reliquia-backend/repository"
	"reliquia-backend/utils"
)

type DashboardOverview struct {
	ActiveUsers       int64                `json:"activeUsers"`
	BannedUsers       int64                `json:"bannedUsers"`
	TodayAppointments []models.Appointment `json:"todayAppointments"`
	TodayRevenue      decimal.Decimal      `json:"todayRevenue"`
	PendingCount      int64                `json:"pendingCount"`
}

type DashboardService struct {
	users        UserStore
	appointments AppointmentStore
	loc          *time.Location
	clock        func() time.Time
}

func NewDashboardService(users UserStore, appointments AppointmentStore, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{users: users, appointments: appointments, loc: loc, clock: time.Now}
}

func (s *DashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	counts, err := s.users.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	today := utils.BeginningOfDay(s.clock().In(s.loc))
	tomorrow := today.AddDate(0, 0, 1)

	appts, err := s.appointments.List(ctx, repository.AppointmentFilter{From: today, To: tomorrow})
	if err != nil {
		return nil, err
	}
	revenue, err := s.appointments.Totals(ctx, repository.AppointmentFilter{
		Status: models.AppointmentConfirmed,
		From:   today,
		To:     tomorrow,
	})
	if err != nil {
		return nil, err
	}
	pending, err := s.appointments.Totals(ctx, repository.AppointmentFilter{Status: models.AppointmentPending})
	if err != nil {
		return nil, err
	}

	return &DashboardOverview{
		ActiveUsers:       counts[models.UserActive],
		BannedUsers:       counts[models.UserBanned],
		TodayAppointments: appts,
		TodayRevenue:      revenue.Total,
		PendingCount:      pending.Count,
	}, nil
}
