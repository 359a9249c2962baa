package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"reliquia-backend/models"
	"reliquia-backend/repository"
	"reliquia-backend/utils"
)

type WeeklyEarnings struct {
	Start        string          `json:"start"`
	End          string          `json:"end"`
	Label        string          `json:"label"`
	Appointments int64           `json:"appointments"`
	Revenue      decimal.Decimal `json:"revenue"`
	BarberShare  decimal.Decimal `json:"barberShare"`
	ShopShare    decimal.Decimal `json:"shopShare"`
}

type EarningsService struct {
	appointments AppointmentStore
	barberShare  decimal.Decimal
	loc          *time.Location
	clock        func() time.Time
}

func NewEarningsService(appointments AppointmentStore, barberShare float64, loc *time.Location) *EarningsService {
	if loc == nil {
		loc = time.UTC
	}
	return &EarningsService{
		appointments: appointments,
		barberShare:  decimal.NewFromFloat(barberShare),
		loc:          loc,
		clock:        time.Now,
	}
}

// Weekly splits the confirmed revenue of the Monday to Sunday week that lies
// offset weeks away from the current one.
func (s *EarningsService) Weekly(ctx context.Context, offset int) (*WeeklyEarnings, error) {
	base := s.clock().In(s.loc).AddDate(0, 0, 7*offset)
	start, next := utils.WeekBounds(base)
	end := next.AddDate(0, 0, -1)

	totals, err := s.appointments.Totals(ctx, repository.AppointmentFilter{
		Status: models.AppointmentConfirmed,
		From:   start,
		To:     next,
	})
	if err != nil {
		return nil, err
	}

	barber := totals.Total.Mul(s.barberShare).Round(2)
	return &WeeklyEarnings{
		Start:        start.Format(requestLayout),
		End:          end.Format(requestLayout),
		Label:        fmt.Sprintf("%s – %s", start.Format("02/01"), end.Format("02/01/2006")),
		Appointments: totals.Count,
		Revenue:      totals.Total,
		BarberShare:  barber,
		ShopShare:    totals.Total.Sub(barber),
	}, nil
}
