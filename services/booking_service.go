package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"reliquia-backend/catalog"
	"reliquia-backend/models"
	"reliquia-backend/pricing"
	"reliquia-backend/repository"
)

type QuoteRequest struct {
	ServiceIDs  []string
	ComboID     string
	AcceptAdHoc bool
}

// Quote is the price of a selection as the customer would be charged.
type Quote struct {
	ServiceIDs   []string                `json:"serviceIds"`
	Pricing      pricing.ResolvedPricing `json:"pricing"`
	ComboSavings decimal.Decimal         `json:"comboSavings"`
	AdHocOffer   *pricing.AdHocOffer     `json:"adHocOffer,omitempty"`
	AdHocApplied bool                    `json:"adHocApplied"`
	Subtotal     decimal.Decimal         `json:"subtotal"`
	Discount     decimal.Decimal         `json:"discount"`
	Total        decimal.Decimal         `json:"total"`

	services map[string]models.Service
}

type BookRequest struct {
	UserID      uuid.UUID
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	ServiceIDs  []string
	ComboID     string
	AcceptAdHoc bool
}

type Availability struct {
	Date  string   `json:"date"`
	Open  bool     `json:"open"`
	Slots []string `json:"slots"`
}

type BookingConfig struct {
	Location *time.Location
	HoldTTL  time.Duration
}

type BookingService struct {
	services      ServiceStore
	appointments  AppointmentStore
	users         UserStore
	catalog       *catalog.Catalog
	locker        SlotLocker
	notifications *NotificationService
	loc           *time.Location
	holdTTL       time.Duration
	logger        *zap.Logger
	clock         func() time.Time
}

func NewBookingService(
	services ServiceStore,
	appointments AppointmentStore,
	users UserStore,
	cat *catalog.Catalog,
	locker SlotLocker,
	notifications *NotificationService,
	cfg BookingConfig,
	logger *zap.Logger,
) *BookingService {
	if locker == nil {
		locker = NewMemorySlotLocker()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.HoldTTL <= 0 {
		cfg.HoldTTL = 30 * time.Second
	}
	return &BookingService{
		services:      services,
		appointments:  appointments,
		users:         users,
		catalog:       cat,
		locker:        locker,
		notifications: notifications,
		loc:           cfg.Location,
		holdTTL:       cfg.HoldTTL,
		logger:        logger,
		clock:         time.Now,
	}
}

func (s *BookingService) now() time.Time {
	return s.clock().In(s.loc)
}

// AvailableSlots lists the free times on date. Closed dates report no slots.
func (s *BookingService) AvailableSlots(ctx context.Context, date string) (Availability, error) {
	day, err := ParseDate(date, s.loc)
	if err != nil {
		return Availability{}, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	out := Availability{Date: day.Format(requestLayout), Slots: []string{}}
	now := s.now()
	if !IsOpenDate(day, now) {
		return out, nil
	}

	taken, err := s.appointments.TakenTimes(ctx, day)
	if err != nil {
		return Availability{}, err
	}
	out.Open = true
	out.Slots = openSlots(day, now, taken)
	return out, nil
}

// Quote prices a selection. An explicit combo id forces that combo and adds
// its services to the selection; otherwise the best matching combo applies.
func (s *BookingService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	selection := pricing.NewSelection(req.ServiceIDs...)

	var forced *pricing.Combo
	if req.ComboID != "" {
		combo, ok := s.catalog.Combo(req.ComboID)
		if !ok {
			return nil, ErrUnknownCombo
		}
		if req.AcceptAdHoc {
			return nil, ErrComboWithDiscount
		}
		forced = &combo
		selection = pricing.AcceptCombo(selection, combo)
	}
	if len(selection) == 0 {
		return nil, ErrInvalidSelection
	}

	ids := selection.IDs()
	found, err := s.services.FindBySlugs(ctx, ids)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]models.Service, len(found))
	for _, svc := range found {
		bySlug[svc.Slug] = svc
	}
	for _, id := range ids {
		if _, ok := bySlug[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownService, id)
		}
	}
	prices := priceTable(found)

	var resolved pricing.ResolvedPricing
	if forced != nil {
		resolved = pricing.PriceWithCombo(selection, *forced, prices)
	} else {
		resolved = pricing.Resolve(selection, s.catalog.Combos, prices)
	}

	q := &Quote{
		ServiceIDs: ids,
		Pricing:    resolved,
		Subtotal:   pricing.Sum(ids, prices),
		Total:      resolved.Total,
		services:   bySlug,
	}
	if resolved.AppliedCombo != nil {
		q.ComboSavings = pricing.Savings(*resolved.AppliedCombo, prices)
		if req.AcceptAdHoc {
			return nil, ErrNoAdHocDiscount
		}
	} else if offer, ok := pricing.AdHocDiscount(selection, s.catalog.Combos, prices); ok {
		q.AdHocOffer = &offer
		if req.AcceptAdHoc {
			q.AdHocApplied = true
			q.Total = offer.Total
		}
	} else if req.AcceptAdHoc {
		return nil, ErrNoAdHocDiscount
	}
	q.Discount = q.Subtotal.Sub(q.Total)
	return q, nil
}

func slotKey(date time.Time, slot string) string {
	return date.Format(requestLayout) + "T" + slot
}

// Book creates a confirmed appointment for the slot.
func (s *BookingService) Book(ctx context.Context, req BookRequest) (*models.Appointment, error) {
	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, storeErr(err)
	}
	if user.IsBanned() {
		return nil, ErrUserBanned
	}

	day, err := ParseDate(req.Date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	if !isGridSlot(req.Time) {
		return nil, ErrInvalidSlot
	}
	now := s.now()
	if !IsOpenDate(day, now) {
		return nil, ErrClosedDate
	}
	start, err := slotStart(day, req.Time)
	if err != nil {
		return nil, ErrInvalidSlot
	}
	if !start.After(now) {
		return nil, ErrClosedDate
	}

	quote, err := s.Quote(ctx, QuoteRequest{
		ServiceIDs:  req.ServiceIDs,
		ComboID:     req.ComboID,
		AcceptAdHoc: req.AcceptAdHoc,
	})
	if err != nil {
		return nil, err
	}

	release, ok, err := s.locker.Acquire(ctx, slotKey(day, req.Time), s.holdTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSlotTaken
	}
	defer release()

	taken, err := s.appointments.TakenTimes(ctx, day)
	if err != nil {
		return nil, err
	}
	for _, t := range taken {
		if t == req.Time {
			return nil, ErrSlotTaken
		}
	}

	appt := &models.Appointment{
		UserID:        user.ID,
		Date:          day,
		Time:          req.Time,
		AdHocDiscount: quote.AdHocApplied,
		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		Total:         quote.Total,
		Status:        models.AppointmentConfirmed,
	}
	comboLabel := "none"
	if combo := quote.Pricing.AppliedCombo; combo != nil {
		id := combo.ID
		appt.ComboID = &id
		appt.Combo = true
		comboLabel = id
	} else if quote.AdHocApplied {
		comboLabel = "adhoc"
	}
	for _, slug := range quote.ServiceIDs {
		svc := quote.services[slug]
		appt.Items = append(appt.Items, models.AppointmentItem{
			ServiceID:   svc.ID,
			ServiceSlug: svc.Slug,
			ServiceName: svc.Name,
			UnitPrice:   svc.Price,
		})
	}

	if err := s.appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	appointmentsBooked.WithLabelValues(comboLabel).Inc()
	s.logger.Info("appointment booked",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
		zap.String("combo", comboLabel),
		zap.String("total", appt.Total.StringFixed(2)))

	appt.User = user
	if s.notifications != nil {
		s.notifications.Notify(ctx, models.NotificationBookingConfirmed, user, appt)
	}
	return appt, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	return s.appointments.List(ctx, repository.AppointmentFilter{UserID: &userID})
}

func (s *BookingService) ListAll(ctx context.Context, status string) ([]models.Appointment, error) {
	switch status {
	case "", models.AppointmentPending, models.AppointmentConfirmed, models.AppointmentCancelled:
	default:
		return nil, ErrInvalidStatus
	}
	return s.appointments.List(ctx, repository.AppointmentFilter{Status: status})
}

// CancelOwn lets a customer cancel one of their live appointments.
func (s *BookingService) CancelOwn(ctx context.Context, userID, apptID uuid.UUID) (*models.Appointment, error) {
	appt, err := s.appointments.FindByID(ctx, apptID)
	if err != nil {
		return nil, storeErr(err)
	}
	if appt.UserID != userID {
		return nil, ErrForbidden
	}
	if !appt.IsLive() {
		return nil, ErrInvalidTransition
	}
	if err := s.appointments.UpdateStatus(ctx, appt.ID, models.AppointmentCancelled); err != nil {
		return nil, storeErr(err)
	}
	appt.Status = models.AppointmentCancelled
	if s.notifications != nil {
		s.notifications.Notify(ctx, models.NotificationBookingCancelled, appt.User, appt)
	}
	return appt, nil
}

// Confirm moves a pending appointment to confirmed.
func (s *BookingService) Confirm(ctx context.Context, apptID uuid.UUID) (*models.Appointment, error) {
	appt, err := s.appointments.FindByID(ctx, apptID)
	if err != nil {
		return nil, storeErr(err)
	}
	if appt.Status != models.AppointmentPending {
		return nil, ErrInvalidTransition
	}
	if err := s.appointments.UpdateStatus(ctx, appt.ID, models.AppointmentConfirmed); err != nil {
		return nil, storeErr(err)
	}
	appt.Status = models.AppointmentConfirmed
	return appt, nil
}

// AdminCancel removes an appointment outright, freeing its slot, and tells the
// customer.
func (s *BookingService) AdminCancel(ctx context.Context, apptID uuid.UUID) error {
	appt, err := s.appointments.FindByID(ctx, apptID)
	if err != nil {
		return storeErr(err)
	}
	if err := s.appointments.Delete(ctx, appt.ID); err != nil {
		return storeErr(err)
	}
	s.logger.Info("appointment removed by admin", zap.String("appointment_id", appt.ID.String()))
	if s.notifications != nil && appt.IsLive() {
		s.notifications.Notify(ctx, models.NotificationBookingCancelled, appt.User, appt)
	}
	return nil
}
