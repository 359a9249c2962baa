package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"reliquia-backend/catalog"
	"reliquia-backend/models"
	"reliquia-backend/repository"
	"reliquia-backend/utils"
)

func init() {
	utils.PasswordCost = bcrypt.MinCost
}

var fortaleza, _ = time.LoadLocation("America/Fortaleza")

// wednesday 2026-10-14 10:00 in the shop's timezone
var testNow = time.Date(2026, 10, 14, 10, 0, 0, 0, fortaleza)

func fixedClock() time.Time { return testNow }

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
	err   error
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		if u.Status == "" {
			u.Status = models.UserActive
		}
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) Search(_ context.Context, q string, _ int) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.User{}
	q = strings.ToLower(q)
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(u.ID.String(), q) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeUsers) Save(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) CountByStatus(context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, u := range f.users {
		counts[u.Status]++
	}
	return counts, nil
}

type fakeServices struct {
	mu       sync.Mutex
	services []models.Service
}

func newFakeServices(t interface{ Fatal(...any) }) *fakeServices {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	f := &fakeServices{}
	for _, def := range cat.Services {
		f.services = append(f.services, models.Service{
			ID: uuid.New(), Slug: def.Slug, Name: def.Name, Category: def.Category,
			Price: def.Price, Duration: def.Duration, IsActive: true,
		})
	}
	return f
}

func (f *fakeServices) List(_ context.Context, activeOnly bool) ([]models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Service{}
	for _, s := range f.services {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeServices) FindByID(_ context.Context, id uuid.UUID) (*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.services {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeServices) FindBySlugs(_ context.Context, slugs []string) ([]models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[string]bool{}
	for _, s := range slugs {
		want[s] = true
	}
	out := []models.Service{}
	for _, s := range f.services {
		if want[s.Slug] && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeServices) Create(_ context.Context, service *models.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.services {
		if s.Slug == service.Slug {
			return repository.ErrDuplicate
		}
	}
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	f.services = append(f.services, *service)
	return nil
}

func (f *fakeServices) CreateBatch(ctx context.Context, services []models.Service) error {
	for i := range services {
		if err := f.Create(ctx, &services[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeServices) Save(_ context.Context, service *models.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.services {
		if s.ID == service.ID {
			f.services[i] = *service
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeServices) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.services {
		if s.ID == id {
			f.services = append(f.services[:i], f.services[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeServices) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.services)), nil
}

func (f *fakeServices) setActive(slug string, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.services {
		if f.services[i].Slug == slug {
			f.services[i].IsActive = active
		}
	}
}

type fakeAppointments struct {
	mu        sync.Mutex
	appts     map[uuid.UUID]*models.Appointment
	users     *fakeUsers
	createErr error
}

func newFakeAppointments(users *fakeUsers) *fakeAppointments {
	return &fakeAppointments{appts: map[uuid.UUID]*models.Appointment{}, users: users}
}

func (f *fakeAppointments) add(appt models.Appointment) *models.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	if appt.Status == "" {
		appt.Status = models.AppointmentConfirmed
	}
	f.appts[appt.ID] = &appt
	return &appt
}

func (f *fakeAppointments) withUser(a models.Appointment) models.Appointment {
	if f.users != nil {
		if u, err := f.users.FindByID(context.Background(), a.UserID); err == nil {
			a.User = u
		}
	}
	return a
}

func (f *fakeAppointments) Create(_ context.Context, appt *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, a := range f.appts {
		if a.IsLive() && sameDay(a.Date, appt.Date) && a.Time == appt.Time {
			return repository.ErrDuplicate
		}
	}
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	for i := range appt.Items {
		appt.Items[i].AppointmentID = appt.ID
	}
	cp := *appt
	cp.User = nil
	f.appts[appt.ID] = &cp
	return nil
}

func (f *fakeAppointments) FindByID(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	f.mu.Lock()
	a, ok := f.appts[id]
	f.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := f.withUser(*a)
	return &cp, nil
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

func sameDay(a, b time.Time) bool { return dayKey(a) == dayKey(b) }

func (f *fakeAppointments) match(a *models.Appointment, filter repository.AppointmentFilter) bool {
	if filter.UserID != nil && a.UserID != *filter.UserID {
		return false
	}
	if filter.Status != "" && a.Status != filter.Status {
		return false
	}
	if !filter.From.IsZero() && dayKey(a.Date) < dayKey(filter.From) {
		return false
	}
	if !filter.To.IsZero() && dayKey(a.Date) >= dayKey(filter.To) {
		return false
	}
	return true
}

func (f *fakeAppointments) List(_ context.Context, filter repository.AppointmentFilter) ([]models.Appointment, error) {
	f.mu.Lock()
	var out []models.Appointment
	for _, a := range f.appts {
		if f.match(a, filter) {
			out = append(out, *a)
		}
	}
	f.mu.Unlock()
	for i := range out {
		out[i] = f.withUser(out[i])
	}
	sort.Slice(out, func(i, j int) bool {
		if !sameDay(out[i].Date, out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Time > out[j].Time
	})
	if out == nil {
		out = []models.Appointment{}
	}
	return out, nil
}

func (f *fakeAppointments) TakenTimes(_ context.Context, date time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	times := []string{}
	for _, a := range f.appts {
		if a.IsLive() && sameDay(a.Date, date) {
			times = append(times, a.Time)
		}
	}
	sort.Strings(times)
	return times, nil
}

func (f *fakeAppointments) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeAppointments) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.appts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.appts, id)
	return nil
}

func (f *fakeAppointments) Totals(_ context.Context, filter repository.AppointmentFilter) (repository.Totals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	totals := repository.Totals{Total: decimal.Zero}
	for _, a := range f.appts {
		if f.match(a, filter) {
			totals.Total = totals.Total.Add(a.Total)
			totals.Count++
		}
	}
	return totals, nil
}

func (f *fakeAppointments) TotalsByUser(_ context.Context, filter repository.AppointmentFilter) ([]repository.UserTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byUser := map[uuid.UUID]*repository.UserTotal{}
	for _, a := range f.appts {
		if !f.match(a, filter) {
			continue
		}
		t, ok := byUser[a.UserID]
		if !ok {
			t = &repository.UserTotal{UserID: a.UserID, Total: decimal.Zero}
			byUser[a.UserID] = t
		}
		t.Total = t.Total.Add(a.Total)
		t.Count++
	}
	out := []repository.UserTotal{}
	for _, t := range byUser {
		if t.Total.IsPositive() {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out, nil
}

type recordedMessage struct {
	phone string
	body  string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []recordedMessage
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, phone, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, recordedMessage{phone: phone, body: body})
	return ChannelWhatsApp, f.err
}

func (f *fakeNotifier) messages() []recordedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedMessage(nil), f.sent...)
}

type fakeNotifications struct {
	mu      sync.Mutex
	records []models.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *n)
	return nil
}

func (f *fakeNotifications) all() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Notification(nil), f.records...)
}

func newTestNotificationService(n Notifier, store *fakeNotifications) *NotificationService {
	s := NewNotificationService(n, store, zap.NewNop())
	s.clock = fixedClock
	return s
}
