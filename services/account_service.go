package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reliquia-backend/models"
	"reliquia-backend/repository"
	"reliquia-backend/utils"
)

const minPasswordLen = 6

type RegisterRequest struct {
	Name      string
	Email     string
	Phone     string
	BirthDate string // dd/mm/yyyy, optional
	Password  string
}

// BannedError carries the reason shown to a banned user trying to sign in.
type BannedError struct {
	Reason string
}

func (e *BannedError) Error() string {
	return ErrUserBanned.Error() + ": " + e.Reason
}

func (e *BannedError) Unwrap() error {
	return ErrUserBanned
}

type AccountService struct {
	users       UserStore
	adminEmails map[string]bool
	loc         *time.Location
	logger      *zap.Logger
	clock       func() time.Time
}

func NewAccountService(users UserStore, adminEmails []string, loc *time.Location, logger *zap.Logger) *AccountService {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			admins[email] = true
		}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AccountService{users: users, adminEmails: admins, loc: loc, logger: logger, clock: time.Now}
}

func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if len(req.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	phone, ok := utils.FormatPhone(req.Phone)
	if !ok {
		return nil, ErrInvalidPhone
	}
	var birthDate *time.Time
	if strings.TrimSpace(req.BirthDate) != "" {
		d, err := utils.ParseBirthDate(strings.TrimSpace(req.BirthDate), s.clock().In(s.loc))
		if err != nil {
			return nil, ErrInvalidBirthDate
		}
		birthDate = &d
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user := &models.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Phone:     phone,
		BirthDate: birthDate,
		Password:  hashed,
		IsAdmin:   s.adminEmails[email],
		Status:    models.UserActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID.String()), zap.Bool("admin", user.IsAdmin))
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if user.IsBanned() {
		return nil, &BannedError{Reason: user.BanReason}
	}

	now := s.clock()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to update last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	} else {
		user.LastLogin = &now
	}
	return user, nil
}

func (s *AccountService) Me(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	return user, storeErr(err)
}

func (s *AccountService) ChangePassword(ctx context.Context, id uuid.UUID, password, confirmation string) error {
	if len(password) < minPasswordLen {
		return ErrWeakPassword
	}
	if password != confirmation {
		return ErrPasswordMismatch
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.users.Save(ctx, user)
}

// IsAdmin reports whether the user is an active admin.
func (s *AccountService) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return false, storeErr(err)
	}
	return user.IsAdmin && !user.IsBanned(), nil
}
