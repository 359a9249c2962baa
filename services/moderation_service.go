package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reliquia-backend/models"
)

const (
	CustomBanPreset    = "custom"
	minCustomReasonLen = 4
	maxBanReasonLen    = 180
	searchLimit        = 100
)

type BanPreset struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

var banPresets = []BanPreset{
	{ID: "commitment", Reason: "Você foi banido por falta de comprometimento com o barbeiro!"},
	{ID: "no_show", Reason: "Você foi banido por não comparecer aos agendamentos sem aviso."},
	{ID: "behavior", Reason: "Você foi banido por comportamento inadequado na barbearia."},
	{ID: "cancellations", Reason: "Você foi banido por cancelamentos excessivos."},
	{ID: CustomBanPreset, Reason: "Outro motivo (personalizado)"},
}

type ModerationService struct {
	users  UserStore
	logger *zap.Logger
}

func NewModerationService(users UserStore, logger *zap.Logger) *ModerationService {
	return &ModerationService{users: users, logger: logger}
}

func (s *ModerationService) BanPresets() []BanPreset {
	out := make([]BanPreset, len(banPresets))
	copy(out, banPresets)
	return out
}

func (s *ModerationService) Search(ctx context.Context, q string) ([]models.User, error) {
	return s.users.Search(ctx, q, searchLimit)
}

// banReason resolves a preset id, or the custom text for the custom preset.
func banReason(preset, custom string) (string, error) {
	if preset == CustomBanPreset {
		custom = strings.TrimSpace(custom)
		n := utf8.RuneCountInString(custom)
		if n < minCustomReasonLen || n > maxBanReasonLen {
			return "", ErrInvalidBanReason
		}
		return custom, nil
	}
	for _, p := range banPresets {
		if p.ID == preset {
			return p.Reason, nil
		}
	}
	return "", ErrInvalidBanReason
}

func (s *ModerationService) moderatable(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if user.IsAdmin {
		return nil, ErrProtectedUser
	}
	return user, nil
}

// Ban bans the user with the given reason. Banning an already banned user
// lifts the ban.
func (s *ModerationService) Ban(ctx context.Context, id uuid.UUID, preset, custom string) (*models.User, error) {
	user, err := s.moderatable(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsBanned() {
		return s.lift(ctx, user)
	}

	reason, err := banReason(preset, custom)
	if err != nil {
		return nil, err
	}
	user.Status = models.UserBanned
	user.BanReason = reason
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user banned", zap.String("user_id", user.ID.String()), zap.String("preset", preset))
	return user, nil
}

func (s *ModerationService) Unban(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.moderatable(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsBanned() {
		return user, nil
	}
	return s.lift(ctx, user)
}

func (s *ModerationService) lift(ctx context.Context, user *models.User) (*models.User, error) {
	user.Status = models.UserActive
	user.BanReason = ""
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user unbanned", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *ModerationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.moderatable(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.logger.Info("user deleted", zap.String("user_id", id.String()))
	return nil
}
