package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reliquia-backend/models"
)

func newModerationFixture() (*ModerationService, *fakeUsers, *models.User, *models.User) {
	client := &models.User{ID: uuid.New(), Name: "Rafael Lima"}
	admin := &models.User{ID: uuid.New(), Name: "Harley", IsAdmin: true}
	users := newFakeUsers(client, admin)
	return NewModerationService(users, zap.NewNop()), users, client, admin
}

func TestBan_Preset(t *testing.T) {
	svc, _, client, _ := newModerationFixture()

	user, err := svc.Ban(context.Background(), client.ID, "no_show", "")
	require.NoError(t, err)
	assert.Equal(t, models.UserBanned, user.Status)
	assert.Equal(t, "Você foi banido por não comparecer aos agendamentos sem aviso.", user.BanReason)
}

func TestBan_TogglesBack(t *testing.T) {
	svc, users, client, _ := newModerationFixture()
	ctx := context.Background()

	_, err := svc.Ban(ctx, client.ID, "behavior", "")
	require.NoError(t, err)

	user, err := svc.Ban(ctx, client.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, models.UserActive, user.Status)
	assert.Empty(t, user.BanReason)

	stored, _ := users.FindByID(ctx, client.ID)
	assert.Equal(t, models.UserActive, stored.Status)
}

func TestBan_CustomReason(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		ok     bool
	}{
		{"too short", "abc", false},
		{"blank", "    ", false},
		{"minimum", "abcd", true},
		{"accented", "Você sumiu", true},
		{"at limit", strings.Repeat("a", 180), true},
		{"over limit", strings.Repeat("a", 181), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, client, _ := newModerationFixture()
			user, err := svc.Ban(context.Background(), client.ID, CustomBanPreset, tt.reason)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidBanReason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.reason), user.BanReason)
		})
	}
}

func TestBan_Rejections(t *testing.T) {
	svc, _, client, admin := newModerationFixture()
	ctx := context.Background()

	_, err := svc.Ban(ctx, client.ID, "nope", "")
	assert.ErrorIs(t, err, ErrInvalidBanReason)

	_, err = svc.Ban(ctx, admin.ID, "behavior", "")
	assert.ErrorIs(t, err, ErrProtectedUser)

	_, err = svc.Ban(ctx, uuid.New(), "behavior", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnbanAndDelete(t *testing.T) {
	svc, users, client, admin := newModerationFixture()
	ctx := context.Background()

	_, err := svc.Ban(ctx, client.ID, "cancellations", "")
	require.NoError(t, err)
	user, err := svc.Unban(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserActive, user.Status)

	user, err = svc.Unban(ctx, client.ID)
	require.NoError(t, err, "unban of an active user is a no-op")
	assert.Equal(t, models.UserActive, user.Status)

	assert.ErrorIs(t, svc.Delete(ctx, admin.ID), ErrProtectedUser)
	require.NoError(t, svc.Delete(ctx, client.ID))
	_, err = users.FindByID(ctx, client.ID)
	assert.Error(t, err)
}

func TestSearchAndPresets(t *testing.T) {
	svc, _, client, _ := newModerationFixture()

	found, err := svc.Search(context.Background(), "rafa")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, client.ID, found[0].ID)

	byID, err := svc.Search(context.Background(), client.ID.String()[:8])
	require.NoError(t, err)
	assert.Len(t, byID, 1)

	presets := svc.BanPresets()
	assert.Len(t, presets, 5)
	assert.Equal(t, CustomBanPreset, presets[len(presets)-1].ID)
}
