package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPreferences map[string]model.NotificationPreference

func (m memoryPreferences) Get(_ context.Context, _ database.Scope, userID string) (*model.NotificationPreference, error) {
	pref, ok := m[userID]
	if !ok {
		pref = model.NotificationPreference{UserID: userID}
	}
	return &pref, nil
}

func (m memoryPreferences) Upsert(_ context.Context, _ database.Scope, userID string, enabled bool) (*model.NotificationPreference, error) {
	pref := model.NotificationPreference{
		UserID:    userID,
		Enabled:   enabled,
		UpdatedAt: time.Date(2025, 4, 2, 20, 0, 0, 0, time.UTC),
	}
	m[userID] = pref
	return &pref, nil
}

func (m memoryPreferences) EnabledUserIDs(_ context.Context, _ database.Scope) ([]string, error) {
	var out []string
	for id, pref := range m {
		if pref.Enabled {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func TestNotificationService_DefaultsToDisabled(t *testing.T) {
	svc := NewNotificationService(memoryPreferences{})

	pref, err := svc.Preference(context.Background(), database.Scope{}, "user_admin")
	require.NoError(t, err)
	assert.Equal(t, "user_admin", pref.UserID)
	assert.False(t, pref.Enabled)
}

func TestNotificationService_RecipientsFollowPreferences(t *testing.T) {
	svc := NewNotificationService(memoryPreferences{})
	ctx := context.Background()
	scope := database.Scope{}

	_, err := svc.SetPreference(ctx, scope, "user_b", true)
	require.NoError(t, err)
	_, err = svc.SetPreference(ctx, scope, "user_a", true)
	require.NoError(t, err)
	pref, err := svc.SetPreference(ctx, scope, "user_c", false)
	require.NoError(t, err)
	assert.False(t, pref.Enabled)

	got, err := svc.Recipients(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_a", "user_b"}, got)

	_, err = svc.SetPreference(ctx, scope, "user_b", false)
	require.NoError(t, err)

	got, err = svc.Recipients(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_a"}, got)

	pref, err = svc.Preference(ctx, scope, "user_a")
	require.NoError(t, err)
	assert.True(t, pref.Enabled)
}
