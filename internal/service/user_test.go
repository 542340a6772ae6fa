package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RickSteadX/Telbooru/internal/store"
)

func newUserService() *UserService {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewUserService(store.NewMemory(), logger)
}

func TestPreferencesDefaultsForNewUser(t *testing.T) {
	svc := newUserService()

	prefs, err := svc.Preferences(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), prefs.UserID)
	assert.Empty(t, prefs.AutoTags)
}

func TestAddAndRemoveAutoTag(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	added, err := svc.AddAutoTag(ctx, 7, "rating:safe")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.AddAutoTag(ctx, 7, "rating:safe")
	require.NoError(t, err)
	assert.False(t, added, "duplicates are rejected")

	prefs, err := svc.Preferences(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"rating:safe"}, prefs.AutoTags)

	removed, err := svc.RemoveAutoTag(ctx, 7, "rating:safe")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveAutoTag(ctx, 7, "rating:safe")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRemoveAutoTagAtPersists(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.AddAutoTag(ctx, 7, "a")
	require.NoError(t, err)
	_, err = svc.AddAutoTag(ctx, 7, "b")
	require.NoError(t, err)

	tag, ok, err := svc.RemoveAutoTagAt(ctx, 7, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", tag)

	prefs, err := svc.Preferences(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, prefs.AutoTags)

	_, ok, err = svc.RemoveAutoTagAt(ctx, 7, 9)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearAutoTags(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.AddAutoTag(ctx, 7, "a")
	require.NoError(t, err)
	_, err = svc.AddAutoTag(ctx, 7, "b")
	require.NoError(t, err)

	n, err := svc.ClearAutoTags(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.ClearAutoTags(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestToggleRuleLifecycle(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	enabled, err := svc.ToggleRule(ctx, 7, "solo")
	require.NoError(t, err)
	assert.True(t, enabled, "unknown rule comes up enabled")

	enabled, err = svc.ToggleRule(ctx, 7, "solo")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, svc.SetRule(ctx, 7, "solo", true))

	rules, err := svc.EnabledRules(ctx, 7)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "solo", rules[0].Name)
	assert.Equal(t, "solo", rules[0].TagFragment)
}

func TestResetUser(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.AddAutoTag(ctx, 7, "cat")
	require.NoError(t, err)
	_, err = svc.ToggleRule(ctx, 7, "solo")
	require.NoError(t, err)

	require.NoError(t, svc.ResetUser(ctx, 7))

	prefs, err := svc.Preferences(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, prefs.AutoTags)
	assert.Empty(t, prefs.ToggleRules)

	// Reset leaves a durable default record behind.
	exists, err := svc.Exists(ctx, 7)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeleteUser(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.AddAutoTag(ctx, 7, "cat")
	require.NoError(t, err)

	deleted, err := svc.DeleteUser(ctx, 7)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteUser(ctx, 7)
	require.NoError(t, err)
	assert.False(t, deleted)

	exists, err := svc.Exists(ctx, 7)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListUsers(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.AddAutoTag(ctx, 1, "a")
	require.NoError(t, err)
	_, err = svc.AddAutoTag(ctx, 2, "b")
	require.NoError(t, err)

	ids, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}
