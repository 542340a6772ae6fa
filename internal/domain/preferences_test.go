package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserPreferences(t *testing.T) {
	prefs := NewUserPreferences(42)

	assert.Equal(t, int64(42), prefs.UserID)
	assert.NotNil(t, prefs.AutoTags)
	assert.Empty(t, prefs.AutoTags)
	assert.NotNil(t, prefs.ToggleRules)
	assert.Empty(t, prefs.ToggleRules)
}

func TestAddAutoTag(t *testing.T) {
	prefs := NewUserPreferences(1)

	assert.True(t, prefs.AddAutoTag("rating:safe"))
	assert.True(t, prefs.AddAutoTag("cat"))
	assert.False(t, prefs.AddAutoTag("rating:safe"), "duplicate should be rejected")

	assert.Equal(t, []string{"rating:safe", "cat"}, prefs.AutoTags)
}

func TestAddAutoTagCaseSensitive(t *testing.T) {
	prefs := NewUserPreferences(1)

	assert.True(t, prefs.AddAutoTag("Cat"))
	assert.True(t, prefs.AddAutoTag("cat"), "matching is exact and case-sensitive")
}

func TestRemoveAutoTag(t *testing.T) {
	prefs := NewUserPreferences(1)
	prefs.AddAutoTag("a")
	prefs.AddAutoTag("b")
	prefs.AddAutoTag("c")

	assert.True(t, prefs.RemoveAutoTag("b"))
	assert.Equal(t, []string{"a", "c"}, prefs.AutoTags)

	assert.False(t, prefs.RemoveAutoTag("b"))
	assert.False(t, prefs.RemoveAutoTag("missing"))
}

func TestRemoveAutoTagAt(t *testing.T) {
	prefs := NewUserPreferences(1)
	prefs.AddAutoTag("a")
	prefs.AddAutoTag("b")

	tag, ok := prefs.RemoveAutoTagAt(1)
	require.True(t, ok)
	assert.Equal(t, "b", tag)
	assert.Equal(t, []string{"a"}, prefs.AutoTags)

	_, ok = prefs.RemoveAutoTagAt(5)
	assert.False(t, ok)
	_, ok = prefs.RemoveAutoTagAt(-1)
	assert.False(t, ok)
}

func TestClearAutoTags(t *testing.T) {
	prefs := NewUserPreferences(1)
	prefs.AddAutoTag("a")
	prefs.AddAutoTag("b")

	assert.Equal(t, 2, prefs.ClearAutoTags())
	assert.Empty(t, prefs.AutoTags)
	assert.Equal(t, 0, prefs.ClearAutoTags())
}

func TestToggleCreatesUnknownRuleEnabled(t *testing.T) {
	prefs := NewUserPreferences(1)

	assert.True(t, prefs.Toggle("solo"))

	rule := prefs.Rule("solo")
	require.NotNil(t, rule)
	assert.Equal(t, "solo", rule.TagFragment)
	assert.True(t, rule.Enabled)
}

func TestToggleFlipsExistingRule(t *testing.T) {
	prefs := NewUserPreferences(1)
	prefs.SetRule("solo", true)

	assert.False(t, prefs.Toggle("solo"))
	assert.True(t, prefs.Toggle("solo"))
	assert.Len(t, prefs.ToggleRules, 1, "toggling must not duplicate the rule")
}

func TestEnabledRulesPreserveOrder(t *testing.T) {
	prefs := NewUserPreferences(1)
	prefs.SetRule("first", true)
	prefs.SetRule("second", false)
	prefs.SetRule("third", true)

	enabled := prefs.EnabledRules()
	require.Len(t, enabled, 2)
	assert.Equal(t, "first", enabled[0].Name)
	assert.Equal(t, "third", enabled[1].Name)
}

func TestClearRules(t *testing.T) {
	prefs := NewUserPreferences(1)
	prefs.SetRule("a", true)
	prefs.SetRule("b", false)

	assert.Equal(t, 2, prefs.ClearRules())
	assert.Empty(t, prefs.ToggleRules)
}

func TestCloneIsDeep(t *testing.T) {
	prefs := NewUserPreferences(7)
	prefs.AddAutoTag("cat")
	prefs.SetRule("solo", true)

	clone := prefs.Clone()
	clone.AddAutoTag("dog")
	clone.Toggle("solo")

	assert.Equal(t, []string{"cat"}, prefs.AutoTags)
	assert.True(t, prefs.Rule("solo").Enabled)
}
