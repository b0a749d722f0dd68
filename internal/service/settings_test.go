package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

func TestTheme_DefaultsToLight(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	svc := NewSettingsService(h.prefs, h.premium, nil)

	st, err := svc.Theme(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, st.Selected)
	assert.Equal(t, domain.ThemeLight, st.Effective)
	assert.False(t, st.CanCustomize)
}

func TestSetTheme_CustomRequiresPremium(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	svc := NewSettingsService(h.prefs, h.premium, nil)

	_, err := svc.SetTheme(h.ctx, "dark")
	assert.ErrorIs(t, err, domainerrors.ErrLimitReached)

	_, err = svc.SetTheme(h.ctx, "light")
	assert.NoError(t, err)

	require.NoError(t, h.premium.SetPremium(h.ctx, true))
	st, err := svc.SetTheme(h.ctx, "dark")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, st.Effective)

	raw, _, err := h.prefs.GetString(h.ctx, store.KeySelectedAppTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", raw)
}

func TestTheme_LapsedPremiumFallsBackToLight(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	svc := NewSettingsService(h.prefs, h.premium, nil)

	require.NoError(t, h.premium.SetPremium(h.ctx, true))
	_, err := svc.SetTheme(h.ctx, "system")
	require.NoError(t, err)
	require.NoError(t, h.premium.SetPremium(h.ctx, false))

	st, err := svc.Theme(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeSystem, st.Selected)
	assert.Equal(t, domain.ThemeLight, st.Effective)
}

func TestSetTheme_Unknown(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	svc := NewSettingsService(h.prefs, h.premium, nil)

	_, err := svc.SetTheme(h.ctx, "sepia")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTheme_IgnoresCorruptStoredValue(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	svc := NewSettingsService(h.prefs, h.premium, nil)
	require.NoError(t, h.prefs.SetString(h.ctx, store.KeySelectedAppTheme, "neon"))

	st, err := svc.Theme(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, st.Selected)
}

func TestTutorial_Steps(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	svc := NewSettingsService(h.prefs, h.premium, nil)

	o, err := svc.Onboarding(h.ctx)
	require.NoError(t, err)
	assert.False(t, o.HasCompletedOnboarding)
	assert.Equal(t, domain.StepAddPlace, o.TutorialStep)
	assert.False(t, o.ShowTutorial())

	o, err = svc.CompleteOnboarding(h.ctx)
	require.NoError(t, err)
	assert.True(t, o.ShowTutorial())

	want := []domain.TutorialStep{domain.StepAddOrder, domain.StepAddTag, domain.StepComplete}
	for _, step := range want {
		o, err = svc.AdvanceTutorial(h.ctx)
		require.NoError(t, err)
		assert.Equal(t, step, o.TutorialStep)
		assert.False(t, o.HasCompletedTutorial)
	}

	o, err = svc.AdvanceTutorial(h.ctx)
	require.NoError(t, err)
	assert.True(t, o.HasCompletedTutorial)
	assert.False(t, o.ShowTutorial())

	// Finished tutorials stay finished.
	o, err = svc.AdvanceTutorial(h.ctx)
	require.NoError(t, err)
	assert.True(t, o.HasCompletedTutorial)
}

func TestOnboarding_SkipAndReset(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	svc := NewSettingsService(h.prefs, h.premium, nil)

	o, err := svc.SkipTutorial(h.ctx)
	require.NoError(t, err)
	assert.True(t, o.HasCompletedTutorial)
	assert.Equal(t, domain.StepComplete, o.TutorialStep)

	o, err = svc.ResetOnboarding(h.ctx)
	require.NoError(t, err)
	assert.False(t, o.HasCompletedOnboarding)
	assert.False(t, o.HasCompletedTutorial)
	assert.Equal(t, domain.StepAddPlace, o.TutorialStep)
}
