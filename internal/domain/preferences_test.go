package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppTheme(t *testing.T) {
	for _, name := range []string{"system", "light", "dark"} {
		theme, err := ParseAppTheme(name)
		require.NoError(t, err)
		assert.Equal(t, AppTheme(name), theme)
	}

	_, err := ParseAppTheme("sepia")
	assert.Error(t, err)
}

func TestAppTheme_RequiresPremium(t *testing.T) {
	assert.False(t, ThemeLight.RequiresPremium())
	assert.True(t, ThemeDark.RequiresPremium())
	assert.True(t, ThemeSystem.RequiresPremium())
}

func TestTutorialStep_Next(t *testing.T) {
	step := StepAddPlace
	var seen []TutorialStep
	for range 5 {
		seen = append(seen, step)
		step = step.Next()
	}

	assert.Equal(t, []TutorialStep{StepAddPlace, StepAddOrder, StepAddTag, StepComplete, StepComplete}, seen)
}

func TestOnboarding_ShowTutorial(t *testing.T) {
	assert.False(t, Onboarding{}.ShowTutorial())
	assert.True(t, Onboarding{HasCompletedOnboarding: true}.ShowTutorial())
	assert.False(t, Onboarding{HasCompletedOnboarding: true, HasCompletedTutorial: true}.ShowTutorial())
}
