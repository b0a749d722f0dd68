package domain

import "fmt"

// AppTheme is the persisted color scheme choice.
type AppTheme string

// Supported themes.
const (
	ThemeSystem AppTheme = "system"
	ThemeLight  AppTheme = "light"
	ThemeDark   AppTheme = "dark"
)

// DefaultTheme is used when nothing has been stored yet.
const DefaultTheme = ThemeLight

// ParseAppTheme validates a stored or user-supplied theme name.
func ParseAppTheme(s string) (AppTheme, error) {
	switch t := AppTheme(s); t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// RequiresPremium reports whether choosing the theme needs the custom themes capability.
func (t AppTheme) RequiresPremium() bool {
	return t != DefaultTheme
}

// TutorialStep is the position in the first-run tutorial.
type TutorialStep string

// Tutorial steps in order.
const (
	StepAddPlace TutorialStep = "add_place"
	StepAddOrder TutorialStep = "add_order"
	StepAddTag   TutorialStep = "add_tag"
	StepComplete TutorialStep = "complete"
)

// Next returns the step after s. The last step is terminal.
func (s TutorialStep) Next() TutorialStep {
	switch s {
	case StepAddPlace:
		return StepAddOrder
	case StepAddOrder:
		return StepAddTag
	default:
		return StepComplete
	}
}

// Onboarding tracks first-run progress.
type Onboarding struct {
	HasCompletedOnboarding bool         `json:"has_completed_onboarding"`
	HasCompletedTutorial   bool         `json:"has_completed_tutorial"`
	TutorialStep           TutorialStep `json:"tutorial_step"`
}

// ShowTutorial reports whether the tutorial overlay should be displayed.
func (o Onboarding) ShowTutorial() bool {
	return o.HasCompletedOnboarding && !o.HasCompletedTutorial
}
