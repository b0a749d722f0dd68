package service

import (
	"context"
	"log/slog"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/premium"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

// ThemeState is the stored theme and the one actually applied. Free accounts
// always get the default theme applied, whatever is stored.
type ThemeState struct {
	Selected     domain.AppTheme `json:"selected"`
	Effective    domain.AppTheme `json:"effective"`
	CanCustomize bool            `json:"can_customize"`
}

// SettingsService manages theme and onboarding preferences.
type SettingsService struct {
	prefs   PreferenceStore
	premium *premium.Manager
	logger  *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(prefs PreferenceStore, pm *premium.Manager, logger *slog.Logger) *SettingsService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SettingsService{prefs: prefs, premium: pm, logger: logger}
}

// Theme returns the theme state.
func (s *SettingsService) Theme(ctx context.Context) (ThemeState, error) {
	raw, ok, err := s.prefs.GetString(ctx, store.KeySelectedAppTheme)
	if err != nil {
		return ThemeState{}, domainerrors.Persistence(err, "load theme")
	}

	selected := domain.DefaultTheme
	if ok {
		if t, err := domain.ParseAppTheme(raw); err == nil {
			selected = t
		} else {
			s.logger.Warn("ignoring unknown stored theme", "theme", raw)
		}
	}
	return s.themeState(selected), nil
}

// SetTheme stores a theme. Themes other than the default need premium.
func (s *SettingsService) SetTheme(ctx context.Context, theme string) (ThemeState, error) {
	t, err := domain.ParseAppTheme(theme)
	if err != nil {
		return ThemeState{}, domainerrors.Validation(err.Error())
	}
	if t.RequiresPremium() && !s.premium.Capabilities().CustomThemes {
		return ThemeState{}, domainerrors.LimitReached("custom themes require premium")
	}

	if err := s.prefs.SetString(ctx, store.KeySelectedAppTheme, string(t)); err != nil {
		s.logger.Error("failed to persist theme", "theme", t, "error", err)
		return ThemeState{}, domainerrors.Persistence(err, "save theme")
	}
	return s.themeState(t), nil
}

func (s *SettingsService) themeState(selected domain.AppTheme) ThemeState {
	canCustomize := s.premium.Capabilities().CustomThemes
	effective := selected
	if !canCustomize {
		effective = domain.DefaultTheme
	}
	return ThemeState{Selected: selected, Effective: effective, CanCustomize: canCustomize}
}

// Onboarding returns first-run progress.
func (s *SettingsService) Onboarding(ctx context.Context) (domain.Onboarding, error) {
	var o domain.Onboarding
	var err error

	if o.HasCompletedOnboarding, _, err = s.prefs.GetBool(ctx, store.KeyHasCompletedOnboarding); err != nil {
		return o, domainerrors.Persistence(err, "load onboarding")
	}
	if o.HasCompletedTutorial, _, err = s.prefs.GetBool(ctx, store.KeyHasCompletedTutorial); err != nil {
		return o, domainerrors.Persistence(err, "load tutorial")
	}

	step, ok, err := s.prefs.GetString(ctx, store.KeyTutorialStep)
	if err != nil {
		return o, domainerrors.Persistence(err, "load tutorial step")
	}
	o.TutorialStep = domain.StepAddPlace
	if ok && step != "" {
		o.TutorialStep = domain.TutorialStep(step)
	}
	return o, nil
}

// CompleteOnboarding marks the intro screens as seen.
func (s *SettingsService) CompleteOnboarding(ctx context.Context) (domain.Onboarding, error) {
	if err := s.prefs.SetBool(ctx, store.KeyHasCompletedOnboarding, true); err != nil {
		return domain.Onboarding{}, domainerrors.Persistence(err, "save onboarding")
	}
	return s.Onboarding(ctx)
}

// AdvanceTutorial moves to the next tutorial step. Advancing past the last
// step completes the tutorial.
func (s *SettingsService) AdvanceTutorial(ctx context.Context) (domain.Onboarding, error) {
	o, err := s.Onboarding(ctx)
	if err != nil {
		return o, err
	}
	if o.HasCompletedTutorial {
		return o, nil
	}

	if o.TutorialStep == domain.StepComplete {
		return s.SkipTutorial(ctx)
	}

	next := o.TutorialStep.Next()
	if err := s.prefs.SetString(ctx, store.KeyTutorialStep, string(next)); err != nil {
		return o, domainerrors.Persistence(err, "save tutorial step")
	}
	o.TutorialStep = next
	return o, nil
}

// SkipTutorial completes the tutorial immediately.
func (s *SettingsService) SkipTutorial(ctx context.Context) (domain.Onboarding, error) {
	if err := s.prefs.SetString(ctx, store.KeyTutorialStep, string(domain.StepComplete)); err != nil {
		return domain.Onboarding{}, domainerrors.Persistence(err, "save tutorial step")
	}
	if err := s.prefs.SetBool(ctx, store.KeyHasCompletedTutorial, true); err != nil {
		return domain.Onboarding{}, domainerrors.Persistence(err, "save tutorial")
	}
	return s.Onboarding(ctx)
}

// ResetOnboarding starts the first-run flow over.
func (s *SettingsService) ResetOnboarding(ctx context.Context) (domain.Onboarding, error) {
	if err := s.prefs.SetBool(ctx, store.KeyHasCompletedOnboarding, false); err != nil {
		return domain.Onboarding{}, domainerrors.Persistence(err, "reset onboarding")
	}
	if err := s.prefs.SetBool(ctx, store.KeyHasCompletedTutorial, false); err != nil {
		return domain.Onboarding{}, domainerrors.Persistence(err, "reset tutorial")
	}
	if err := s.prefs.SetString(ctx, store.KeyTutorialStep, string(domain.StepAddPlace)); err != nil {
		return domain.Onboarding{}, domainerrors.Persistence(err, "reset tutorial step")
	}
	return s.Onboarding(ctx)
}
