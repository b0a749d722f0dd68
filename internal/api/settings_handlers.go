package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/service"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getTheme",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings/theme",
		Summary:     "Get theme",
		Tags:        []string{"Settings"},
		Security:    bearerSecurity,
	}, s.handleGetTheme)

	huma.Register(s.api, huma.Operation{
		OperationID: "setTheme",
		Method:      http.MethodPut,
		Path:        "/api/v1/settings/theme",
		Summary:     "Set theme",
		Description: "Selects the app theme. Themes other than light require premium",
		Tags:        []string{"Settings"},
		Security:    bearerSecurity,
	}, s.handleSetTheme)

	huma.Register(s.api, huma.Operation{
		OperationID: "getOnboarding",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings/onboarding",
		Summary:     "Get onboarding state",
		Tags:        []string{"Settings"},
		Security:    bearerSecurity,
	}, s.handleGetOnboarding)

	onboardingActions := []struct {
		id, path, summary string
		run               func(*service.SettingsService, context.Context) (domain.Onboarding, error)
	}{
		{"completeOnboarding", "/complete", "Complete onboarding", (*service.SettingsService).CompleteOnboarding},
		{"advanceTutorial", "/tutorial/advance", "Advance tutorial", (*service.SettingsService).AdvanceTutorial},
		{"skipTutorial", "/tutorial/skip", "Skip tutorial", (*service.SettingsService).SkipTutorial},
		{"resetOnboarding", "/reset", "Reset onboarding", (*service.SettingsService).ResetOnboarding},
	}
	for _, a := range onboardingActions {
		huma.Register(s.api, huma.Operation{
			OperationID: a.id,
			Method:      http.MethodPost,
			Path:        "/api/v1/settings/onboarding" + a.path,
			Summary:     a.summary,
			Tags:        []string{"Settings"},
			Security:    bearerSecurity,
		}, func(ctx context.Context, _ *struct{}) (*OnboardingOutput, error) {
			if _, err := requireDevice(ctx); err != nil {
				return nil, err
			}
			o, err := a.run(s.services.Settings, ctx)
			if err != nil {
				return nil, err
			}
			return &OnboardingOutput{Body: o}, nil
		})
	}
}

// ThemeOutput wraps the theme state for Huma.
type ThemeOutput struct {
	Body service.ThemeState
}

// SetThemeRequest is the request body for selecting a theme.
type SetThemeRequest struct {
	Theme string `json:"theme" enum:"system,light,dark" doc:"Theme to select"`
}

// SetThemeInput wraps the theme request for Huma.
type SetThemeInput struct {
	Body SetThemeRequest
}

// OnboardingOutput wraps the onboarding state for Huma.
type OnboardingOutput struct {
	Body domain.Onboarding
}

func (s *Server) handleGetTheme(ctx context.Context, _ *struct{}) (*ThemeOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	t, err := s.services.Settings.Theme(ctx)
	if err != nil {
		return nil, err
	}
	return &ThemeOutput{Body: t}, nil
}

func (s *Server) handleSetTheme(ctx context.Context, input *SetThemeInput) (*ThemeOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	t, err := s.services.Settings.SetTheme(ctx, input.Body.Theme)
	if err != nil {
		return nil, err
	}
	return &ThemeOutput{Body: t}, nil
}

func (s *Server) handleGetOnboarding(ctx context.Context, _ *struct{}) (*OnboardingOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	o, err := s.services.Settings.Onboarding(ctx)
	if err != nil {
		return nil, err
	}
	return &OnboardingOutput{Body: o}, nil
}
