package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/premium"
)

// PhotoWiper removes every stored photo.
type PhotoWiper interface {
	DeleteAll() error
}

// DebugStatus is a diagnostic snapshot.
type DebugStatus struct {
	Counts  EntityCounts  `json:"counts"`
	Premium PremiumStatus `json:"premium"`
}

// DebugService holds developer operations: inspect, reset, seed, toggle.
type DebugService struct {
	data     *DataService
	entities EntityStore
	prefs    PreferenceStore
	premium  *premium.Manager
	photos   PhotoWiper
	search   *SearchService
	logger   *slog.Logger
}

// DebugDeps groups the collaborators of DebugService. Photos and Search may
// be nil.
type DebugDeps struct {
	Data     *DataService
	Entities EntityStore
	Prefs    PreferenceStore
	Premium  *premium.Manager
	Photos   PhotoWiper
	Search   *SearchService
	Logger   *slog.Logger
}

// NewDebugService creates a new debug service.
func NewDebugService(deps DebugDeps) *DebugService {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	return &DebugService{
		data:     deps.Data,
		entities: deps.Entities,
		prefs:    deps.Prefs,
		premium:  deps.Premium,
		photos:   deps.Photos,
		search:   deps.Search,
		logger:   deps.Logger,
	}
}

// Status returns live counts and the premium snapshot.
func (s *DebugService) Status(ctx context.Context) (*DebugStatus, error) {
	counts, err := s.data.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &DebugStatus{
		Counts:  counts,
		Premium: premiumStatus(s.premium),
	}, nil
}

// ResetAllData deletes every entity, photo and preference and reloads the
// premium state, which falls back to defaults. Paired devices are kept.
func (s *DebugService) ResetAllData(ctx context.Context) error {
	if err := s.entities.DeleteAll(ctx); err != nil {
		return mapStoreError(s.logger, err, "delete entities")
	}

	var errs []error
	if s.photos != nil {
		if err := s.photos.DeleteAll(); err != nil {
			s.logger.Warn("failed to delete photos", "error", err)
			errs = append(errs, err)
		}
	}
	if err := s.prefs.ResetPreferences(ctx); err != nil {
		errs = append(errs, domainerrors.Persistence(err, "reset preferences"))
	}
	if err := s.premium.Load(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.search != nil {
		if err := s.search.Reindex(ctx); err != nil {
			s.logger.Warn("failed to clear search index", "error", err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	s.logger.Info("all data reset")
	return nil
}

// SeedResult lists what SeedTestData created.
type SeedResult struct {
	Places []*domain.Place `json:"places"`
	Orders []*domain.Order `json:"orders"`
}

// SeedTestData adds two places and two orders through the normal facade, so
// limits apply. Existing places with the same names are reused.
func (s *DebugService) SeedTestData(ctx context.Context) (*SeedResult, error) {
	res := &SeedResult{}

	seeds := []struct {
		place string
		order OrderInput
	}{
		{"Test Coffee Shop", OrderInput{
			Title:   "Vanilla Oat Latte",
			Details: "Oat milk, 2 pumps vanilla, extra hot",
			Tags:    []string{"Coffee"},
		}},
		{"Test Restaurant", OrderInput{
			Title:   "Off-Menu Burger",
			Details: "Animal style, no onions, extra pickles",
			Tags:    []string{"Dinner"},
		}},
	}

	for _, seed := range seeds {
		pr := s.data.CreatePlace(ctx, seed.place)
		switch pr.Kind {
		case ResultSuccess, ResultAlreadyExists:
		default:
			return res, pr.AsError()
		}
		res.Places = append(res.Places, pr.Place)

		in := seed.order
		in.PlaceID = pr.Place.ID
		or := s.data.CreateOrder(ctx, in)
		if or.Kind != ResultSuccess {
			return res, or.AsError()
		}
		res.Orders = append(res.Orders, or.Order)
	}

	s.logger.Info("test data seeded", "places", len(res.Places), "orders", len(res.Orders))
	return res, nil
}

// TogglePremium flips the premium flag and returns the new value.
func (s *DebugService) TogglePremium(ctx context.Context) (bool, error) {
	next := !s.premium.IsPremium()
	if err := s.premium.SetPremium(ctx, next); err != nil {
		return next, err
	}
	return next, nil
}
