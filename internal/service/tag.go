package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/id"
	"github.com/secretmenu/secretmenu-server/internal/normalize"
	"github.com/secretmenu/secretmenu-server/internal/premium"
	"github.com/secretmenu/secretmenu-server/internal/store"
	"github.com/secretmenu/secretmenu-server/internal/validation"
)

// TagReferences resolves which orders carry a tag. Orders reference tags by
// name today; an id-based implementation can replace this one without
// touching callers.
type TagReferences interface {
	OrdersTagged(ctx context.Context, names []string) ([]*domain.Order, error)
}

type nameTagReferences struct {
	entities EntityStore
}

// NewNameTagReferences matches order tags by case-insensitive name.
func NewNameTagReferences(entities EntityStore) TagReferences {
	return nameTagReferences{entities: entities}
}

func (r nameTagReferences) OrdersTagged(ctx context.Context, names []string) ([]*domain.Order, error) {
	names = normalize.TagNames(names)
	if len(names) == 0 {
		return []*domain.Order{}, nil
	}
	return r.entities.ListOrders(ctx, store.OrderFilter{AnyTags: names})
}

// TagInput is the payload for creating or updating a tag. Color is only
// kept for accounts with custom tag colors.
type TagInput struct {
	Name  string `json:"name" validate:"notblank,max=50"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// TagService manages user tags.
type TagService struct {
	entities  EntityStore
	premium   *premium.Manager
	validator *validation.Validator
	now       func() time.Time
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(entities EntityStore, pm *premium.Manager, v *validation.Validator, logger *slog.Logger) *TagService {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TagService{
		entities:  entities,
		premium:   pm,
		validator: v,
		now:       time.Now,
		logger:    logger,
	}
}

// ListTags returns all tags sorted by name.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.entities.ListTags(ctx)
	if err != nil {
		return nil, mapStoreError(s.logger, err, "list tags")
	}
	return tags, nil
}

// GetTag returns one tag.
func (s *TagService) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	t, err := s.entities.GetTag(ctx, tagID)
	if err != nil {
		return nil, mapStoreError(s.logger, err, "get tag")
	}
	return t, nil
}

// CreateTag adds a tag. Names are unique ignoring case.
func (s *TagService) CreateTag(ctx context.Context, in TagInput) (*domain.Tag, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	name := normalize.Name(in.Name)
	if err := s.checkNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, domainerrors.Internal("generate tag id").WithCause(err)
	}

	tag := &domain.Tag{
		ID:        tagID,
		Name:      name,
		Color:     s.allowedColor(in.Color),
		CreatedAt: s.now(),
	}
	if err := s.entities.CreateTag(ctx, tag); err != nil {
		return nil, mapStoreError(s.logger, err, "create tag")
	}

	s.logger.Info("tag created", "tag_id", tag.ID, "name", tag.Name)
	return tag, nil
}

// UpdateTag renames or recolors a tag. Orders that carry the old name keep it.
func (s *TagService) UpdateTag(ctx context.Context, tagID string, in TagInput) (*domain.Tag, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	tag, err := s.entities.GetTag(ctx, tagID)
	if err != nil {
		return nil, mapStoreError(s.logger, err, "get tag")
	}

	name := normalize.Name(in.Name)
	if err := s.checkNameFree(ctx, name, tagID); err != nil {
		return nil, err
	}

	tag.Name = name
	tag.Color = s.allowedColor(in.Color)
	if err := s.entities.UpdateTag(ctx, tag); err != nil {
		return nil, mapStoreError(s.logger, err, "update tag")
	}
	return tag, nil
}

// checkNameFree rejects a name already used by a tag other than exceptID.
func (s *TagService) checkNameFree(ctx context.Context, name, exceptID string) error {
	tags, err := s.entities.ListTags(ctx)
	if err != nil {
		return mapStoreError(s.logger, err, "list tags")
	}
	for _, t := range tags {
		if t.ID != exceptID && normalize.SameName(t.Name, name) {
			return domainerrors.AlreadyExistsf("tag %q already exists", t.Name).
				WithDetails(map[string]string{"tag_id": t.ID})
		}
	}
	return nil
}

// allowedColor drops the color for accounts without custom tag colors.
func (s *TagService) allowedColor(color string) *string {
	color = normalize.HexColor(color)
	if color == "" {
		return nil
	}
	if !s.premium.Capabilities().CustomTagColors {
		s.logger.Debug("dropping tag color without premium", "color", color)
		return nil
	}
	return &color
}
