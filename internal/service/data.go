package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/entitlement"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/id"
	"github.com/secretmenu/secretmenu-server/internal/normalize"
	"github.com/secretmenu/secretmenu-server/internal/premium"
	"github.com/secretmenu/secretmenu-server/internal/store"
	"github.com/secretmenu/secretmenu-server/internal/validation"
)

// DuplicatePolicy decides what CreatePlace returns for a name that already exists.
type DuplicatePolicy string

// Duplicate place policies.
const (
	DuplicateReport DuplicatePolicy = "report"
	DuplicateReuse  DuplicatePolicy = "reuse"
)

// DataOptions configures a DataService. Zero values are usable.
type DataOptions struct {
	DuplicatePlacePolicy DuplicatePolicy
	Photos               PhotoStore
	Index                SearchIndexer
	Tags                 TagReferences
	Validator            *validation.Validator
	Now                  func() time.Time
	Logger               *slog.Logger
}

// DataService is the only path through which places and orders are created.
// Every create checks the entitlement policy against live counts first.
type DataService struct {
	entities  EntityStore
	premium   *premium.Manager
	photos    PhotoStore
	index     SearchIndexer
	tags      TagReferences
	validator *validation.Validator
	policy    DuplicatePolicy
	now       func() time.Time
	logger    *slog.Logger

	// createMu serialises count-then-insert so two concurrent creates cannot
	// both pass the limit check.
	createMu sync.Mutex
}

// NewDataService creates the data facade.
func NewDataService(entities EntityStore, pm *premium.Manager, opts DataOptions) *DataService {
	if opts.DuplicatePlacePolicy == "" {
		opts.DuplicatePlacePolicy = DuplicateReport
	}
	if opts.Index == nil {
		opts.Index = NewNoopSearchIndexer()
	}
	if opts.Tags == nil {
		opts.Tags = NewNameTagReferences(entities)
	}
	if opts.Validator == nil {
		opts.Validator = validation.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &DataService{
		entities:  entities,
		premium:   pm,
		photos:    opts.Photos,
		index:     opts.Index,
		tags:      opts.Tags,
		validator: opts.Validator,
		policy:    opts.DuplicatePlacePolicy,
		now:       opts.Now,
		logger:    opts.Logger,
	}
}

// OrderInput is the payload for CreateOrder.
type OrderInput struct {
	PlaceID       string   `json:"place_id" validate:"required"`
	Title         string   `json:"title" validate:"notblank,max=200"`
	Details       string   `json:"details" validate:"max=5000"`
	Tags          []string `json:"tags" validate:"max=50,dive,max=50"`
	PhotoPath     string   `json:"photo_path" validate:"omitempty,photofile"`
	PhotoBlurHash string   `json:"photo_blur_hash" validate:"max=64"`
}

// OrderUpdate holds the fields to change on an order. Nil fields are left
// as they are. An empty PhotoPath clears the photo.
type OrderUpdate struct {
	Title         *string   `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Details       *string   `json:"details,omitempty" validate:"omitempty,max=5000"`
	Tags          *[]string `json:"tags,omitempty" validate:"omitempty,max=50,dive,max=50"`
	PhotoPath     *string   `json:"photo_path,omitempty" validate:"omitempty,len=0|photofile"`
	PhotoBlurHash *string   `json:"photo_blur_hash,omitempty" validate:"omitempty,max=64"`
}

// CreatePlace adds a place.
//
// The name is trimmed. A case-insensitive match against an existing place
// wins over the limit check, so a free user at the limit who re-enters an
// existing name still gets AlreadyExists (or the place itself under the
// reuse policy).
func (s *DataService) CreatePlace(ctx context.Context, name string) PlaceResult {
	if err := ctx.Err(); err != nil {
		return placeError(err)
	}

	name = normalize.Name(name)
	if name == "" {
		return placeError(domainerrors.Validation("place name cannot be empty"))
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	existing, err := s.entities.FindPlaceByName(ctx, name)
	switch {
	case err == nil:
		s.logger.Debug("place already exists", "place_id", existing.ID, "name", name, "policy", s.policy)
		if s.policy == DuplicateReuse {
			return placeSuccess(existing)
		}
		return placeAlreadyExists(existing)
	case !errors.Is(err, store.ErrNotFound):
		return placeError(s.storeError(err, "find place"))
	}

	count, err := s.entities.CountPlaces(ctx)
	if err != nil {
		return placeError(s.storeError(err, "count places"))
	}

	state := s.premium.Snapshot()
	if !entitlement.CanCreatePlace(state.IsPremiumUser, count, state.FreePlaceLimit) {
		s.logger.Info("place limit reached", "count", count, "limit", state.FreePlaceLimit)
		return placeLimitReached()
	}

	placeID, err := id.Generate(id.PrefixPlace)
	if err != nil {
		return placeError(domainerrors.Internal("generate place id").WithCause(err))
	}

	place := &domain.Place{ID: placeID, Name: name, CreatedAt: s.now()}
	if err := s.entities.CreatePlace(ctx, place); err != nil {
		return placeError(s.storeError(err, "create place"))
	}

	if err := s.index.IndexPlace(ctx, place); err != nil {
		s.logger.Warn("failed to index place", "place_id", place.ID, "error", err)
	}

	s.logger.Info("place created", "place_id", place.ID, "name", place.Name)
	return placeSuccess(place)
}

// CreateOrder adds an order to an existing place. The order count is global
// across all places. When a free photo limit is configured, a photo counts
// against it as well.
func (s *DataService) CreateOrder(ctx context.Context, in OrderInput) OrderResult {
	if err := ctx.Err(); err != nil {
		return orderError(err)
	}
	if err := s.validator.Validate(in); err != nil {
		return orderError(err)
	}
	if in.PhotoPath != "" && (s.photos == nil || !s.photos.Exists(in.PhotoPath)) {
		return orderError(domainerrors.Validationf("photo %q has not been uploaded", in.PhotoPath))
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	if _, err := s.entities.GetPlace(ctx, in.PlaceID); err != nil {
		return orderError(s.storeError(err, "get place"))
	}

	count, err := s.entities.CountOrders(ctx)
	if err != nil {
		return orderError(s.storeError(err, "count orders"))
	}

	state := s.premium.Snapshot()
	limit := state.TotalOrderLimit()
	if !entitlement.CanCreateOrder(state.IsPremiumUser, count, limit) {
		s.logger.Info("order limit reached", "count", count, "limit", limit)
		return orderLimitReached()
	}

	if in.PhotoPath != "" {
		reached, err := s.photoLimitReached(ctx, state.IsPremiumUser)
		if err != nil {
			return orderError(err)
		}
		if reached {
			return orderLimitReached()
		}
	}

	orderID, err := id.Generate(id.PrefixOrder)
	if err != nil {
		return orderError(domainerrors.Internal("generate order id").WithCause(err))
	}

	order := &domain.Order{
		ID:            orderID,
		PlaceID:       in.PlaceID,
		Title:         normalize.Name(in.Title),
		Details:       in.Details,
		Tags:          normalize.TagNames(in.Tags),
		PhotoPath:     in.PhotoPath,
		PhotoBlurHash: in.PhotoBlurHash,
		CreatedAt:     s.now(),
	}
	if err := s.entities.CreateOrder(ctx, order); err != nil {
		return orderError(s.storeError(err, "create order"))
	}

	s.reindexOrder(ctx, order)

	s.logger.Info("order created", "order_id", order.ID, "place_id", order.PlaceID)
	return orderSuccess(order)
}

// UpdateOrder edits an existing order. Limits are not re-checked: editing
// never adds to any count. A new PhotoPath must name an uploaded file; the
// previous photo file is deleted once the update is stored.
func (s *DataService) UpdateOrder(ctx context.Context, orderID string, upd OrderUpdate) (*domain.Order, error) {
	if err := s.validator.Validate(upd); err != nil {
		return nil, err
	}
	if upd.PhotoPath != nil && *upd.PhotoPath != "" && (s.photos == nil || !s.photos.Exists(*upd.PhotoPath)) {
		return nil, domainerrors.Validationf("photo %q has not been uploaded", *upd.PhotoPath)
	}

	order, err := s.entities.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.storeError(err, "get order")
	}

	if upd.Title != nil {
		order.Title = normalize.Name(*upd.Title)
	}
	if upd.Details != nil {
		order.Details = *upd.Details
	}
	if upd.Tags != nil {
		order.Tags = normalize.TagNames(*upd.Tags)
	}

	var previous string
	if upd.PhotoPath != nil && *upd.PhotoPath != order.PhotoPath {
		previous = order.PhotoPath
		order.PhotoPath = *upd.PhotoPath
		order.PhotoBlurHash = ""
		if order.PhotoPath != "" && upd.PhotoBlurHash != nil {
			order.PhotoBlurHash = *upd.PhotoBlurHash
		}
	}

	if err := s.entities.UpdateOrder(ctx, order); err != nil {
		return nil, s.storeError(err, "update order")
	}

	if previous != "" {
		s.deletePhotos(previous)
	}
	s.reindexOrder(ctx, order)
	return order, nil
}

// DeleteOrder removes an order and its photo file.
func (s *DataService) DeleteOrder(ctx context.Context, orderID string) error {
	order, err := s.entities.GetOrder(ctx, orderID)
	if err != nil {
		return s.storeError(err, "get order")
	}
	if err := s.entities.DeleteOrder(ctx, orderID); err != nil {
		return s.storeError(err, "delete order")
	}

	s.deletePhotos(order.PhotoPath)
	if err := s.index.DeleteDocument(ctx, orderID); err != nil {
		s.logger.Warn("failed to remove order from index", "order_id", orderID, "error", err)
	}

	s.logger.Info("order deleted", "order_id", orderID)
	return nil
}

// DeletePlace removes a place together with all of its orders.
func (s *DataService) DeletePlace(ctx context.Context, placeID string) error {
	orders, err := s.entities.ListOrders(ctx, store.OrderFilter{PlaceID: placeID})
	if err != nil {
		return s.storeError(err, "list orders")
	}

	photos, err := s.entities.DeletePlace(ctx, placeID)
	if err != nil {
		return s.storeError(err, "delete place")
	}

	s.deletePhotos(photos...)

	ids := make([]string, 0, len(orders)+1)
	ids = append(ids, placeID)
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	if err := s.index.DeleteDocuments(ctx, ids); err != nil {
		s.logger.Warn("failed to remove place from index", "place_id", placeID, "error", err)
	}

	s.logger.Info("place deleted", "place_id", placeID, "orders", len(orders))
	return nil
}

// DeleteTag removes a tag. Orders keep the tag name.
func (s *DataService) DeleteTag(ctx context.Context, tagID string) error {
	if err := s.entities.DeleteTag(ctx, tagID); err != nil {
		return s.storeError(err, "delete tag")
	}
	s.logger.Info("tag deleted", "tag_id", tagID)
	return nil
}

// FetchPlaces returns every place sorted by name.
func (s *DataService) FetchPlaces(ctx context.Context) ([]*domain.Place, error) {
	places, err := s.entities.ListPlaces(ctx)
	if err != nil {
		return nil, s.storeError(err, "list places")
	}
	return places, nil
}

// GetPlace returns one place.
func (s *DataService) GetPlace(ctx context.Context, placeID string) (*domain.Place, error) {
	p, err := s.entities.GetPlace(ctx, placeID)
	if err != nil {
		return nil, s.storeError(err, "get place")
	}
	return p, nil
}

// FetchOrders returns orders newest first, limited to one place when placeID
// is not empty.
func (s *DataService) FetchOrders(ctx context.Context, placeID string) ([]*domain.Order, error) {
	orders, err := s.entities.ListOrders(ctx, store.OrderFilter{PlaceID: placeID})
	if err != nil {
		return nil, s.storeError(err, "list orders")
	}
	return orders, nil
}

// FetchOrdersWithTags returns orders carrying any of the given tag names.
func (s *DataService) FetchOrdersWithTags(ctx context.Context, tags []string) ([]*domain.Order, error) {
	orders, err := s.tags.OrdersTagged(ctx, tags)
	if err != nil {
		return nil, s.storeError(err, "list tagged orders")
	}
	return orders, nil
}

// GetOrder returns one order.
func (s *DataService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := s.entities.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.storeError(err, "get order")
	}
	return o, nil
}

// FetchTags returns every tag sorted by name.
func (s *DataService) FetchTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.entities.ListTags(ctx)
	if err != nil {
		return nil, s.storeError(err, "list tags")
	}
	return tags, nil
}

// Counts reports live entity counts.
func (s *DataService) Counts(ctx context.Context) (EntityCounts, error) {
	var c EntityCounts
	var err error
	if c.Places, err = s.entities.CountPlaces(ctx); err != nil {
		return c, s.storeError(err, "count places")
	}
	if c.Orders, err = s.entities.CountOrders(ctx); err != nil {
		return c, s.storeError(err, "count orders")
	}
	if c.OrdersWithPhotos, err = s.entities.CountOrdersWithPhotos(ctx); err != nil {
		return c, s.storeError(err, "count photos")
	}
	if c.Tags, err = s.entities.CountTags(ctx); err != nil {
		return c, s.storeError(err, "count tags")
	}
	return c, nil
}

// EntityCounts is a point-in-time count of stored entities.
type EntityCounts struct {
	Places           int `json:"places"`
	Orders           int `json:"orders"`
	OrdersWithPhotos int `json:"orders_with_photos"`
	Tags             int `json:"tags"`
}

func (s *DataService) reindexOrder(ctx context.Context, o *domain.Order) {
	if err := s.index.IndexOrder(ctx, o); err != nil {
		s.logger.Warn("failed to index order", "order_id", o.ID, "error", err)
	}
}

func (s *DataService) deletePhotos(filenames ...string) {
	if s.photos == nil {
		return
	}
	for _, f := range filenames {
		s.photos.DeletePhoto(f)
	}
}

// storeError maps storage failures onto domain errors. Context errors pass
// through untouched so callers can tell cancellation apart.
func (s *DataService) storeError(err error, op string) error {
	return mapStoreError(s.logger, err, op)
}

func mapStoreError(logger *slog.Logger, err error, op string) error {
	var storeErr *store.Error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, store.ErrNotFound):
		msg := "not found"
		if errors.As(err, &storeErr) {
			msg = storeErr.Message
		}
		return domainerrors.NotFound(msg).WithCause(err)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.AlreadyExists(fmt.Sprintf("%s: already exists", op)).WithCause(err)
	}

	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return err
	}

	logger.Error("storage failure", "op", op, "error", err)
	return domainerrors.Persistence(err, op)
}
