package service

import (
	"context"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/media/images"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

// EntityStore is the persistence surface the facade needs. *sqlite.Store
// implements it.
type EntityStore interface {
	CreatePlace(ctx context.Context, p *domain.Place) error
	GetPlace(ctx context.Context, placeID string) (*domain.Place, error)
	FindPlaceByName(ctx context.Context, name string) (*domain.Place, error)
	ListPlaces(ctx context.Context) ([]*domain.Place, error)
	CountPlaces(ctx context.Context) (int, error)
	// DeletePlace removes the place and its orders, returning the photo
	// file names the removed orders referenced.
	DeletePlace(ctx context.Context, placeID string) ([]string, error)

	CreateOrder(ctx context.Context, o *domain.Order) error
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter store.OrderFilter) ([]*domain.Order, error)
	CountOrders(ctx context.Context) (int, error)
	CountOrdersWithPhotos(ctx context.Context) (int, error)
	UpdateOrder(ctx context.Context, o *domain.Order) error
	DeleteOrder(ctx context.Context, orderID string) error

	CreateTag(ctx context.Context, t *domain.Tag) error
	GetTag(ctx context.Context, tagID string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	UpdateTag(ctx context.Context, t *domain.Tag) error
	DeleteTag(ctx context.Context, tagID string) error
	CountTags(ctx context.Context) (int, error)

	DeleteAll(ctx context.Context) error
}

// PreferenceStore is the typed key-value surface for settings. *store.Store
// implements it.
type PreferenceStore interface {
	GetBool(ctx context.Context, key string) (bool, bool, error)
	SetBool(ctx context.Context, key string, v bool) error
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key string, v string) error
	ResetPreferences(ctx context.Context) error
}

// PhotoStore saves and removes order photos. *images.Processor implements it.
type PhotoStore interface {
	SavePhoto(ctx context.Context, data []byte) (*images.SavedPhoto, error)
	Exists(filename string) bool
	DeletePhoto(filename string)
}

// SearchIndexer keeps the search index in step with the entity store.
type SearchIndexer interface {
	IndexPlace(ctx context.Context, p *domain.Place) error
	IndexOrder(ctx context.Context, o *domain.Order) error
	DeleteDocument(ctx context.Context, id string) error
	DeleteDocuments(ctx context.Context, ids []string) error
}

// NoopSearchIndexer is a no-op implementation for tests and tools that run
// without an index.
type NoopSearchIndexer struct{}

func (NoopSearchIndexer) IndexPlace(context.Context, *domain.Place) error { return nil }
func (NoopSearchIndexer) IndexOrder(context.Context, *domain.Order) error { return nil }
func (NoopSearchIndexer) DeleteDocument(context.Context, string) error    { return nil }
func (NoopSearchIndexer) DeleteDocuments(context.Context, []string) error { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer.
func NewNoopSearchIndexer() SearchIndexer { return NoopSearchIndexer{} }
