package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/search"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

// SearchService provides search over places and orders.
// It bridges the search index with the entity store, handling document
// creation, updates, and query execution. It implements SearchIndexer.
type SearchService struct {
	index    *search.SearchIndex
	entities EntityStore
	logger   *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, entities EntityStore, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SearchService{index: index, entities: entities, logger: logger}
}

// Search runs a query against the index.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// IndexPlace indexes a single place.
func (s *SearchService) IndexPlace(_ context.Context, p *domain.Place) error {
	if err := s.index.IndexDocument(search.PlaceDocument(p)); err != nil {
		return fmt.Errorf("index place: %w", err)
	}
	s.logger.Debug("indexed place", "id", p.ID, "name", p.Name)
	return nil
}

// IndexOrder indexes a single order along with its place name.
func (s *SearchService) IndexOrder(ctx context.Context, o *domain.Order) error {
	placeName := ""
	if p, err := s.entities.GetPlace(ctx, o.PlaceID); err == nil {
		placeName = p.Name
	} else {
		s.logger.Warn("indexing order without place name", "order_id", o.ID, "place_id", o.PlaceID, "error", err)
	}

	if err := s.index.IndexDocument(search.OrderDocument(o, placeName)); err != nil {
		return fmt.Errorf("index order: %w", err)
	}
	s.logger.Debug("indexed order", "id", o.ID, "title", o.Title)
	return nil
}

// DeleteDocument removes a place or order from the index.
func (s *SearchService) DeleteDocument(_ context.Context, id string) error {
	return s.index.DeleteDocument(id)
}

// DeleteDocuments removes several documents in one batch.
func (s *SearchService) DeleteDocuments(_ context.Context, ids []string) error {
	return s.index.DeleteDocuments(ids)
}

// Reindex rebuilds the whole index from the entity store.
func (s *SearchService) Reindex(ctx context.Context) error {
	places, err := s.entities.ListPlaces(ctx)
	if err != nil {
		return fmt.Errorf("list places: %w", err)
	}
	orders, err := s.entities.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}

	names := make(map[string]string, len(places))
	docs := make([]*search.SearchDocument, 0, len(places)+len(orders))
	for _, p := range places {
		names[p.ID] = p.Name
		docs = append(docs, search.PlaceDocument(p))
	}
	for _, o := range orders {
		docs = append(docs, search.OrderDocument(o, names[o.PlaceID]))
	}

	return s.index.Rebuild(docs)
}

// ReindexIfEmpty rebuilds the index when it holds no documents but the store
// does, as after a fresh install or a deleted index directory.
func (s *SearchService) ReindexIfEmpty(ctx context.Context) error {
	n, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if n > 0 {
		return nil
	}

	places, err := s.entities.CountPlaces(ctx)
	if err != nil {
		return fmt.Errorf("count places: %w", err)
	}
	if places == 0 {
		return nil
	}

	s.logger.Info("search index empty, rebuilding", "places", places)
	return s.Reindex(ctx)
}
