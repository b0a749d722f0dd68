package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// indexBatchSize bounds memory during bulk indexing.
const indexBatchSize = 500

// mappingVersion changes whenever buildIndexMapping changes. A mismatch with
// the version file on disk forces the index to be recreated.
const mappingVersion = "1"

// SearchIndex wraps a Bleve index. All methods are safe for concurrent use;
// Rebuild takes an exclusive lock.
type SearchIndex struct {
	index       bleve.Index
	path        string
	versionPath string
	logger      *slog.Logger
	mu          sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // directory holding search.bleve
	Logger   *slog.Logger // defaults to discard
}

// NewSearchIndex opens the index under DataPath, creating it when missing,
// unreadable or built with an older mapping. Check DocumentCount after
// opening: zero means the caller should reindex from the entity store.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	if opts.DataPath == "" {
		return nil, fmt.Errorf("search data path cannot be empty")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &SearchIndex{
		path:        filepath.Join(opts.DataPath, "search.bleve"),
		versionPath: filepath.Join(opts.DataPath, "search.version"),
		logger:      logger,
	}

	if index, ok := s.openExisting(); ok {
		s.index = index
		logger.Info("opened existing search index", "path", s.path)
		return s, nil
	}

	if err := s.recreate(); err != nil {
		return nil, err
	}
	return s, nil
}

// openExisting returns the on-disk index when it exists and matches the
// current mapping version.
func (s *SearchIndex) openExisting() (bleve.Index, bool) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, false
	}

	version, err := os.ReadFile(s.versionPath)
	if err != nil || string(version) != mappingVersion {
		s.logger.Info("search index mapping changed, recreating",
			"old_version", string(version),
			"new_version", mappingVersion,
		)
		return nil, false
	}

	index, err := bleve.Open(s.path)
	if err != nil {
		s.logger.Warn("failed to open search index, recreating", "path", s.path, "error", err)
		return nil, false
	}
	return index, true
}

// recreate removes whatever is on disk and creates an empty index.
// Callers hold the write lock or own s exclusively.
func (s *SearchIndex) recreate() error {
	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("remove old index: %w", err)
	}

	index, err := bleve.New(s.path, buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	if err := os.WriteFile(s.versionPath, []byte(mappingVersion), 0o644); err != nil {
		s.logger.Warn("failed to write search version file", "error", err)
	}

	s.index = index
	s.logger.Info("created search index", "path", s.path, "mapping_version", mappingVersion)
	return nil
}

// Close closes the index and releases resources.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexDocument adds or replaces a single document.
func (s *SearchIndex) IndexDocument(doc *SearchDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexDocuments adds or replaces documents in batches.
func (s *SearchIndex) IndexDocuments(docs []*SearchDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(docs)
}

func (s *SearchIndex) indexLocked(docs []*SearchDocument) error {
	for start := 0; start < len(docs); start += indexBatchSize {
		end := min(start+indexBatchSize, len(docs))

		batch := s.index.NewBatch()
		for _, doc := range docs[start:end] {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// DeleteDocument removes a document. Removing an unknown ID is a no-op.
func (s *SearchIndex) DeleteDocument(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DeleteDocuments removes several documents in one batch.
func (s *SearchIndex) DeleteDocuments(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	return s.index.Batch(batch)
}

// DocumentCount returns the number of indexed documents.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild replaces the whole index with docs. Searches block until it
// finishes.
func (s *SearchIndex) Rebuild(docs []*SearchDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	if err := s.recreate(); err != nil {
		return err
	}
	if err := s.indexLocked(docs); err != nil {
		return err
	}

	s.logger.Info("rebuilt search index", "documents", len(docs))
	return nil
}
