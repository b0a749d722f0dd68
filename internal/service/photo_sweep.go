package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/secretmenu/secretmenu-server/internal/store"
)

// PhotoFiles lists and removes stored photo files.
type PhotoFiles interface {
	StaleFiles(cutoff time.Time) ([]string, error)
	Delete(filename string) error
}

// PhotoSweeper deletes uploaded photos that no order references. Uploads
// younger than the grace period are left alone, since a client may still be
// about to attach them.
type PhotoSweeper struct {
	entities EntityStore
	files    PhotoFiles
	grace    time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewPhotoSweeper creates a sweeper.
func NewPhotoSweeper(entities EntityStore, files PhotoFiles, grace time.Duration, logger *slog.Logger) *PhotoSweeper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PhotoSweeper{
		entities: entities,
		files:    files,
		grace:    grace,
		now:      time.Now,
		logger:   logger,
	}
}

// Sweep removes orphaned photos and returns how many were deleted.
func (s *PhotoSweeper) Sweep(ctx context.Context) (int, error) {
	stale, err := s.files.StaleFiles(s.now().Add(-s.grace))
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	orders, err := s.entities.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		return 0, mapStoreError(s.logger, err, "list orders")
	}
	referenced := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		if o.HasPhoto() {
			referenced[o.PhotoPath] = struct{}{}
		}
	}

	var deleted int
	for _, name := range stale {
		if _, ok := referenced[name]; ok {
			continue
		}
		if err := s.files.Delete(name); err != nil {
			s.logger.Warn("failed to delete orphaned photo", "filename", name, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}
