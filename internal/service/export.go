package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/secretmenu/secretmenu-server/internal/backup"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/premium"
)

// ExportService writes and restores archives of the user's data. Both
// directions need the export capability.
type ExportService struct {
	premium  *premium.Manager
	exporter *backup.Exporter
	restorer *backup.Restorer
	search   *SearchService
	logger   *slog.Logger
}

// NewExportService creates a new export service. search may be nil.
func NewExportService(pm *premium.Manager, exporter *backup.Exporter, restorer *backup.Restorer, search *SearchService, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ExportService{premium: pm, exporter: exporter, restorer: restorer, search: search, logger: logger}
}

// Export streams an archive to w.
func (s *ExportService) Export(ctx context.Context, w io.Writer, opts backup.ExportOptions) (*backup.Manifest, error) {
	if err := s.requireExport(); err != nil {
		return nil, err
	}
	m, err := s.exporter.Export(ctx, w, opts)
	if err != nil {
		return nil, domainerrors.Internal("export failed").WithCause(err)
	}
	return m, nil
}

// Import restores an archive and refreshes the search index.
func (s *ExportService) Import(ctx context.Context, r io.ReaderAt, size int64, opts backup.RestoreOptions) (*backup.RestoreResult, error) {
	if err := s.requireExport(); err != nil {
		return nil, err
	}

	res, err := s.restorer.Restore(ctx, r, size, opts)
	if err != nil {
		if isArchiveError(err) {
			return nil, domainerrors.Validation(err.Error())
		}
		return nil, domainerrors.Internal("import failed").WithCause(err)
	}

	if s.search != nil && !opts.DryRun {
		if err := s.search.Reindex(ctx); err != nil {
			s.logger.Warn("failed to reindex after import", "error", err)
		}
	}
	return res, nil
}

func (s *ExportService) requireExport() error {
	if !s.premium.Capabilities().ExportOrders {
		return domainerrors.LimitReached("export requires premium")
	}
	return nil
}

func isArchiveError(err error) bool {
	for _, target := range []error{
		backup.ErrInvalidArchive,
		backup.ErrInvalidManifest,
		backup.ErrVersionMismatch,
		backup.ErrInvalidMode,
	} {
		if domainerrors.Is(err, target) {
			return true
		}
	}
	return false
}
