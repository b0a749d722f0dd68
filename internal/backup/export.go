package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/secretmenu/secretmenu-server/internal/backup/stream"
	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

// Source lists everything an archive holds.
type Source interface {
	ListPlaces(ctx context.Context) ([]*domain.Place, error)
	ListOrders(ctx context.Context, filter store.OrderFilter) ([]*domain.Order, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
}

// PhotoReader loads stored photo bytes by file name.
type PhotoReader interface {
	Get(filename string) ([]byte, error)
}

// Exporter creates archives.
type Exporter struct {
	src     Source
	photos  PhotoReader
	version string
	now     func() time.Time
	logger  *slog.Logger
}

// NewExporter creates an Exporter. photos may be nil when photos are never
// included.
func NewExporter(src Source, photos PhotoReader, version string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Exporter{src: src, photos: photos, version: version, now: time.Now, logger: logger}
}

// Export writes a zip archive to w. The manifest is written last so its
// counts match what was streamed.
func (e *Exporter) Export(ctx context.Context, w io.Writer, opts ExportOptions) (*Manifest, error) {
	zw := zip.NewWriter(w)

	manifest := &Manifest{
		Version:        FormatVersion,
		CreatedAt:      e.now().UTC(),
		AppVersion:     e.version,
		IncludesPhotos: opts.IncludePhotos && e.photos != nil,
	}

	places, err := e.src.ListPlaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	if manifest.Counts.Places, err = writeAll(zw, placesPath, places); err != nil {
		return nil, fmt.Errorf("export places: %w", err)
	}

	tags, err := e.src.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	if manifest.Counts.Tags, err = writeAll(zw, tagsPath, tags); err != nil {
		return nil, fmt.Errorf("export tags: %w", err)
	}

	orders, err := e.src.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if manifest.Counts.Orders, err = writeAll(zw, ordersPath, orders); err != nil {
		return nil, fmt.Errorf("export orders: %w", err)
	}

	if manifest.IncludesPhotos {
		n, err := e.exportPhotos(ctx, zw, orders)
		if err != nil {
			return nil, fmt.Errorf("export photos: %w", err)
		}
		manifest.Counts.Photos = n
	}

	mw, err := zw.Create(manifestPath)
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(mw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	e.logger.Info("export complete",
		"places", manifest.Counts.Places,
		"orders", manifest.Counts.Orders,
		"tags", manifest.Counts.Tags,
		"photos", manifest.Counts.Photos,
	)
	return manifest, nil
}

func (e *Exporter) exportPhotos(ctx context.Context, zw *zip.Writer, orders []*domain.Order) (int, error) {
	count := 0
	for _, o := range orders {
		if ctx.Err() != nil {
			return count, ctx.Err()
		}
		if !o.HasPhoto() {
			continue
		}

		data, err := e.photos.Get(o.PhotoPath)
		if err != nil {
			// A missing file only loses the photo, not the order.
			e.logger.Warn("skipping photo in export", "order_id", o.ID, "filename", o.PhotoPath, "error", err)
			continue
		}

		// JPEG is already compressed.
		w, err := zw.CreateHeader(&zip.FileHeader{Name: photosDir + o.PhotoPath, Method: zip.Store})
		if err != nil {
			return count, err
		}
		if _, err := w.Write(data); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func writeAll[T any](zw *zip.Writer, path string, items []T) (int, error) {
	w, err := stream.NewWriter(zw, path)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		if err := w.Write(item); err != nil {
			return w.Count(), err
		}
	}
	return w.Count(), nil
}
