package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/secretmenu/secretmenu-server/internal/backup/stream"
	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/media/images"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

// Sink receives restored entities.
type Sink interface {
	CreatePlace(ctx context.Context, p *domain.Place) error
	CreateOrder(ctx context.Context, o *domain.Order) error
	CreateTag(ctx context.Context, t *domain.Tag) error
	DeleteAll(ctx context.Context) error
}

// PhotoWriter stores restored photo bytes under their original file name.
type PhotoWriter interface {
	Save(filename string, data []byte) error
}

// Restorer restores archives written by Exporter.
type Restorer struct {
	dst    Sink
	photos PhotoWriter
	logger *slog.Logger
}

// NewRestorer creates a Restorer. photos may be nil to skip photo files.
func NewRestorer(dst Sink, photos PhotoWriter, logger *slog.Logger) *Restorer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Restorer{dst: dst, photos: photos, logger: logger}
}

// Restore reads the archive in r. Places are restored before orders so the
// foreign key holds; an order whose place is missing is reported and skipped.
func (r *Restorer) Restore(ctx context.Context, ra io.ReaderAt, size int64, opts RestoreOptions) (*RestoreResult, error) {
	start := time.Now()

	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, opts.Mode)
	}

	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	manifest, err := readManifest(zr)
	if err != nil {
		return nil, err
	}
	if manifest.Version != FormatVersion {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrVersionMismatch, manifest.Version, FormatVersion)
	}

	result := &RestoreResult{Manifest: manifest}

	if opts.Mode == RestoreModeFull && !opts.DryRun {
		if err := r.dst.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("clear existing data: %w", err)
		}
	}

	result.Imported.Places, result.Skipped.Places, err = restoreEntities(ctx, zr, placesPath, "place", opts,
		func(p *domain.Place) string { return p.ID },
		r.dst.CreatePlace, result)
	if err != nil {
		return nil, err
	}

	result.Imported.Tags, result.Skipped.Tags, err = restoreEntities(ctx, zr, tagsPath, "tag", opts,
		func(t *domain.Tag) string { return t.ID },
		r.dst.CreateTag, result)
	if err != nil {
		return nil, err
	}

	result.Imported.Orders, result.Skipped.Orders, err = restoreEntities(ctx, zr, ordersPath, "order", opts,
		func(o *domain.Order) string { return o.ID },
		r.dst.CreateOrder, result)
	if err != nil {
		return nil, err
	}

	if manifest.IncludesPhotos && r.photos != nil && !opts.DryRun {
		result.Imported.Photos = r.restorePhotos(ctx, zr, result)
	}

	result.Duration = time.Since(start)

	r.logger.Info("restore complete",
		"mode", opts.Mode,
		"dry_run", opts.DryRun,
		"places", result.Imported.Places,
		"orders", result.Imported.Orders,
		"tags", result.Imported.Tags,
		"photos", result.Imported.Photos,
		"errors", len(result.Errors),
	)
	return result, nil
}

func readManifest(zr *zip.Reader) (*Manifest, error) {
	rc, err := stream.OpenFile(zr, manifestPath)
	if err != nil {
		return nil, ErrInvalidManifest
	}
	defer rc.Close()

	var manifest Manifest
	if err := json.NewDecoder(rc).Decode(&manifest); err != nil {
		return nil, ErrInvalidManifest
	}
	return &manifest, nil
}

// restoreEntities streams one JSONL file into create. A missing file counts
// as empty. IDs that already exist are skipped.
func restoreEntities[T any](
	ctx context.Context,
	zr *zip.Reader,
	file, entityType string,
	opts RestoreOptions,
	idOf func(*T) string,
	create func(context.Context, *T) error,
	result *RestoreResult,
) (imported, skipped int, err error) {
	rc, err := stream.OpenFile(zr, file)
	if errors.Is(err, stream.ErrFileNotFound) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}

	for entity, err := range stream.NewReader[T](rc).All() {
		if ctx.Err() != nil {
			return imported, skipped, ctx.Err()
		}
		if err != nil {
			result.Errors = append(result.Errors, RestoreError{EntityType: entityType, Error: err.Error()})
			continue
		}
		if opts.DryRun {
			imported++
			continue
		}

		switch err := create(ctx, &entity); {
		case err == nil:
			imported++
		case errors.Is(err, store.ErrAlreadyExists):
			skipped++
		default:
			result.Errors = append(result.Errors, RestoreError{
				EntityType: entityType,
				EntityID:   idOf(&entity),
				Error:      err.Error(),
			})
		}
	}
	return imported, skipped, nil
}

func (r *Restorer) restorePhotos(ctx context.Context, zr *zip.Reader, result *RestoreResult) int {
	count := 0
	for _, f := range zr.File {
		if ctx.Err() != nil {
			return count
		}
		if !strings.HasPrefix(f.Name, photosDir) || f.FileInfo().IsDir() {
			continue
		}

		filename := path.Base(f.Name)
		if err := r.restorePhoto(f, filename); err != nil {
			result.Errors = append(result.Errors, RestoreError{EntityType: "photo", EntityID: filename, Error: err.Error()})
			continue
		}
		count++
	}
	return count
}

func (r *Restorer) restorePhoto(f *zip.File, filename string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, images.MaxPhotoBytes+1))
	if err != nil {
		return err
	}
	if len(data) > images.MaxPhotoBytes {
		return fmt.Errorf("photo exceeds %d bytes", images.MaxPhotoBytes)
	}
	return r.photos.Save(filename, data)
}
