package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"

	"github.com/secretmenu/secretmenu-server/internal/id"
)

// MaxPhotoBytes caps accepted uploads.
const MaxPhotoBytes = 10 << 20

// jpegQuality matches what phone cameras typically produce.
const jpegQuality = 85

// SavedPhoto describes a stored photo.
type SavedPhoto struct {
	Filename string
	BlurHash string
	Hash     string
}

// Processor validates uploaded photos and writes them to storage as JPEG.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Processor{
		storage: storage,
		logger:  logger,
	}
}

// Storage returns the underlying file storage.
func (p *Processor) Storage() *Storage { return p.storage }

// SavePhoto decodes data (JPEG, PNG, GIF or WebP), stores it under a fresh
// UUID.jpg name and returns the name with its BlurHash. Non-JPEG input is
// re-encoded so the stored bytes match the extension. A failed BlurHash is
// logged and left empty; the photo is still saved.
func (p *Processor) SavePhoto(ctx context.Context, data []byte) (*SavedPhoto, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image data cannot be empty")
	}
	if len(data) > MaxPhotoBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", MaxPhotoBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if format != "jpeg" {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		data = buf.Bytes()
	}

	filename := id.PhotoFilename()
	if err := p.storage.Save(filename, data); err != nil {
		return nil, err
	}

	blurHash, err := blurHashFromImage(img)
	if err != nil {
		p.logger.Warn("failed to compute photo blurhash", "filename", filename, "error", err)
	}

	hash, err := p.storage.Hash(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to compute photo hash: %w", err)
	}

	p.logger.Debug("photo saved",
		"filename", filename,
		"source_format", format,
		"size", len(data),
		"hash", hash[:8]+"...",
	)

	return &SavedPhoto{Filename: filename, BlurHash: blurHash, Hash: hash}, nil
}

// Exists reports whether a photo file is stored.
func (p *Processor) Exists(filename string) bool {
	return p.storage.Exists(filename)
}

// DeletePhoto removes a stored photo, logging instead of failing. Used when
// orders are deleted; a leftover file is harmless.
func (p *Processor) DeletePhoto(filename string) {
	if filename == "" {
		return
	}
	if err := p.storage.Delete(filename); err != nil {
		p.logger.Warn("failed to delete photo", "filename", filename, "error", err)
	}
}
