package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretmenu/secretmenu-server/internal/backup"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
)

func newExportService(h *harness) *ExportService {
	return NewExportService(
		h.premium,
		backup.NewExporter(h.entities, h.photos.Storage(), "test", nil),
		backup.NewRestorer(h.entities, h.photos.Storage(), nil),
		nil,
		nil,
	)
}

func TestExport_RequiresPremium(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	svc := newExportService(h)

	var buf bytes.Buffer
	_, err := svc.Export(h.ctx, &buf, backup.ExportOptions{})
	assert.ErrorIs(t, err, domainerrors.ErrLimitReached)
	assert.Zero(t, buf.Len())

	_, err = svc.Import(h.ctx, bytes.NewReader(nil), 0, backup.RestoreOptions{Mode: backup.RestoreModeMerge})
	assert.ErrorIs(t, err, domainerrors.ErrLimitReached)
}

func TestExportImport_RoundTrip(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	require.NoError(t, h.premium.SetPremium(h.ctx, true))
	svc := newExportService(h)

	place := h.mustPlace(t, "Starbucks")
	o := h.mustOrder(t, place.ID, "Pink Drink", "Iced")
	_, err := h.data.AttachPhoto(h.ctx, o.ID, pngBytes(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	m, err := svc.Export(h.ctx, &buf, backup.ExportOptions{IncludePhotos: true})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Counts.Orders)
	assert.Equal(t, 1, m.Counts.Photos)

	res, err := svc.Import(h.ctx, bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		backup.RestoreOptions{Mode: backup.RestoreModeFull})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported.Places)
	assert.Equal(t, 1, res.Imported.Orders)

	got, err := h.data.GetOrder(h.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pink Drink", got.Title)
	assert.True(t, h.photos.Exists(got.PhotoPath))
}

func TestImport_GarbageIsValidationError(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	require.NoError(t, h.premium.SetPremium(h.ctx, true))
	svc := newExportService(h)

	junk := []byte("definitely not a zip")
	_, err := svc.Import(h.ctx, bytes.NewReader(junk), int64(len(junk)), backup.RestoreOptions{Mode: backup.RestoreModeMerge})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
