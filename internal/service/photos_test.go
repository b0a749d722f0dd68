package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
)

func TestCreateOrder_WithUploadedPhoto(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	place := h.mustPlace(t, "Starbucks")
	saved := h.uploadPhoto(t)

	res := h.data.CreateOrder(h.ctx, OrderInput{
		PlaceID:       place.ID,
		Title:         "Pink Drink",
		PhotoPath:     saved.Filename,
		PhotoBlurHash: saved.BlurHash,
	})
	require.Equal(t, ResultSuccess, res.Kind, "%v", res.Err)
	assert.True(t, res.Order.HasPhoto())
	assert.NotEmpty(t, res.Order.PhotoBlurHash)
}

func TestCreateOrder_PhotosNotLimitedByDefault(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	place := h.mustPlace(t, "Starbucks")

	// Every free order may carry a photo; only the order limit applies.
	for i := range 5 {
		saved := h.uploadPhoto(t)
		res := h.data.CreateOrder(h.ctx, OrderInput{PlaceID: place.ID, Title: fmt.Sprintf("p%d", i), PhotoPath: saved.Filename})
		require.Equal(t, ResultSuccess, res.Kind, "order %d: %v", i, res.Err)
	}

	saved := h.uploadPhoto(t)
	res := h.data.CreateOrder(h.ctx, OrderInput{PlaceID: place.ID, Title: "sixth", PhotoPath: saved.Filename})
	assert.Equal(t, ResultLimitReached, res.Kind)
}

func TestCreateOrder_ConfiguredPhotoLimit(t *testing.T) {
	h := newHarnessWithPhotoLimit(t, DuplicateReport, 3)
	place := h.mustPlace(t, "Starbucks")

	for i := range 3 {
		saved := h.uploadPhoto(t)
		res := h.data.CreateOrder(h.ctx, OrderInput{PlaceID: place.ID, Title: fmt.Sprintf("p%d", i), PhotoPath: saved.Filename})
		require.Equal(t, ResultSuccess, res.Kind, "%v", res.Err)
	}

	saved := h.uploadPhoto(t)
	res := h.data.CreateOrder(h.ctx, OrderInput{PlaceID: place.ID, Title: "fourth", PhotoPath: saved.Filename})
	assert.Equal(t, ResultLimitReached, res.Kind)
	assert.ErrorIs(t, res.AsError(), domainerrors.ErrLimitReached)

	// Without a photo the order still fits under the order limit.
	h.mustOrder(t, place.ID, "fourth")
}

func TestAttachPhoto_ReplaceDoesNotCountTwice(t *testing.T) {
	h := newHarnessWithPhotoLimit(t, DuplicateReport, 3)
	place := h.mustPlace(t, "Starbucks")

	var orders []string
	for i := range 4 {
		orders = append(orders, h.mustOrder(t, place.ID, fmt.Sprintf("o%d", i)).ID)
	}

	var first string
	for i := range 3 {
		o, err := h.data.AttachPhoto(h.ctx, orders[i], pngBytes(t))
		require.NoError(t, err)
		if i == 0 {
			first = o.PhotoPath
		}
	}

	_, err := h.data.AttachPhoto(h.ctx, orders[3], pngBytes(t))
	assert.ErrorIs(t, err, domainerrors.ErrLimitReached)
	files, err := h.photos.Storage().StaleFiles(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, files, 3, "a rejected photo must not stay on disk")

	replaced, err := h.data.AttachPhoto(h.ctx, orders[0], pngBytes(t))
	require.NoError(t, err)
	assert.NotEqual(t, first, replaced.PhotoPath)
	assert.False(t, h.photos.Exists(first), "old photo file should be removed")
	assert.True(t, h.photos.Exists(replaced.PhotoPath))
}

func TestRemovePhoto(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	place := h.mustPlace(t, "Starbucks")
	o := h.mustOrder(t, place.ID, "Latte")

	withPhoto, err := h.data.AttachPhoto(h.ctx, o.ID, pngBytes(t))
	require.NoError(t, err)
	filename := withPhoto.PhotoPath

	cleared, err := h.data.RemovePhoto(h.ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, cleared.HasPhoto())
	assert.False(t, h.photos.Exists(filename))

	again, err := h.data.RemovePhoto(h.ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, again.HasPhoto())
}

func TestDeleteOrder_RemovesPhotoFile(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	place := h.mustPlace(t, "Starbucks")
	o := h.mustOrder(t, place.ID, "Latte")

	withPhoto, err := h.data.AttachPhoto(h.ctx, o.ID, pngBytes(t))
	require.NoError(t, err)

	require.NoError(t, h.data.DeleteOrder(h.ctx, o.ID))
	assert.False(t, h.photos.Exists(withPhoto.PhotoPath))
	assert.ErrorIs(t, h.data.DeleteOrder(h.ctx, o.ID), domainerrors.ErrNotFound)
}

func TestDeletePlace_RemovesOrderPhotos(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	place := h.mustPlace(t, "Starbucks")
	o := h.mustOrder(t, place.ID, "Latte")

	withPhoto, err := h.data.AttachPhoto(h.ctx, o.ID, pngBytes(t))
	require.NoError(t, err)

	require.NoError(t, h.data.DeletePlace(h.ctx, place.ID))
	assert.False(t, h.photos.Exists(withPhoto.PhotoPath))
}

func TestUploadPhoto_RejectsGarbage(t *testing.T) {
	h := newHarness(t, DuplicateReport)

	_, err := h.data.UploadPhoto(h.ctx, []byte("not an image"))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestPhotos_Unconfigured(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	data := NewDataService(h.entities, h.premium, DataOptions{})

	_, err := data.UploadPhoto(h.ctx, pngBytes(t))
	assert.ErrorIs(t, err, domainerrors.ErrUnavailable)
}

func TestUpdateOrder_PhotoPath(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	place := h.mustPlace(t, "Starbucks")
	o := h.mustOrder(t, place.ID, "Latte")

	first := h.uploadPhoto(t)
	updated, err := h.data.UpdateOrder(h.ctx, o.ID, OrderUpdate{
		PhotoPath:     &first.Filename,
		PhotoBlurHash: &first.BlurHash,
	})
	require.NoError(t, err)
	assert.Equal(t, first.Filename, updated.PhotoPath)
	assert.Equal(t, first.BlurHash, updated.PhotoBlurHash)
	assert.Equal(t, "Latte", updated.Title)

	second := h.uploadPhoto(t)
	updated, err = h.data.UpdateOrder(h.ctx, o.ID, OrderUpdate{PhotoPath: &second.Filename})
	require.NoError(t, err)
	assert.Equal(t, second.Filename, updated.PhotoPath)
	assert.Empty(t, updated.PhotoBlurHash)
	assert.False(t, h.photos.Exists(first.Filename), "replaced photo file should be removed")

	got, err := h.data.GetOrder(h.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Filename, got.PhotoPath)

	none := ""
	updated, err = h.data.UpdateOrder(h.ctx, o.ID, OrderUpdate{PhotoPath: &none})
	require.NoError(t, err)
	assert.False(t, updated.HasPhoto())
	assert.False(t, h.photos.Exists(second.Filename))
}

func TestUpdateOrder_PhotoPathRejected(t *testing.T) {
	h := newHarness(t, DuplicateReport)
	place := h.mustPlace(t, "Starbucks")
	o := h.mustOrder(t, place.ID, "Latte")

	for _, name := range []string{"../escape.jpg", "3f1c2b8e-0d7a-4b51-9a44-5f0f1e7c9b21.jpg"} {
		_, err := h.data.UpdateOrder(h.ctx, o.ID, OrderUpdate{PhotoPath: &name})
		assert.ErrorIs(t, err, domainerrors.ErrValidation, name)
	}

	got, err := h.data.GetOrder(h.ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, got.HasPhoto())
}

func TestUpdateOrder_PhotoSkipsLimitCheck(t *testing.T) {
	h := newHarnessWithPhotoLimit(t, DuplicateReport, 1)
	place := h.mustPlace(t, "Starbucks")
	withPhoto := h.mustOrder(t, place.ID, "one")
	plain := h.mustOrder(t, place.ID, "two")

	_, err := h.data.AttachPhoto(h.ctx, withPhoto.ID, pngBytes(t))
	require.NoError(t, err)

	saved := h.uploadPhoto(t)
	updated, err := h.data.UpdateOrder(h.ctx, plain.ID, OrderUpdate{PhotoPath: &saved.Filename})
	require.NoError(t, err)
	assert.Equal(t, saved.Filename, updated.PhotoPath)
}
