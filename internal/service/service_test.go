package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/media/images"
	"github.com/secretmenu/secretmenu-server/internal/premium"
	"github.com/secretmenu/secretmenu-server/internal/store"
	"github.com/secretmenu/secretmenu-server/internal/store/sqlite"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// harness wires the facade to real stores in a temp directory.
type harness struct {
	ctx      context.Context
	entities *sqlite.Store
	prefs    *store.Store
	clock    *fakeClock
	premium  *premium.Manager
	photos   *images.Processor
	data     *DataService
}

func newHarness(t *testing.T, policy DuplicatePolicy) *harness {
	t.Helper()
	return newHarnessWithPhotoLimit(t, policy, domain.DefaultFreePhotoLimit)
}

// newHarnessWithPhotoLimit turns on the optional free photo limit.
func newHarnessWithPhotoLimit(t *testing.T, policy DuplicatePolicy, photoLimit int) *harness {
	t.Helper()
	ctx := context.Background()

	entities, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = entities.Close() })

	prefs, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = prefs.Close() })

	clock := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	pm := premium.NewManager(prefs, premium.Options{
		FreePlaceLimit: domain.DefaultFreePlaceLimit,
		FreeOrderLimit: domain.DefaultFreeOrderLimit,
		FreePhotoLimit: photoLimit,
		Location:       time.UTC,
		Clock:          clock,
	})
	require.NoError(t, pm.Load(ctx))

	storage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)
	photos := images.NewProcessor(storage, nil)

	// Strictly increasing timestamps keep createdAt ordering deterministic.
	tick := clock.now
	now := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	data := NewDataService(entities, pm, DataOptions{
		DuplicatePlacePolicy: policy,
		Photos:               photos,
		Now:                  now,
	})

	return &harness{
		ctx:      ctx,
		entities: entities,
		prefs:    prefs,
		clock:    clock,
		premium:  pm,
		photos:   photos,
		data:     data,
	}
}

func (h *harness) mustPlace(t *testing.T, name string) *domain.Place {
	t.Helper()
	res := h.data.CreatePlace(h.ctx, name)
	require.Equal(t, ResultSuccess, res.Kind, "create place %q: %v", name, res.Err)
	return res.Place
}

func (h *harness) mustOrder(t *testing.T, placeID, title string, tags ...string) *domain.Order {
	t.Helper()
	res := h.data.CreateOrder(h.ctx, OrderInput{PlaceID: placeID, Title: title, Tags: tags})
	require.Equal(t, ResultSuccess, res.Kind, "create order %q: %v", title, res.Err)
	return res.Order
}

func (h *harness) uploadPhoto(t *testing.T) *images.SavedPhoto {
	t.Helper()
	saved, err := h.data.UploadPhoto(h.ctx, pngBytes(t))
	require.NoError(t, err)
	return saved
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		for y := range 8 {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
