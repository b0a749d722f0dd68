package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretmenu/secretmenu-server/internal/auth"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

func newDeviceService(t *testing.T) (*DeviceService, *store.Store) {
	t.Helper()
	devices, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = devices.Close() })

	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)
	code, err := auth.NewPairingCode("123456")
	require.NoError(t, err)

	return NewDeviceService(devices, tokens, code, nil, nil), devices
}

func TestPair_IssuesWorkingToken(t *testing.T) {
	svc, _ := newDeviceService(t)
	ctx := context.Background()

	res, err := svc.Pair(ctx, PairRequest{Code: "123456", Name: "Kitchen iPad", Platform: "iOS"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Kitchen iPad", res.Device.Name)

	device, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Device.ID, device.ID)

	devices, err := svc.ListDevices(ctx)
	require.NoError(t, err)
	assert.Len(t, devices, 1)
}

func TestPair_WrongCode(t *testing.T) {
	svc, _ := newDeviceService(t)

	_, err := svc.Pair(context.Background(), PairRequest{Code: "000000", Name: "Phone"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestPair_ValidatesName(t *testing.T) {
	svc, _ := newDeviceService(t)

	_, err := svc.Pair(context.Background(), PairRequest{Code: "123456", Name: "   "})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAuthenticate_RevokedDevice(t *testing.T) {
	svc, _ := newDeviceService(t)
	ctx := context.Background()

	res, err := svc.Pair(ctx, PairRequest{Code: "123456", Name: "Phone"})
	require.NoError(t, err)
	require.NoError(t, svc.RevokeDevice(ctx, res.Device.ID))

	_, err = svc.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	err = svc.RevokeDevice(ctx, res.Device.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAuthenticate_TouchesLastSeen(t *testing.T) {
	svc, devices := newDeviceService(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	res, err := svc.Pair(ctx, PairRequest{Code: "123456", Name: "Phone"})
	require.NoError(t, err)

	later := start.Add(10 * time.Minute)
	svc.now = func() time.Time { return later }
	_, err = svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)

	stored, err := devices.GetDevice(ctx, res.Device.ID)
	require.NoError(t, err)
	assert.True(t, stored.LastSeenAt.Equal(later))
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	svc, _ := newDeviceService(t)

	_, err := svc.Authenticate(context.Background(), "v4.local.garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
