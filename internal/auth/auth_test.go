package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretmenu/secretmenu-server/internal/domain"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	return key
}

func TestLoadOrGenerateKey_Persists(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, keyLength)

	info, err := os.Stat(filepath.Join(dir, keyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadOrGenerateKey_RejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), []byte("abc"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.ErrorContains(t, err, "invalid auth key length")

	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), []byte(strings.Repeat("zz", 32)), 0o600))
	_, err = LoadOrGenerateKey(dir)
	assert.ErrorContains(t, err, "not valid hex")
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService([]byte("short"), time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(testKey(t), 0)
	assert.Error(t, err)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(testKey(t), time.Hour)
	require.NoError(t, err)

	device := &domain.Device{ID: "device-abc", Name: "Kitchen iPad"}
	token, expires, err := svc.Generate(device)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "device-abc", claims.DeviceID)
	assert.Equal(t, "Kitchen iPad", claims.Name)
	assert.Equal(t, "device-abc", claims.Subject)
	assert.True(t, strings.HasPrefix(claims.TokenID, "token-"))
}

func TestTokenService_Expired(t *testing.T) {
	svc, err := NewTokenService(testKey(t), time.Hour)
	require.NoError(t, err)

	issued := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	token, _, err := svc.Generate(&domain.Device{ID: "device-abc"})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongKey(t *testing.T) {
	a, err := NewTokenService(testKey(t), time.Hour)
	require.NoError(t, err)
	b, err := NewTokenService(testKey(t), time.Hour)
	require.NoError(t, err)

	token, _, err := a.Generate(&domain.Device{ID: "device-abc"})
	require.NoError(t, err)

	_, err = b.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPairingCode_RandomRotates(t *testing.T) {
	p, err := NewPairingCode("")
	require.NoError(t, err)

	code := p.Current()
	assert.Len(t, code, pairingCodeDigits)

	ok, err := p.Redeem("not-it")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, code, p.Current(), "a wrong guess keeps the code")

	ok, err = p.Redeem(code)
	require.NoError(t, err)
	assert.True(t, ok)

	// The used code cannot be replayed unless rotation happened to repeat it.
	if p.Current() != code {
		ok, err = p.Redeem(code)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestPairingCode_FixedNeverRotates(t *testing.T) {
	p, err := NewPairingCode("424242")
	require.NoError(t, err)

	for range 3 {
		ok, err := p.Redeem("424242")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, "424242", p.Current())
}
