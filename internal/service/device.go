package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/secretmenu/secretmenu-server/internal/auth"
	"github.com/secretmenu/secretmenu-server/internal/domain"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/id"
	"github.com/secretmenu/secretmenu-server/internal/store"
	"github.com/secretmenu/secretmenu-server/internal/validation"
)

// touchInterval bounds how often LastSeenAt is rewritten for a busy device.
const touchInterval = time.Minute

// DeviceStore persists paired devices.
type DeviceStore interface {
	CreateDevice(ctx context.Context, d *domain.Device) error
	GetDevice(ctx context.Context, id string) (*domain.Device, error)
	TouchDevice(ctx context.Context, id string, at time.Time) error
	ListDevices(ctx context.Context) ([]*domain.Device, error)
	DeleteDevice(ctx context.Context, id string) error
}

// PairRequest is what a new device sends to be paired.
type PairRequest struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"notblank,max=100"`
	Platform string `json:"platform,omitempty" validate:"max=50"`
}

// PairResult carries the device record and its bearer token.
type PairResult struct {
	Device    *domain.Device `json:"device"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// DeviceService pairs devices and authenticates their tokens.
type DeviceService struct {
	devices   DeviceStore
	tokens    *auth.TokenService
	code      *auth.PairingCode
	validator *validation.Validator
	now       func() time.Time
	logger    *slog.Logger
}

// NewDeviceService creates a new device service.
func NewDeviceService(devices DeviceStore, tokens *auth.TokenService, code *auth.PairingCode, v *validation.Validator, logger *slog.Logger) *DeviceService {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DeviceService{
		devices:   devices,
		tokens:    tokens,
		code:      code,
		validator: v,
		now:       time.Now,
		logger:    logger,
	}
}

// PairingCode returns the code an operator reads off the server log.
func (s *DeviceService) PairingCode() string {
	return s.code.Current()
}

// Pair redeems the pairing code, records the device and issues its token.
func (s *DeviceService) Pair(ctx context.Context, req PairRequest) (*PairResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	ok, err := s.code.Redeem(req.Code)
	if err != nil {
		return nil, domainerrors.Internal("redeem pairing code").WithCause(err)
	}
	if !ok {
		s.logger.Warn("pairing rejected", "name", req.Name)
		return nil, domainerrors.InvalidCredentials("invalid pairing code")
	}

	deviceID, err := id.Generate(id.PrefixDevice)
	if err != nil {
		return nil, domainerrors.Internal("generate device id").WithCause(err)
	}
	now := s.now().UTC()
	device := &domain.Device{
		ID:         deviceID,
		Name:       req.Name,
		Platform:   req.Platform,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.devices.CreateDevice(ctx, device); err != nil {
		return nil, mapStoreError(s.logger, err, "create device")
	}

	token, expires, err := s.tokens.Generate(device)
	if err != nil {
		return nil, domainerrors.Internal("issue device token").WithCause(err)
	}

	s.logger.Info("device paired", "device_id", device.ID, "platform", device.Platform)
	return &PairResult{Device: device, Token: token, ExpiresAt: expires}, nil
}

// Authenticate verifies a bearer token and returns its device. Tokens of
// unpaired devices are rejected even when still cryptographically valid.
func (s *DeviceService) Authenticate(ctx context.Context, token string) (*domain.Device, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token")
	}

	device, err := s.devices.GetDevice(ctx, claims.DeviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("device is no longer paired")
		}
		return nil, mapStoreError(s.logger, err, "get device")
	}

	now := s.now()
	if now.Sub(device.LastSeenAt) >= touchInterval {
		if err := s.devices.TouchDevice(ctx, device.ID, now); err != nil {
			s.logger.Debug("failed to touch device", "device_id", device.ID, "error", err)
		} else {
			device.LastSeenAt = now.UTC()
		}
	}
	return device, nil
}

// ListDevices returns all paired devices.
func (s *DeviceService) ListDevices(ctx context.Context) ([]*domain.Device, error) {
	devices, err := s.devices.ListDevices(ctx)
	if err != nil {
		return nil, mapStoreError(s.logger, err, "list devices")
	}
	if devices == nil {
		devices = []*domain.Device{}
	}
	return devices, nil
}

// RevokeDevice unpairs a device; its tokens stop working immediately.
func (s *DeviceService) RevokeDevice(ctx context.Context, deviceID string) error {
	if err := s.devices.DeleteDevice(ctx, deviceID); err != nil {
		return mapStoreError(s.logger, err, "delete device")
	}
	s.logger.Info("device revoked", "device_id", deviceID)
	return nil
}
