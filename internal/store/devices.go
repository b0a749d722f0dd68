package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/secretmenu/secretmenu-server/internal/domain"
)

// ErrDeviceNotFound is returned when a paired device does not exist.
var ErrDeviceNotFound = ErrNotFound.WithMessage("device not found")

// CreateDevice records a newly paired device.
func (s *Store) CreateDevice(ctx context.Context, d *domain.Device) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.ID == "" {
		return ErrInvalidInput.WithMessage("device id is required")
	}

	key := buildKey(prefixDevice, d.ID)
	defer releaseKey(key)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check device: %w", err)
	}
	if exists {
		return ErrAlreadyExists.WithMessage("device already paired")
	}

	if err := s.set(key, d); err != nil {
		return fmt.Errorf("save device: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("device paired", "device_id", d.ID, "name", d.Name)
	}
	return nil
}

// GetDevice returns a paired device by ID.
func (s *Store) GetDevice(ctx context.Context, id string) (*domain.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(prefixDevice, id)
	defer releaseKey(key)

	var d domain.Device
	if err := s.get(key, &d); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("get device: %w", err)
	}
	return &d, nil
}

// TouchDevice updates LastSeenAt. Missing devices are reported as not found.
func (s *Store) TouchDevice(ctx context.Context, id string, at time.Time) error {
	d, err := s.GetDevice(ctx, id)
	if err != nil {
		return err
	}
	d.LastSeenAt = at.UTC()

	key := buildKey(prefixDevice, id)
	defer releaseKey(key)
	return s.set(key, d)
}

// ListDevices returns all paired devices, oldest first.
func (s *Store) ListDevices(ctx context.Context) ([]*domain.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var devices []*domain.Device
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixDevice)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var d domain.Device
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &d)
			}); err != nil {
				return err
			}
			devices = append(devices, &d)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].CreatedAt.Before(devices[j].CreatedAt)
	})
	return devices, nil
}

// DeleteDevice unpairs a device.
func (s *Store) DeleteDevice(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildKey(prefixDevice, id)
	defer releaseKey(key)

	exists, err := s.exists(key)
	if err != nil {
		return err
	}
	if !exists {
		return ErrDeviceNotFound
	}
	return s.delete(key)
}
