package service

import (
	"context"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/entitlement"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/media/images"
)

// UploadPhoto stores photo bytes and returns the generated file name, to be
// passed as OrderInput.PhotoPath. Storing a file does not count against the
// photo limit; attaching it to an order does.
func (s *DataService) UploadPhoto(ctx context.Context, data []byte) (*images.SavedPhoto, error) {
	if s.photos == nil {
		return nil, domainerrors.Unavailable("photo storage is not configured")
	}
	saved, err := s.photos.SavePhoto(ctx, data)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domainerrors.Validation("could not store photo").WithCause(err)
	}
	return saved, nil
}

// AttachPhoto stores data as the order's photo, replacing any previous one.
// Replacing a photo does not change how many orders carry one, so only
// orders without a photo are checked against the limit.
//
// The image is processed before createMu is taken; the saved file is
// removed again if the order cannot take it.
func (s *DataService) AttachPhoto(ctx context.Context, orderID string, data []byte) (*domain.Order, error) {
	saved, err := s.UploadPhoto(ctx, data)
	if err != nil {
		return nil, err
	}

	order, err := s.attachSaved(ctx, orderID, saved)
	if err != nil {
		s.deletePhotos(saved.Filename)
		return nil, err
	}

	s.logger.Info("photo attached", "order_id", order.ID, "filename", saved.Filename)
	return order, nil
}

func (s *DataService) attachSaved(ctx context.Context, orderID string, saved *images.SavedPhoto) (*domain.Order, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	order, err := s.entities.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.storeError(err, "get order")
	}

	if !order.HasPhoto() {
		reached, err := s.photoLimitReached(ctx, s.premium.IsPremium())
		if err != nil {
			return nil, err
		}
		if reached {
			return nil, domainerrors.LimitReachedf("free photo limit of %d reached", s.premium.FreePhotoLimit())
		}
	}

	previous := order.PhotoPath
	order.PhotoPath = saved.Filename
	order.PhotoBlurHash = saved.BlurHash
	if err := s.entities.UpdateOrder(ctx, order); err != nil {
		return nil, s.storeError(err, "update order")
	}

	s.deletePhotos(previous)
	s.reindexOrder(ctx, order)
	return order, nil
}

// RemovePhoto detaches and deletes the order's photo. Removing a photo that
// is not there is a no-op.
func (s *DataService) RemovePhoto(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.entities.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.storeError(err, "get order")
	}
	if !order.HasPhoto() {
		return order, nil
	}

	previous := order.PhotoPath
	order.PhotoPath = ""
	order.PhotoBlurHash = ""
	if err := s.entities.UpdateOrder(ctx, order); err != nil {
		return nil, s.storeError(err, "update order")
	}

	s.deletePhotos(previous)
	s.reindexOrder(ctx, order)
	return order, nil
}

// photoLimitReached reports whether one more order with a photo would
// exceed the free allowance. The limit is off when it is zero. Callers hold
// createMu.
func (s *DataService) photoLimitReached(ctx context.Context, isPremium bool) (bool, error) {
	limit := s.premium.FreePhotoLimit()
	if isPremium || limit <= 0 {
		return false, nil
	}
	withPhotos, err := s.entities.CountOrdersWithPhotos(ctx)
	if err != nil {
		return false, s.storeError(err, "count photos")
	}
	if !entitlement.CanAttachPhoto(false, withPhotos, limit) {
		s.logger.Info("photo limit reached", "count", withPhotos, "limit", limit)
		return true, nil
	}
	return false, nil
}
