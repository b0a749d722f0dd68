package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/secretmenu/secretmenu-server/internal/config"
	"github.com/secretmenu/secretmenu-server/internal/logger"
	"github.com/secretmenu/secretmenu-server/internal/media/images"
)

// ProvidePhotoStorage provides the order photo storage.
func ProvidePhotoStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	photos, err := images.NewStorageWithSubdir(cfg.Data.BasePath, config.PhotosDir)
	if err != nil {
		return nil, fmt.Errorf("photo storage: %w", err)
	}

	log.Info("Photo storage initialized", "dir", photos.Dir())
	return photos, nil
}

// ProvideImageProcessor provides the photo processor.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	photos := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(photos, log.Component("images")), nil
}
