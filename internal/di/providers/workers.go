package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/secretmenu/secretmenu-server/internal/logger"
	"github.com/secretmenu/secretmenu-server/internal/service"
)

// PhotoSweepJob runs periodic cleanup of uploads never attached to an order.
type PhotoSweepJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *PhotoSweepJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvidePhotoSweepJob provides the periodic photo sweep job.
func ProvidePhotoSweepJob(i do.Injector) (*PhotoSweepJob, error) {
	sweeper := do.MustInvoke[*service.PhotoSweeper](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(photoSweepInterval)
		defer ticker.Stop()

		// Initial sweep on startup
		if count, err := sweeper.Sweep(ctx); err != nil {
			log.Warn("Initial photo sweep failed", "error", err)
		} else if count > 0 {
			log.Info("Initial photo sweep completed", "deleted", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := sweeper.Sweep(ctx); err != nil {
					log.Warn("Photo sweep failed", "error", err)
				} else if count > 0 {
					log.Info("Photo sweep completed", "deleted", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Photo sweep job started")

	return &PhotoSweepJob{cancel: cancel}, nil
}
