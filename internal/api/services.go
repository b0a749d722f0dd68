package api

import (
	"github.com/secretmenu/secretmenu-server/internal/media/images"
	"github.com/secretmenu/secretmenu-server/internal/service"
)

// Services groups the business services used by the handlers.
type Services struct {
	Data     *service.DataService
	Tags     *service.TagService
	Purchase *service.PurchaseService
	Unlock   *service.UnlockService
	Settings *service.SettingsService
	Search   *service.SearchService // nil disables /search
	Export   *service.ExportService
	Debug    *service.DebugService
	Devices  *service.DeviceService

	// Photos serves stored photo files.
	Photos *images.Storage
	// Health checks, keyed by component name.
	Health map[string]Pinger
}
