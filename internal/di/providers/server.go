package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/secretmenu/secretmenu-server/internal/api"
	"github.com/secretmenu/secretmenu-server/internal/config"
	"github.com/secretmenu/secretmenu-server/internal/logger"
	"github.com/secretmenu/secretmenu-server/internal/media/images"
	"github.com/secretmenu/secretmenu-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable. The server is built
// here but started by the caller.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	entities := do.MustInvoke[*EntityStoreHandle](i)
	prefs := do.MustInvoke[*PreferenceStoreHandle](i)
	searchIndex := do.MustInvoke[*SearchIndexHandle](i)

	services := &api.Services{
		Data:     do.MustInvoke[*service.DataService](i),
		Tags:     do.MustInvoke[*service.TagService](i),
		Purchase: do.MustInvoke[*service.PurchaseService](i),
		Unlock:   do.MustInvoke[*service.UnlockService](i),
		Settings: do.MustInvoke[*service.SettingsService](i),
		Search:   do.MustInvoke[*service.SearchService](i),
		Export:   do.MustInvoke[*service.ExportService](i),
		Debug:    do.MustInvoke[*service.DebugService](i),
		Devices:  do.MustInvoke[*service.DeviceService](i),
		Photos:   do.MustInvoke[*images.Storage](i),
		Health: map[string]api.Pinger{
			"database":    entities,
			"preferences": prefs,
			"search": api.PingFunc(func(context.Context) error {
				_, err := searchIndex.DocumentCount()
				return err
			}),
		},
	}

	handler := api.NewServer(services, api.Options{
		Version:     Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		EnableDebug: cfg.App.Environment != "production",
	}, log.Component("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}
