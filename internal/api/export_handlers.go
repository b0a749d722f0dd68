package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/secretmenu/secretmenu-server/internal/backup"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/http/response"
)

// maxArchiveBytes bounds an uploaded import archive.
const maxArchiveBytes = 512 << 20

// registerExportRoutes wires archive export and import. Both stream files,
// so they bypass huma.
func (s *Server) registerExportRoutes() {
	s.router.With(s.requireAuth).Get("/api/v1/export", s.handleExport)
	s.router.With(s.requireAuth).Post("/api/v1/import", s.handleImport)
}

// archiveWriter sets the download headers on the first write, so errors
// raised before any archive bytes exist can still be sent as JSON.
type archiveWriter struct {
	w        http.ResponseWriter
	filename string
	started  bool
}

func (a *archiveWriter) Write(p []byte) (int, error) {
	if !a.started {
		a.started = true
		h := a.w.Header()
		h.Set("Content-Type", "application/zip")
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.filename))
		h.Set("Cache-Control", CacheNoStore)
		a.w.WriteHeader(http.StatusOK)
	}
	return a.w.Write(p)
}

// handleExport streams a zip archive of all places, orders and tags.
// GET /api/v1/export?photos=true
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	includePhotos := true
	if v := r.URL.Query().Get("photos"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "photos must be true or false", s.logger)
			return
		}
		includePhotos = b
	}

	aw := &archiveWriter{
		w:        w,
		filename: "secretmenu-" + time.Now().UTC().Format("20060102-150405") + ".zip",
	}
	m, err := s.services.Export.Export(r.Context(), aw, backup.ExportOptions{IncludePhotos: includePhotos})
	if err != nil {
		if !aw.started {
			response.Error(w, err, s.logger)
			return
		}
		// Headers are gone; the client sees a truncated archive.
		s.logger.Error("export failed mid-stream", "error", err)
		return
	}

	s.logger.Info("export complete",
		"places", m.Counts.Places,
		"orders", m.Counts.Orders,
		"tags", m.Counts.Tags,
	)
}

// handleImport restores an uploaded archive.
// POST /api/v1/import?mode=full|merge&dry_run=true, multipart form with an
// "archive" field.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode := backup.RestoreMode(q.Get("mode"))
	if mode == "" {
		mode = backup.RestoreModeMerge
	}
	if !mode.Valid() {
		response.BadRequest(w, "mode must be full or merge", s.logger)
		return
	}

	var dryRun bool
	if v := q.Get("dry_run"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "dry_run must be true or false", s.logger)
			return
		}
		dryRun = b
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxArchiveBytes+1<<20)
	file, _, err := r.FormFile("archive")
	if err != nil {
		response.Error(w, domainerrors.Validation(`no archive uploaded, use the "archive" field of a multipart form`), s.logger)
		return
	}
	defer file.Close()

	// zip needs random access, so spool the upload to disk.
	tmp, err := os.CreateTemp("", "secretmenu-import-*.zip")
	if err != nil {
		response.Error(w, domainerrors.Internal("create temp file").WithCause(err), s.logger)
		return
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, file)
	if err != nil {
		response.Error(w, domainerrors.Validation("failed to read uploaded archive").WithCause(err), s.logger)
		return
	}

	res, err := s.services.Export.Import(r.Context(), tmp, size, backup.RestoreOptions{Mode: mode, DryRun: dryRun})
	if err != nil {
		response.Error(w, err, s.logger)
		return
	}
	response.Success(w, res, s.logger)
}
