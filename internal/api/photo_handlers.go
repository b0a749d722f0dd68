package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/secretmenu/secretmenu-server/internal/http/response"
	"github.com/secretmenu/secretmenu-server/internal/id"
	"github.com/secretmenu/secretmenu-server/internal/media/images"
)

const photoRoutePrefix = "/api/v1/photos/"

// photoURL is where a stored photo file is served from.
func photoURL(filename string) string {
	return photoRoutePrefix + filename
}

// registerPhotoRoutes wires photo uploads and downloads. Uploads and file
// serving use chi directly since huma does not stream multipart or raw bytes.
func (s *Server) registerPhotoRoutes() {
	s.router.With(s.requireAuth).Post("/api/v1/photos", s.handleUploadPhoto)
	s.router.With(s.requireAuth).Get(photoRoutePrefix+"{filename}", s.handleServePhoto)
	s.router.With(s.requireAuth).Put("/api/v1/orders/{id}/photo", s.handleAttachPhoto)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeOrderPhoto",
		Method:      http.MethodDelete,
		Path:        "/api/v1/orders/{id}/photo",
		Summary:     "Remove order photo",
		Description: "Detaches and deletes the photo of an order",
		Tags:        []string{"Photos"},
		Security:    bearerSecurity,
	}, s.handleRemovePhoto)
}

// UploadPhotoResponse identifies a stored photo.
type UploadPhotoResponse struct {
	Filename string `json:"filename"`
	BlurHash string `json:"blur_hash,omitempty"`
	URL      string `json:"url"`
}

// handleUploadPhoto stores a photo for a later createOrder call.
// POST /api/v1/photos, multipart form with a "file" field.
func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(w, r, "file", images.MaxPhotoBytes)
	if err != nil {
		response.Error(w, err, s.logger)
		return
	}

	saved, err := s.services.Data.UploadPhoto(r.Context(), data)
	if err != nil {
		response.Error(w, err, s.logger)
		return
	}

	response.Created(w, UploadPhotoResponse{
		Filename: saved.Filename,
		BlurHash: saved.BlurHash,
		URL:      photoURL(saved.Filename),
	}, s.logger)
}

// handleAttachPhoto replaces the photo of an order.
// PUT /api/v1/orders/{id}/photo, multipart form with a "file" field.
func (s *Server) handleAttachPhoto(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	data, err := readUpload(w, r, "file", images.MaxPhotoBytes)
	if err != nil {
		response.Error(w, err, s.logger)
		return
	}

	order, err := s.services.Data.AttachPhoto(r.Context(), orderID, data)
	if err != nil {
		response.Error(w, err, s.logger)
		return
	}
	response.Success(w, toOrderResponse(order), s.logger)
}

// handleServePhoto streams a stored photo.
func (s *Server) handleServePhoto(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if !id.IsPhotoFilename(filename) {
		response.NotFound(w, "photo not found", s.logger)
		return
	}
	if s.services.Photos == nil {
		response.NotFound(w, "photo not found", s.logger)
		return
	}

	data, err := s.services.Photos.Get(filename)
	if err != nil {
		response.NotFound(w, "photo not found", s.logger)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", CachePrivateOneDay)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("failed to write photo", "filename", filename, "error", err)
	}
}

func (s *Server) handleRemovePhoto(ctx context.Context, input *OrderIDInput) (*OrderOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	o, err := s.services.Data.RemovePhoto(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &OrderOutput{Body: toOrderResponse(o)}, nil
}
