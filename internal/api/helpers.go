package api

import (
	"io"
	"net/http"

	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
)

// MessageResponse is a simple acknowledgement.
type MessageResponse struct {
	Message string `json:"message" doc:"Result message"`
}

// MessageOutput wraps a message response for huma.
type MessageOutput struct {
	Body MessageResponse
}

func message(msg string) *MessageOutput {
	return &MessageOutput{Body: MessageResponse{Message: msg}}
}

// readUpload reads the multipart file field into memory, bounded by limit.
func readUpload(w http.ResponseWriter, r *http.Request, field string, limit int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, domainerrors.Validationf("no file uploaded, use the %q field of a multipart form", field)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, domainerrors.Validation("failed to read uploaded file")
	}
	if int64(len(data)) > limit {
		return nil, domainerrors.Validationf("file exceeds the %d MB limit", limit>>20)
	}
	return data, nil
}
