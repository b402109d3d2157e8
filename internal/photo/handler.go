package photo

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	errors "github.com/amala-code/new-admin-backend/internal"
	"github.com/amala-code/new-admin-backend/internal/transport"
)

const maxUploadMemory = 32 << 20 // 32 MiB

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     svc,
	}
}

// UploadImages handles POST /upload-images, a multipart form with one or more
// files under the "files" field.
func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid multipart form", errors.ErrCodeValidationFailed))
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		h.HandleError(w, errors.NewValidationError("no files provided", errors.ErrCodeInvalidUpload))
		return
	}

	uploads := make([]Upload, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			uploads = append(uploads, Upload{Filename: header.Filename})
			continue
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			uploads = append(uploads, Upload{Filename: header.Filename})
			continue
		}

		uploads = append(uploads, Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	results := h.Service.UploadImages(r.Context(), uploads)

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// Photos handles GET /api/content/photos
func (h *Handler) Photos(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	photos, err := h.Service.ListPhotos(r.Context(), limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	out := make([]map[string]interface{}, 0, len(photos))
	for _, p := range photos {
		out = append(out, map[string]interface{}{
			"id":         p.PublicID,
			"url":        p.URL,
			"created_at": p.CreatedAt,
		})
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"photos": out})
}
