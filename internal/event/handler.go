package event

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/amala-code/new-admin-backend/internal"
	"github.com/amala-code/new-admin-backend/internal/transport"
)

const maxEventFormMemory = 10 << 20 // 10 MiB

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

// CreateEvent handles POST /create_event, a multipart form with an optional
// image file.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxEventFormMemory); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid multipart form", errors.ErrCodeValidationFailed))
		return
	}

	in := CreateEventInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		DateTime:    r.FormValue("date_time"),
		Location:    r.FormValue("location"),
		Category:    r.FormValue("category"),
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		in.Image = &ImageUpload{Filename: header.Filename, Content: file}
	}

	e, err := h.Service.CreateEvent(r.Context(), in)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Event created successfully",
		"event_id": e.PublicID,
	})
}

// AllEvents handles GET /all_events
func (h *Handler) AllEvents(w http.ResponseWriter, r *http.Request) {
	evts, err := h.Service.ListEvents(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	out := make([]map[string]interface{}, 0, len(evts))
	for _, e := range evts {
		out = append(out, map[string]interface{}{
			"id":          e.PublicID,
			"title":       e.Title,
			"description": e.Description,
			"date_time":   e.DateTime,
			"location":    e.Location,
			"category":    e.Category,
			"image":       e.Image,
		})
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": out})
}

// DeleteEvent handles DELETE /event/{event_id}
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "event_id")

	if err := h.Service.DeleteEvent(r.Context(), publicID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Event deleted successfully",
	})
}
