package news

import (
	"encoding/json"
	"log/slog"
	"net/http"

	errors "github.com/amala-code/new-admin-backend/internal"
	"github.com/amala-code/new-admin-backend/internal/transport"
)

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

// CreateNews handles POST /create_news
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var req CreateNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	n, err := h.Service.CreateNews(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "News created successfully",
		"news_id": n.PublicID,
	})
}

// AllNews handles GET /all_news
func (h *Handler) AllNews(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListNews(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	out := make([]map[string]interface{}, 0, len(items))
	for _, n := range items {
		out = append(out, map[string]interface{}{
			"id":          n.PublicID,
			"title":       n.Title,
			"description": n.Description,
			"date_time":   n.DateTime,
			"location":    n.Location,
			"category":    n.Category,
		})
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"news": out})
}
