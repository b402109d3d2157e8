package news

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	errors "github.com/amala-code/new-admin-backend/internal"
	contentdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/content"
)

type CreateNewsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DateTime    string `json:"date_time"`
	Location    string `json:"location"`
	Category    string `json:"category"`
}

func (r *CreateNewsRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.NewValidationFieldError("title", "title is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateNews(ctx context.Context, req CreateNewsRequest) (*contentdm.News, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	n := &contentdm.News{
		PublicID:    uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		DateTime:    req.DateTime,
		Location:    req.Location,
		Category:    req.Category,
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		s.logger.Error("news insert failed", "error", err, "title", n.Title)
		return nil, errors.NewInternalError("failed to create news", err)
	}

	s.logger.Info("news created", "news_id", n.PublicID, "title", n.Title)
	return n, nil
}

func (s *Service) ListNews(ctx context.Context) ([]contentdm.News, error) {
	return s.repo.List(ctx)
}
