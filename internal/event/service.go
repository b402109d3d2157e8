package event

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	errors "github.com/amala-code/new-admin-backend/internal"
	contentdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/content"
)

// ImageUpload is an uploaded file handed down from the multipart handler.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// CreateEventInput carries the multipart form fields.
type CreateEventInput struct {
	Title       string
	Description string
	DateTime    string
	Location    string
	Category    string
	Image       *ImageUpload
}

func (in *CreateEventInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return errors.NewValidationFieldError("title", "title is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

type Service struct {
	repo     Repository
	imageDir string
	logger   *slog.Logger
}

// NewService stores event images under imageDir, typically
// static/images inside the served static tree.
func NewService(repo Repository, imageDir string, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		imageDir: imageDir,
		logger:   logger,
	}
}

// CreateEvent persists the event and, when an image is attached, writes it to
// the static image directory under a fresh uuid name.
func (s *Service) CreateEvent(ctx context.Context, in CreateEventInput) (*contentdm.Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = DefaultCategory
	}

	e := &contentdm.Event{
		PublicID:    uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		DateTime:    in.DateTime,
		Location:    in.Location,
		Category:    category,
	}

	if in.Image != nil {
		imagePath, err := s.saveImage(in.Image)
		if err != nil {
			s.logger.Error("event image save failed", "error", err, "filename", in.Image.Filename)
			return nil, errors.NewInternalError("failed to save event image", err)
		}
		e.Image = imagePath
	}

	if err := s.repo.Insert(ctx, e); err != nil {
		s.logger.Error("event insert failed", "error", err, "title", e.Title)
		return nil, errors.NewInternalError("failed to create event", err)
	}

	s.logger.Info("event created", "event_id", e.PublicID, "title", e.Title)
	return e, nil
}

func (s *Service) ListEvents(ctx context.Context) ([]contentdm.Event, error) {
	return s.repo.List(ctx)
}

func (s *Service) DeleteEvent(ctx context.Context, publicID string) error {
	err := s.repo.DeleteByPublicID(ctx, publicID)
	if err == ErrEventNotFound {
		return errors.NewNotFoundError("event not found", errors.ErrCodeEventNotFound)
	}
	return err
}

func (s *Service) saveImage(img *ImageUpload) (string, error) {
	if err := os.MkdirAll(s.imageDir, 0o755); err != nil {
		return "", err
	}

	ext := filepath.Ext(img.Filename)
	name := uuid.NewString() + ext
	dst := filepath.Join(s.imageDir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, img.Content); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write image: %w", err)
	}

	return filepath.ToSlash(dst), nil
}
