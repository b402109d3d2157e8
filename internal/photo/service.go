package photo

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	contentdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/content"
)

// Upload is one file from the multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadResult reports the per-file outcome. Files fail independently: one
// bad upload never aborts the rest of the batch.
type UploadResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

type Service struct {
	repo      Repository
	converter *Converter
	urlPrefix string
	logger    *slog.Logger
}

// NewService serves converted images under urlPrefix, typically
// /public/images.
func NewService(repo Repository, converter *Converter, urlPrefix string, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		converter: converter,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		logger:    logger,
	}
}

// UploadImages pushes each file through the conversion pool and persists a
// gallery row per successful conversion.
func (s *Service) UploadImages(ctx context.Context, uploads []Upload) []UploadResult {
	results := make([]UploadResult, 0, len(uploads))
	pending := make([]chan ConvertResult, len(uploads))

	for i, up := range uploads {
		if !strings.HasPrefix(up.ContentType, "image/") {
			results = append(results, UploadResult{
				Filename: up.Filename,
				Status:   "failed",
				Error:    "not an image",
			})
			continue
		}

		resultCh, err := s.converter.Enqueue(up.Filename, up.Data)
		if err != nil {
			results = append(results, UploadResult{
				Filename: up.Filename,
				Status:   "failed",
				Error:    err.Error(),
			})
			continue
		}
		pending[i] = resultCh
	}

	for i, resultCh := range pending {
		if resultCh == nil {
			continue
		}

		select {
		case res := <-resultCh:
			if res.Err != nil {
				results = append(results, UploadResult{
					Filename: res.Filename,
					Status:   "failed",
					Error:    "conversion failed",
				})
				continue
			}

			url := s.urlPrefix + "/" + res.OutputName
			p := &contentdm.Photo{
				PublicID: uuid.NewString(),
				URL:      url,
			}
			if err := s.repo.Insert(ctx, p); err != nil {
				s.logger.Error("photo insert failed", "error", err, "url", url)
				results = append(results, UploadResult{
					Filename: res.Filename,
					Status:   "failed",
					Error:    "failed to save photo",
				})
				continue
			}

			results = append(results, UploadResult{
				Filename: res.Filename,
				URL:      url,
				Status:   "uploaded",
			})
		case <-ctx.Done():
			results = append(results, UploadResult{
				Filename: uploads[i].Filename,
				Status:   "failed",
				Error:    "request cancelled",
			})
		}
	}

	return results
}

// ListPhotos returns the latest gallery entries, newest first.
func (s *Service) ListPhotos(ctx context.Context, limit int) ([]contentdm.Photo, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.repo.ListLatest(ctx, limit)
}
