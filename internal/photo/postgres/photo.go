package postgres

import (
	"context"

	"gorm.io/gorm"

	contentdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/content"
	"github.com/amala-code/new-admin-backend/internal/photo"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) photo.Repository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) Insert(ctx context.Context, p *contentdm.Photo) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PhotoRepository) ListLatest(ctx context.Context, limit int) ([]contentdm.Photo, error) {
	var photos []contentdm.Photo
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&photos).Error
	return photos, err
}
