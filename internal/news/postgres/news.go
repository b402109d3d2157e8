package postgres

import (
	"context"

	"gorm.io/gorm"

	contentdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/content"
	"github.com/amala-code/new-admin-backend/internal/news"
)

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) news.Repository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) Insert(ctx context.Context, n *contentdm.News) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NewsRepository) List(ctx context.Context) ([]contentdm.News, error) {
	var items []contentdm.News
	err := r.db.WithContext(ctx).Order("id DESC").Find(&items).Error
	return items, err
}

func (r *NewsRepository) DeleteByPublicID(ctx context.Context, publicID string) error {
	result := r.db.WithContext(ctx).Where("public_id = ?", publicID).Delete(&contentdm.News{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return news.ErrNewsNotFound
	}
	return nil
}
