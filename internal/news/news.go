package news

import (
	"context"
	"errors"

	contentdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/content"
)

var ErrNewsNotFound = errors.New("news item not found")

type Repository interface {
	Insert(ctx context.Context, n *contentdm.News) error
	List(ctx context.Context) ([]contentdm.News, error)
	DeleteByPublicID(ctx context.Context, publicID string) error
}
