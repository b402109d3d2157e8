package photo

import (
	"context"

	contentdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/content"
)

// DefaultListLimit caps the gallery listing when the client does not ask for
// a specific page size.
const DefaultListLimit = 50

type Repository interface {
	Insert(ctx context.Context, p *contentdm.Photo) error
	ListLatest(ctx context.Context, limit int) ([]contentdm.Photo, error)
}
