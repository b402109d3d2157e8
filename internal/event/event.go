package event

import (
	"context"
	"errors"

	contentdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/content"
)

var ErrEventNotFound = errors.New("event not found")

// DefaultCategory is applied when the client omits one.
const DefaultCategory = "Gathering"

type Repository interface {
	Insert(ctx context.Context, e *contentdm.Event) error
	List(ctx context.Context) ([]contentdm.Event, error)
	FindByPublicID(ctx context.Context, publicID string) (*contentdm.Event, error)
	DeleteByPublicID(ctx context.Context, publicID string) error
}
