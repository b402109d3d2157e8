package postgres

import (
	"context"

	"gorm.io/gorm"

	contentdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/content"
	"github.com/amala-code/new-admin-backend/internal/event"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) event.Repository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Insert(ctx context.Context, e *contentdm.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) List(ctx context.Context) ([]contentdm.Event, error) {
	var evts []contentdm.Event
	err := r.db.WithContext(ctx).Order("id DESC").Find(&evts).Error
	return evts, err
}

func (r *EventRepository) FindByPublicID(ctx context.Context, publicID string) (*contentdm.Event, error) {
	var e contentdm.Event
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, event.ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) DeleteByPublicID(ctx context.Context, publicID string) error {
	result := r.db.WithContext(ctx).Where("public_id = ?", publicID).Delete(&contentdm.Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}
