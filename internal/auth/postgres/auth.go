package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/amala-code/new-admin-backend/internal/auth"
	userdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.UserRepository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(ctx context.Context, u *userdm.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*userdm.User, error) {
	var u userdm.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userdm.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}
