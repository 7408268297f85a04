package repository

import (
	"context"

	"farewatch/internal/domain/entity"
)

// UserRepository defines the interface for user operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
