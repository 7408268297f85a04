package repository

import (
	"context"
	"time"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"

	"gorm.io/gorm"
)

// GormUserRepository implements the UserRepository interface
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) repository.UserRepository {
	return &GormUserRepository{
		db: db,
	}
}

// Users GORM model for database mapping
type Users struct {
	ID              uint           `gorm:"primaryKey"`
	Email           string         `gorm:"column:email;uniqueIndex"`
	Plan            string         `gorm:"column:plan;default:free"`
	LifetimeSavings float64        `gorm:"column:lifetime_savings;default:0"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the default table name
func (Users) TableName() string {
	return "t_users"
}

func toUserEntity(m *Users) *entity.User {
	return &entity.User{
		ID:              m.ID,
		Email:           m.Email,
		Plan:            m.Plan,
		LifetimeSavings: m.LifetimeSavings,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		DeletedAt:       m.DeletedAt,
	}
}

// Create persists a new user
func (r *GormUserRepository) Create(ctx context.Context, user *entity.User) error {
	model := &Users{
		Email:           user.Email,
		Plan:            user.Plan,
		LifetimeSavings: user.LifetimeSavings,
	}
	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}
	user.ID = model.ID
	user.CreatedAt = model.CreatedAt
	return nil
}

// GetByID finds a user by ID
func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	var model Users
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		return nil, result.Error
	}
	return toUserEntity(&model), nil
}

// GetByEmail finds a user by email
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var model Users
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&model)
	if result.Error != nil {
		return nil, result.Error
	}
	return toUserEntity(&model), nil
}
