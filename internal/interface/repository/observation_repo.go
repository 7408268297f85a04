package repository

import (
	"context"
	"time"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"

	"gorm.io/gorm"
)

// GormObservationRepository implements the ObservationRepository interface
type GormObservationRepository struct {
	db *gorm.DB
}

// NewGormObservationRepository creates a new GORM observation repository
func NewGormObservationRepository(db *gorm.DB) repository.ObservationRepository {
	return &GormObservationRepository{
		db: db,
	}
}

// PriceObservations GORM model for database mapping
type PriceObservations struct {
	ID         uint      `gorm:"primaryKey"`
	FlightID   uint      `gorm:"column:flight_id;index"`
	Price      float64   `gorm:"column:price"`
	Currency   string    `gorm:"column:currency;size:3"`
	Reason     string    `gorm:"column:reason"`
	ObservedAt time.Time `gorm:"column:observed_at"`
}

// TableName overrides the default table name
func (PriceObservations) TableName() string {
	return "t_price_observations"
}

// Append writes one observation row; observations are never updated
func (r *GormObservationRepository) Append(ctx context.Context, observation *entity.PriceObservation) error {
	model := &PriceObservations{
		FlightID:   observation.FlightID,
		Price:      observation.Price,
		Currency:   observation.Currency,
		Reason:     observation.Reason,
		ObservedAt: observation.ObservedAt,
	}
	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}
	observation.ID = model.ID
	return nil
}

// ListByFlight returns the most recent observations for a flight
func (r *GormObservationRepository) ListByFlight(ctx context.Context, flightID uint, limit int) ([]*entity.PriceObservation, error) {
	var models []PriceObservations
	result := r.db.WithContext(ctx).
		Where("flight_id = ?", flightID).
		Order("observed_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	observations := make([]*entity.PriceObservation, 0, len(models))
	for i := range models {
		m := models[i]
		observations = append(observations, &entity.PriceObservation{
			ID:         m.ID,
			FlightID:   m.FlightID,
			Price:      m.Price,
			Currency:   m.Currency,
			Reason:     m.Reason,
			ObservedAt: m.ObservedAt,
		})
	}
	return observations, nil
}
