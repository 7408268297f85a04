package repository

import (
	"context"
	"fmt"
	"time"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAlertRepository implements the AlertRepository interface
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GORM alert repository
func NewGormAlertRepository(db *gorm.DB) repository.AlertRepository {
	return &GormAlertRepository{
		db: db,
	}
}

// CommitDrop applies a qualifying price drop atomically: the flight's price
// and alert baseline move to the new price, the owner's lifetime savings grow
// by the drop amount, and one observation row is appended. A failure in any
// write rolls back all three.
func (r *GormAlertRepository) CommitDrop(ctx context.Context, flight *entity.TrackedFlight, newPrice float64, currency string, savings float64, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&TrackedFlights{}).
			Where("id = ?", flight.ID).
			Updates(map[string]interface{}{
				"last_checked_price": newPrice,
				"last_alerted_price": newPrice,
				"last_checked_at":    at,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update flight price state: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("flight %d not found during alert commit", flight.ID)
		}

		result = tx.Model(&Users{}).
			Where("id = ?", flight.UserID).
			Update("lifetime_savings", gorm.Expr("lifetime_savings + ?", savings))
		if result.Error != nil {
			return fmt.Errorf("failed to increment user savings: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("user %d not found during alert commit", flight.UserID)
		}

		observation := &PriceObservations{
			FlightID:   flight.ID,
			Price:      newPrice,
			Currency:   currency,
			Reason:     entity.ObservationAlerted,
			ObservedAt: at,
		}
		if err := tx.Create(observation).Error; err != nil {
			return fmt.Errorf("failed to append price observation: %w", err)
		}

		return nil
	})
}
