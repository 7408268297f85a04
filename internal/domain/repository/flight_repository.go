package repository

import (
	"context"
	"time"

	"farewatch/internal/domain/entity"
)

// FlightRepository defines the interface for tracked flight operations
type FlightRepository interface {
	Create(ctx context.Context, flight *entity.TrackedFlight) error
	FindByPublicID(ctx context.Context, publicID string) (*entity.TrackedFlight, error)
	FindByUser(ctx context.Context, userID uint, offset, limit int) ([]*entity.TrackedFlight, int64, error)
	FindDue(ctx context.Context, now time.Time) ([]*entity.DueFlight, error)
	TouchChecked(ctx context.Context, flightID uint, at time.Time) error
	UpdateCheckedPrice(ctx context.Context, flightID uint, price float64, at time.Time) error
	Reschedule(ctx context.Context, flightID uint, nextCheckAt time.Time) error
	Deactivate(ctx context.Context, flightID uint) error
	DeactivateDeparted(ctx context.Context, now time.Time) (int64, error)
	CountActive(ctx context.Context, userID uint) (int64, error)
}
