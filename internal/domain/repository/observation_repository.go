package repository

import (
	"context"

	"farewatch/internal/domain/entity"
)

// ObservationRepository defines the interface for price observation operations.
// Observations are append-only; rows are removed only by cascading flight deletion.
type ObservationRepository interface {
	Append(ctx context.Context, observation *entity.PriceObservation) error
	ListByFlight(ctx context.Context, flightID uint, limit int) ([]*entity.PriceObservation, error)
}
