package repository

import (
	"context"
	"time"

	"farewatch/internal/domain/entity"
)

// AlertRepository commits a qualifying price drop. The implementation must
// apply the flight price update, the user savings increment and the price
// observation append in a single transaction.
type AlertRepository interface {
	CommitDrop(ctx context.Context, flight *entity.TrackedFlight, newPrice float64, currency string, savings float64, at time.Time) error
}
