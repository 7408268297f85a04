package repository

import (
	"context"

	"farewatch/internal/domain/entity"
)

// Notifier defines the interface for sending price drop alerts. Delivery is
// fire-and-forget from the sweep's perspective; a send failure never unwinds
// the committed alert state.
type Notifier interface {
	SendPriceDropAlert(ctx context.Context, alert *entity.PriceAlert) error
}
