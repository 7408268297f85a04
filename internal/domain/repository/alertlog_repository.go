package repository

import (
	"context"

	"farewatch/internal/domain/entity"
)

// AlertLogRepository defines the interface for the alert delivery log
type AlertLogRepository interface {
	Append(ctx context.Context, log *entity.AlertLog) error
	FindByFlight(ctx context.Context, flightPublicID string, limit int) ([]*entity.AlertLog, error)
}
