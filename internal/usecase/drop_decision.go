package usecase

import (
	"fmt"
	"math"

	"farewatch/internal/domain/entity"
)

// dropThresholdRatio defines a qualifying drop: the current price must fall
// below 90% of the baseline
const dropThresholdRatio = 0.90

// DropDecision is the outcome of evaluating one observed price
type DropDecision struct {
	ShouldAlert     bool
	SavingsThisDrop float64
}

// EvaluateDrop decides whether a freshly observed price qualifies for an
// alert. The baseline is the last alerted price, or the original price when
// no alert has been sent yet; anchoring repeat alerts to the last alerted
// price keeps each alert a genuinely new savings opportunity.
//
// It is a pure function: identical inputs always yield identical outputs.
func EvaluateDrop(originalPrice float64, lastAlertedPrice *float64, currentPrice float64) (DropDecision, error) {
	if originalPrice <= 0 || math.IsNaN(originalPrice) {
		return DropDecision{}, fmt.Errorf("%w: originalPrice=%v", entity.ErrInvalidPriceState, originalPrice)
	}

	baseline := originalPrice
	if lastAlertedPrice != nil {
		baseline = *lastAlertedPrice
		if baseline <= 0 || math.IsNaN(baseline) {
			return DropDecision{}, fmt.Errorf("%w: lastAlertedPrice=%v", entity.ErrInvalidPriceState, baseline)
		}
	}

	// A zero or negative observed price is a lookup anomaly, never an alert
	if currentPrice <= 0 || math.IsNaN(currentPrice) {
		return DropDecision{}, nil
	}

	threshold := baseline * dropThresholdRatio
	if currentPrice < threshold {
		return DropDecision{
			ShouldAlert:     true,
			SavingsThisDrop: baseline - currentPrice,
		}, nil
	}

	return DropDecision{}, nil
}
