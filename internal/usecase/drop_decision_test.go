package usecase

import (
	"math"
	"testing"

	"farewatch/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestEvaluateDropFirstAlertAnchorsToOriginalPrice(t *testing.T) {
	tests := []struct {
		name        string
		original    float64
		current     float64
		wantAlert   bool
		wantSavings float64
	}{
		{"drop just past threshold", 500, 449, true, 51},
		{"drop short of threshold", 500, 451, false, 0},
		{"exactly at threshold does not alert", 500, 450, false, 0},
		{"price unchanged", 500, 500, false, 0},
		{"price increased", 500, 560, false, 0},
		{"deep drop", 500, 250, true, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := EvaluateDrop(tt.original, nil, tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAlert, decision.ShouldAlert)
			assert.InDelta(t, tt.wantSavings, decision.SavingsThisDrop, 1e-9)
		})
	}
}

func TestEvaluateDropRepeatAlertsAnchorToLastAlertedPrice(t *testing.T) {
	// After alerting at 449, the next alert needs a drop below 449*0.9=404.10
	decision, err := EvaluateDrop(500, floatPtr(449), 405)
	require.NoError(t, err)
	assert.False(t, decision.ShouldAlert, "405 is above the 404.10 threshold")

	decision, err = EvaluateDrop(500, floatPtr(449), 400)
	require.NoError(t, err)
	assert.True(t, decision.ShouldAlert)
	assert.InDelta(t, 49, decision.SavingsThisDrop, 1e-9)
}

func TestEvaluateDropRejectsInvalidOriginalPrice(t *testing.T) {
	for _, original := range []float64{0, -100, math.NaN()} {
		_, err := EvaluateDrop(original, nil, 300)
		require.Error(t, err)
		assert.ErrorIs(t, err, entity.ErrInvalidPriceState)
	}
}

func TestEvaluateDropRejectsInvalidLastAlertedPrice(t *testing.T) {
	_, err := EvaluateDrop(500, floatPtr(0), 300)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidPriceState)
}

func TestEvaluateDropNeverAlertsOnAnomalousCurrentPrice(t *testing.T) {
	for _, current := range []float64{0, -1, math.NaN()} {
		decision, err := EvaluateDrop(500, nil, current)
		require.NoError(t, err)
		assert.False(t, decision.ShouldAlert)
	}
}

func TestEvaluateDropIsPure(t *testing.T) {
	first, err := EvaluateDrop(500, floatPtr(449), 400)
	require.NoError(t, err)
	second, err := EvaluateDrop(500, floatPtr(449), 400)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
