package templates

import (
	"testing"
	"time"

	"farewatch/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestRenderPriceDrop(t *testing.T) {
	subject, body := RenderPriceDrop(&entity.PriceAlert{
		UserEmail:        "traveler@example.com",
		DepartureAirport: "JFK",
		ArrivalAirport:   "LAX",
		Airline:          "DL",
		DepartureDate:    time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		NewPrice:         400,
		Currency:         "USD",
		SavingsThisDrop:  49,
	})

	assert.Equal(t, "Price drop: JFK → LAX now 400.00 USD", subject)
	assert.Contains(t, body, "JFK → LAX")
	assert.Contains(t, body, "DL")
	assert.Contains(t, body, "20 Nov 2026")
	assert.Contains(t, body, "400.00 USD")
	assert.Contains(t, body, "49.00 USD")
}

func TestRenderPriceDropWithoutAirlineFilter(t *testing.T) {
	_, body := RenderPriceDrop(&entity.PriceAlert{
		DepartureAirport: "SFO",
		ArrivalAirport:   "ORD",
		DepartureDate:    time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		NewPrice:         120.5,
		SavingsThisDrop:  15,
	})

	assert.Contains(t, body, "Any", "missing airline renders as Any")
	assert.Contains(t, body, "120.50 USD", "missing currency defaults to USD")
}
