package entity

import "time"

// Observation reasons
const (
	ObservationCreated = "created"
	ObservationAlerted = "alerted"
)

// PriceObservation is an append-only price sample tied to a tracked flight
type PriceObservation struct {
	ID         uint
	FlightID   uint
	Price      float64
	Currency   string
	Reason     string
	ObservedAt time.Time
}
