package entity

import "time"

// Alert delivery status
const (
	AlertDeliverySent   = "SENT"
	AlertDeliveryFailed = "FAILED"
)

// PriceAlert is the notification payload handed to the sender after a
// qualifying drop has been committed
type PriceAlert struct {
	UserEmail        string
	FlightPublicID   string
	DepartureAirport string
	ArrivalAirport   string
	Airline          string
	DepartureDate    time.Time
	NewPrice         float64
	Currency         string
	SavingsThisDrop  float64
}

// AlertLog is an append-only record of one notification attempt
type AlertLog struct {
	ID             string     `bson:"_id,omitempty"`
	FlightPublicID string     `bson:"flightPublicId"`
	UserEmail      string     `bson:"userEmail"`
	NewPrice       float64    `bson:"newPrice"`
	Savings        float64    `bson:"savings"`
	Status         string     `bson:"status"`
	ErrorDetail    string     `bson:"errorDetail,omitempty"`
	SentAt         *time.Time `bson:"sentAt,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt"`
}
