package entity

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrInvalidPriceState marks a flight whose recorded original price cannot be
// used as an alert baseline
var ErrInvalidPriceState = errors.New("invalid original price state")

// TrackedFlight is one user's monitored itinerary
type TrackedFlight struct {
	ID                uint
	PublicID          string
	UserID            uint
	DepartureAirport  string
	ArrivalAirport    string
	Airline           string // optional IATA carrier code
	PreferredTime     string // optional "15:04" time of day
	DepartureDate     time.Time
	ReturnDate        *time.Time
	OriginalPrice     float64
	LastAlertedPrice  *float64 // nil until the first alert is sent
	LastCheckedPrice  *float64
	LastCheckedAt     *time.Time
	NextCheckAt       time.Time
	CheckFrequencyHrs int
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt
}

// DueFlight pairs a due tracked flight with its owning user for one sweep pass
type DueFlight struct {
	Flight *TrackedFlight
	Owner  *User
}

// LegDates returns the itinerary leg dates in order
func (f *TrackedFlight) LegDates() []time.Time {
	dates := []time.Time{f.DepartureDate}
	if f.ReturnDate != nil {
		dates = append(dates, *f.ReturnDate)
	}
	return dates
}

// IsRoundTrip reports whether the itinerary has a return leg
func (f *TrackedFlight) IsRoundTrip() bool {
	return len(f.LegDates()) >= 2
}

// Baseline returns the reference price for the next alert threshold: the last
// alerted price, or the original price if no alert has been sent yet
func (f *TrackedFlight) Baseline() (float64, error) {
	if f.OriginalPrice <= 0 {
		return 0, fmt.Errorf("%w: originalPrice=%v", ErrInvalidPriceState, f.OriginalPrice)
	}
	if f.LastAlertedPrice != nil {
		return *f.LastAlertedPrice, nil
	}
	return f.OriginalPrice, nil
}

// Validate rejects malformed flights before they reach the decision engine
func (f *TrackedFlight) Validate() error {
	if len(f.DepartureAirport) != 3 {
		return fmt.Errorf("departure airport must be a 3-letter IATA code, got %q", f.DepartureAirport)
	}
	if len(f.ArrivalAirport) != 3 {
		return fmt.Errorf("arrival airport must be a 3-letter IATA code, got %q", f.ArrivalAirport)
	}
	if f.Airline != "" && len(f.Airline) != 2 {
		return fmt.Errorf("airline must be a 2-letter IATA code, got %q", f.Airline)
	}
	if f.PreferredTime != "" {
		if _, err := time.Parse("15:04", f.PreferredTime); err != nil {
			return fmt.Errorf("preferred time must be HH:MM, got %q", f.PreferredTime)
		}
	}
	if f.DepartureDate.IsZero() {
		return errors.New("departure date is required")
	}
	if f.ReturnDate != nil && f.ReturnDate.Before(f.DepartureDate) {
		return errors.New("return date precedes departure date")
	}
	if f.OriginalPrice <= 0 {
		return fmt.Errorf("%w: originalPrice=%v", ErrInvalidPriceState, f.OriginalPrice)
	}
	return nil
}
