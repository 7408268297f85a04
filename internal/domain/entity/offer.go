package entity

import "time"

// FareLeg is one segment of an offer itinerary
type FareLeg struct {
	CarrierCode string
	DepartureAt time.Time
}

// FareOffer is one result from the external offer search. It lives only for
// the duration of a lookup and is never persisted.
type FareOffer struct {
	Legs     []FareLeg
	Price    float64
	Currency string
}

// OperatedEntirelyBy reports whether every leg of the itinerary uses the
// given carrier
func (o *FareOffer) OperatedEntirelyBy(carrier string) bool {
	for _, leg := range o.Legs {
		if leg.CarrierCode != carrier {
			return false
		}
	}
	return len(o.Legs) > 0
}

// FareQuote is the selected best offer's price
type FareQuote struct {
	CurrentPrice float64
	Currency     string
}

// FareQuery describes one route/date lookup
type FareQuery struct {
	DepartureAirport string
	ArrivalAirport   string
	DepartureDate    time.Time
	ReturnDate       *time.Time
	Airline          string // optional carrier filter
	PreferredTime    string // optional "15:04" preferred departure time of day
}
