package repository

import (
	"context"
	"errors"

	"farewatch/internal/domain/entity"
)

// ErrOfferNotFound is returned when the provider has no offers for the query,
// including the case where an airline filter excluded every candidate. It is a
// normal outcome, not a transport failure.
var ErrOfferNotFound = errors.New("no matching fare offer found")

// FareProvider defines the interface to the external offer search
type FareProvider interface {
	SearchBest(ctx context.Context, query entity.FareQuery) (*entity.FareQuote, error)
}
