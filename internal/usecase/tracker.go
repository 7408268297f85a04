package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"
	"farewatch/pkg/logger"

	"github.com/google/uuid"
)

// ErrPlanLimitReached is returned when a user tries to track more flights
// than their plan allows
var ErrPlanLimitReached = errors.New("active flight limit reached for plan")

// ErrEmailInUse is returned when a registration email is already taken
var ErrEmailInUse = errors.New("email already registered")

// ErrInvalidFlight is returned when a tracking request fails validation
var ErrInvalidFlight = errors.New("invalid flight request")

// CreateFlightInput carries a validated tracking request
type CreateFlightInput struct {
	DepartureAirport string
	ArrivalAirport   string
	Airline          string
	PreferredTime    string
	DepartureDate    time.Time
	ReturnDate       *time.Time
	OriginalPrice    float64
	Currency         string
}

// FlightTracker handles the user and tracked flight lifecycle outside the sweep
type FlightTracker struct {
	flightRepo      repository.FlightRepository
	userRepo        repository.UserRepository
	observationRepo repository.ObservationRepository
	alertLogRepo    repository.AlertLogRepository
	logger          logger.Logger
	now             func() time.Time
}

// NewFlightTracker creates a new flight tracker
func NewFlightTracker(
	flightRepo repository.FlightRepository,
	userRepo repository.UserRepository,
	observationRepo repository.ObservationRepository,
	alertLogRepo repository.AlertLogRepository,
	logger logger.Logger,
) *FlightTracker {
	return &FlightTracker{
		flightRepo:      flightRepo,
		userRepo:        userRepo,
		observationRepo: observationRepo,
		alertLogRepo:    alertLogRepo,
		logger:          logger,
		now:             time.Now,
	}
}

// RegisterUser creates a user account on the given plan. The email pre-check
// is best effort; the unique index on email backstops concurrent signups.
func (t *FlightTracker) RegisterUser(ctx context.Context, email, plan string) (*entity.User, error) {
	if plan == "" {
		plan = entity.PlanFree
	}
	if plan != entity.PlanFree && plan != entity.PlanPro {
		return nil, fmt.Errorf("unknown plan %q", plan)
	}

	if existing, err := t.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailInUse, email)
	}

	user := &entity.User{
		Email: email,
		Plan:  plan,
	}
	if err := t.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	t.logger.Info("User registered", "userID", user.ID, "plan", user.Plan)
	return user, nil
}

// CreateFlight registers a booking for price tracking. The original price is
// immutable afterwards and the first observation row is written here.
func (t *FlightTracker) CreateFlight(ctx context.Context, userID uint, input CreateFlightInput) (*entity.TrackedFlight, error) {
	user, err := t.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	active, err := t.flightRepo.CountActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active flights: %w", err)
	}
	if active >= int64(user.MaxActiveFlights()) {
		return nil, fmt.Errorf("%w: %d active on plan %q", ErrPlanLimitReached, active, user.Plan)
	}

	now := t.now()
	flight := &entity.TrackedFlight{
		PublicID:          uuid.NewString(),
		UserID:            userID,
		DepartureAirport:  input.DepartureAirport,
		ArrivalAirport:    input.ArrivalAirport,
		Airline:           input.Airline,
		PreferredTime:     input.PreferredTime,
		DepartureDate:     input.DepartureDate,
		ReturnDate:        input.ReturnDate,
		OriginalPrice:     input.OriginalPrice,
		NextCheckAt:       now,
		CheckFrequencyHrs: user.DefaultCheckFrequencyHours(),
		IsActive:          true,
	}
	if err := flight.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFlight, err)
	}

	if err := t.flightRepo.Create(ctx, flight); err != nil {
		return nil, fmt.Errorf("failed to create tracked flight: %w", err)
	}

	observation := &entity.PriceObservation{
		FlightID:   flight.ID,
		Price:      input.OriginalPrice,
		Currency:   input.Currency,
		Reason:     entity.ObservationCreated,
		ObservedAt: now,
	}
	if err := t.observationRepo.Append(ctx, observation); err != nil {
		// The flight is tracked either way; the audit trail just misses its
		// first sample
		t.logger.Error("Failed to append initial observation", "flightID", flight.PublicID, "error", err)
	}

	t.logger.Info("Flight tracking started",
		"flightID", flight.PublicID,
		"userID", userID,
		"route", flight.DepartureAirport+"-"+flight.ArrivalAirport,
		"originalPrice", flight.OriginalPrice)

	return flight, nil
}

// GetFlight fetches one tracked flight by public ID
func (t *FlightTracker) GetFlight(ctx context.Context, publicID string) (*entity.TrackedFlight, error) {
	return t.flightRepo.FindByPublicID(ctx, publicID)
}

// ListFlights returns one page of a user's tracked flights
func (t *FlightTracker) ListFlights(ctx context.Context, userID uint, page, limit int) ([]*entity.TrackedFlight, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return t.flightRepo.FindByUser(ctx, userID, (page-1)*limit, limit)
}

// StopTracking deactivates a flight, keeping its history intact
func (t *FlightTracker) StopTracking(ctx context.Context, publicID string) error {
	flight, err := t.flightRepo.FindByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	return t.flightRepo.Deactivate(ctx, flight.ID)
}

// PriceHistory returns the most recent price observations for a flight
func (t *FlightTracker) PriceHistory(ctx context.Context, publicID string, limit int) ([]*entity.PriceObservation, error) {
	flight, err := t.flightRepo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 50
	}
	return t.observationRepo.ListByFlight(ctx, flight.ID, limit)
}

// AlertHistory returns the delivery log entries recorded for a flight's
// price drop notifications
func (t *FlightTracker) AlertHistory(ctx context.Context, publicID string, limit int) ([]*entity.AlertLog, error) {
	flight, err := t.flightRepo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 50
	}
	return t.alertLogRepo.FindByFlight(ctx, flight.PublicID, limit)
}
