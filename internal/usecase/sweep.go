package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"
	"farewatch/pkg/logger"
	"farewatch/pkg/metrics"
)

// Per-flight sweep outcomes
const (
	OutcomeNotFound     = "not_found"
	OutcomePriceStable  = "price_stable"
	OutcomePriceDropped = "price_dropped"
	OutcomeInvalidPrice = "invalid_price_state"
	OutcomeLookupFailed = "lookup_failed"
	OutcomeAlertFailed  = "alert_failed"
)

// FlightResult records what happened to one flight during a sweep pass
type FlightResult struct {
	FlightPublicID string
	Outcome        string
	Err            error
}

// SweepReport summarizes one complete pass over the due flights
type SweepReport struct {
	Started  time.Time
	Duration time.Duration
	Checked  int
	Alerted  int
	NotFound int
	Failed   int
	Results  []FlightResult
}

// SweepProcessor drives one pass over all due tracked flights
type SweepProcessor struct {
	flightRepo   repository.FlightRepository
	alertRepo    repository.AlertRepository
	fareProvider repository.FareProvider
	notifier     repository.Notifier
	alertLogRepo repository.AlertLogRepository
	metrics      *metrics.Metrics
	logger       logger.Logger
	now          func() time.Time
}

// NewSweepProcessor creates a new sweep processor
func NewSweepProcessor(
	flightRepo repository.FlightRepository,
	alertRepo repository.AlertRepository,
	fareProvider repository.FareProvider,
	notifier repository.Notifier,
	alertLogRepo repository.AlertLogRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *SweepProcessor {
	return &SweepProcessor{
		flightRepo:   flightRepo,
		alertRepo:    alertRepo,
		fareProvider: fareProvider,
		notifier:     notifier,
		alertLogRepo: alertLogRepo,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// RunSweep processes every due flight sequentially. Per-flight failures are
// captured into the report and the loop continues; only a failure of the
// due-flights query itself aborts the sweep.
func (sp *SweepProcessor) RunSweep(ctx context.Context) (*SweepReport, error) {
	started := sp.now()

	retired, err := sp.flightRepo.DeactivateDeparted(ctx, started)
	if err != nil {
		sp.logger.Error("Failed to retire departed flights", "error", err)
	} else if retired > 0 {
		sp.logger.Info("Retired departed flights", "count", retired)
	}

	due, err := sp.flightRepo.FindDue(ctx, started)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due flights: %w", err)
	}

	report := &SweepReport{Started: started}
	sp.logger.Info("Sweep started", "dueFlights", len(due))

	for _, df := range due {
		result := sp.processFlight(ctx, df)
		report.Results = append(report.Results, result)
		report.Checked++

		switch result.Outcome {
		case OutcomePriceDropped:
			report.Alerted++
		case OutcomeNotFound:
			report.NotFound++
		case OutcomeInvalidPrice, OutcomeLookupFailed, OutcomeAlertFailed:
			report.Failed++
		}
		if result.Err != nil {
			sp.logger.Error("Flight check failed",
				"flightID", result.FlightPublicID,
				"outcome", result.Outcome,
				"error", result.Err)
		}

		// The flight is rescheduled whatever the outcome, so a persistently
		// failing lookup is retried next cycle instead of every second
		next := sp.now().Add(time.Duration(df.Flight.CheckFrequencyHrs) * time.Hour)
		if err := sp.flightRepo.Reschedule(ctx, df.Flight.ID, next); err != nil {
			sp.logger.Error("Failed to reschedule flight",
				"flightID", df.Flight.PublicID,
				"error", err)
		}

		if sp.metrics != nil {
			sp.metrics.FlightsChecked.Inc()
		}
	}

	report.Duration = sp.now().Sub(started)
	if sp.metrics != nil {
		sp.metrics.SweepDuration.Observe(report.Duration.Seconds())
	}

	sp.logger.Info("Sweep completed",
		"checked", report.Checked,
		"alerted", report.Alerted,
		"notFound", report.NotFound,
		"failed", report.Failed,
		"duration", report.Duration.String())

	return report, nil
}

// processFlight runs lookup, decision and alert commit for a single flight
func (sp *SweepProcessor) processFlight(ctx context.Context, df *entity.DueFlight) FlightResult {
	flight := df.Flight
	result := FlightResult{FlightPublicID: flight.PublicID}
	checkedAt := sp.now()

	quote, err := sp.fareProvider.SearchBest(ctx, entity.FareQuery{
		DepartureAirport: flight.DepartureAirport,
		ArrivalAirport:   flight.ArrivalAirport,
		DepartureDate:    flight.DepartureDate,
		ReturnDate:       flight.ReturnDate,
		Airline:          flight.Airline,
		PreferredTime:    flight.PreferredTime,
	})
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			// Normal outcome: refresh checked-at only, no price overwrite
			if touchErr := sp.flightRepo.TouchChecked(ctx, flight.ID, checkedAt); touchErr != nil {
				sp.logger.Error("Failed to refresh checked-at", "flightID", flight.PublicID, "error", touchErr)
			}
			result.Outcome = OutcomeNotFound
			if sp.metrics != nil {
				sp.metrics.LookupErrors.WithLabelValues("not_found").Inc()
			}
			return result
		}

		result.Outcome = OutcomeLookupFailed
		result.Err = err
		if sp.metrics != nil {
			sp.metrics.LookupErrors.WithLabelValues("transport").Inc()
		}
		return result
	}

	decision, err := EvaluateDrop(flight.OriginalPrice, flight.LastAlertedPrice, quote.CurrentPrice)
	if err != nil {
		// Operator-correctable state; skip alerting this pass
		if touchErr := sp.flightRepo.TouchChecked(ctx, flight.ID, checkedAt); touchErr != nil {
			sp.logger.Error("Failed to refresh checked-at", "flightID", flight.PublicID, "error", touchErr)
		}
		result.Outcome = OutcomeInvalidPrice
		result.Err = err
		return result
	}

	if !decision.ShouldAlert {
		if err := sp.flightRepo.UpdateCheckedPrice(ctx, flight.ID, quote.CurrentPrice, checkedAt); err != nil {
			result.Outcome = OutcomeAlertFailed
			result.Err = fmt.Errorf("failed to write through checked price: %w", err)
			return result
		}
		result.Outcome = OutcomePriceStable
		return result
	}

	if err := sp.alertRepo.CommitDrop(ctx, flight, quote.CurrentPrice, quote.Currency, decision.SavingsThisDrop, checkedAt); err != nil {
		result.Outcome = OutcomeAlertFailed
		result.Err = fmt.Errorf("alert processing failed for flight %s: %w", flight.PublicID, err)
		return result
	}

	sp.logger.Info("Price drop alert committed",
		"flightID", flight.PublicID,
		"route", flight.DepartureAirport+"-"+flight.ArrivalAirport,
		"newPrice", quote.CurrentPrice,
		"savings", decision.SavingsThisDrop)
	if sp.metrics != nil {
		sp.metrics.AlertsSent.Inc()
	}

	// The state is already committed; notifying happens outside the
	// transaction boundary and its failure is only recorded
	sp.notify(ctx, df, quote, decision.SavingsThisDrop)

	result.Outcome = OutcomePriceDropped
	return result
}

// notify sends the alert email and appends a delivery log row
func (sp *SweepProcessor) notify(ctx context.Context, df *entity.DueFlight, quote *entity.FareQuote, savings float64) {
	flight := df.Flight
	alert := &entity.PriceAlert{
		UserEmail:        df.Owner.Email,
		FlightPublicID:   flight.PublicID,
		DepartureAirport: flight.DepartureAirport,
		ArrivalAirport:   flight.ArrivalAirport,
		Airline:          flight.Airline,
		DepartureDate:    flight.DepartureDate,
		NewPrice:         quote.CurrentPrice,
		Currency:         quote.Currency,
		SavingsThisDrop:  savings,
	}

	logEntry := &entity.AlertLog{
		FlightPublicID: flight.PublicID,
		UserEmail:      df.Owner.Email,
		NewPrice:       quote.CurrentPrice,
		Savings:        savings,
		CreatedAt:      sp.now(),
	}

	if err := sp.notifier.SendPriceDropAlert(ctx, alert); err != nil {
		sp.logger.Error("Failed to send price drop alert",
			"flightID", flight.PublicID,
			"email", df.Owner.Email,
			"error", err)
		logEntry.Status = entity.AlertDeliveryFailed
		logEntry.ErrorDetail = err.Error()
		if sp.metrics != nil {
			sp.metrics.NotificationFailures.Inc()
		}
	} else {
		sentAt := sp.now()
		logEntry.Status = entity.AlertDeliverySent
		logEntry.SentAt = &sentAt
	}

	if err := sp.alertLogRepo.Append(ctx, logEntry); err != nil {
		sp.logger.Error("Failed to append alert log", "flightID", flight.PublicID, "error", err)
	}
}
