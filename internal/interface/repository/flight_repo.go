package repository

import (
	"context"
	"time"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"

	"gorm.io/gorm"
)

// GormFlightRepository implements the FlightRepository interface
type GormFlightRepository struct {
	db *gorm.DB
}

// NewGormFlightRepository creates a new GORM flight repository
func NewGormFlightRepository(db *gorm.DB) repository.FlightRepository {
	return &GormFlightRepository{
		db: db,
	}
}

// TrackedFlights GORM model for database mapping
type TrackedFlights struct {
	ID                uint           `gorm:"primaryKey"`
	PublicID          string         `gorm:"column:public_id;uniqueIndex"`
	UserID            uint           `gorm:"column:user_id;index"`
	DepartureAirport  string         `gorm:"column:departure_airport;size:3"`
	ArrivalAirport    string         `gorm:"column:arrival_airport;size:3"`
	Airline           string         `gorm:"column:airline;size:2"`
	PreferredTime     string         `gorm:"column:preferred_time;size:5"`
	DepartureDate     time.Time      `gorm:"column:departure_date"`
	ReturnDate        *time.Time     `gorm:"column:return_date"`
	OriginalPrice     float64        `gorm:"column:original_price"`
	LastAlertedPrice  *float64       `gorm:"column:last_alerted_price"`
	LastCheckedPrice  *float64       `gorm:"column:last_checked_price"`
	LastCheckedAt     *time.Time     `gorm:"column:last_checked_at"`
	NextCheckAt       time.Time      `gorm:"column:next_check_at;index"`
	CheckFrequencyHrs int            `gorm:"column:check_frequency_hours"`
	IsActive          bool           `gorm:"column:is_active;index"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName overrides the default table name
func (TrackedFlights) TableName() string {
	return "t_tracked_flights"
}

func toFlightEntity(m *TrackedFlights) *entity.TrackedFlight {
	return &entity.TrackedFlight{
		ID:                m.ID,
		PublicID:          m.PublicID,
		UserID:            m.UserID,
		DepartureAirport:  m.DepartureAirport,
		ArrivalAirport:    m.ArrivalAirport,
		Airline:           m.Airline,
		PreferredTime:     m.PreferredTime,
		DepartureDate:     m.DepartureDate,
		ReturnDate:        m.ReturnDate,
		OriginalPrice:     m.OriginalPrice,
		LastAlertedPrice:  m.LastAlertedPrice,
		LastCheckedPrice:  m.LastCheckedPrice,
		LastCheckedAt:     m.LastCheckedAt,
		NextCheckAt:       m.NextCheckAt,
		CheckFrequencyHrs: m.CheckFrequencyHrs,
		IsActive:          m.IsActive,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		DeletedAt:         m.DeletedAt,
	}
}

func toFlightModel(f *entity.TrackedFlight) *TrackedFlights {
	return &TrackedFlights{
		ID:                f.ID,
		PublicID:          f.PublicID,
		UserID:            f.UserID,
		DepartureAirport:  f.DepartureAirport,
		ArrivalAirport:    f.ArrivalAirport,
		Airline:           f.Airline,
		PreferredTime:     f.PreferredTime,
		DepartureDate:     f.DepartureDate,
		ReturnDate:        f.ReturnDate,
		OriginalPrice:     f.OriginalPrice,
		LastAlertedPrice:  f.LastAlertedPrice,
		LastCheckedPrice:  f.LastCheckedPrice,
		LastCheckedAt:     f.LastCheckedAt,
		NextCheckAt:       f.NextCheckAt,
		CheckFrequencyHrs: f.CheckFrequencyHrs,
		IsActive:          f.IsActive,
	}
}

// Create persists a new tracked flight
func (r *GormFlightRepository) Create(ctx context.Context, flight *entity.TrackedFlight) error {
	model := toFlightModel(flight)
	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}
	flight.ID = model.ID
	flight.CreatedAt = model.CreatedAt
	return nil
}

// FindByPublicID finds a tracked flight by its opaque public identifier
func (r *GormFlightRepository) FindByPublicID(ctx context.Context, publicID string) (*entity.TrackedFlight, error) {
	var model TrackedFlights
	result := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&model)
	if result.Error != nil {
		return nil, result.Error
	}
	return toFlightEntity(&model), nil
}

// FindByUser returns one page of a user's tracked flights plus the total count
func (r *GormFlightRepository) FindByUser(ctx context.Context, userID uint, offset, limit int) ([]*entity.TrackedFlight, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&TrackedFlights{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []TrackedFlights
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	flights := make([]*entity.TrackedFlight, 0, len(models))
	for i := range models {
		flights = append(flights, toFlightEntity(&models[i]))
	}
	return flights, total, nil
}

// FindDue returns every active, not-yet-departed flight whose next check time
// has arrived, paired with its owning user
func (r *GormFlightRepository) FindDue(ctx context.Context, now time.Time) ([]*entity.DueFlight, error) {
	var models []TrackedFlights
	result := r.db.WithContext(ctx).
		Where("is_active = ? AND departure_date > ? AND next_check_at <= ?", true, now, now).
		Order("next_check_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	if len(models) == 0 {
		return nil, nil
	}

	userIDs := make([]uint, 0, len(models))
	seen := make(map[uint]bool)
	for i := range models {
		if !seen[models[i].UserID] {
			seen[models[i].UserID] = true
			userIDs = append(userIDs, models[i].UserID)
		}
	}

	var owners []Users
	if err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&owners).Error; err != nil {
		return nil, err
	}
	ownersByID := make(map[uint]*entity.User, len(owners))
	for i := range owners {
		ownersByID[owners[i].ID] = toUserEntity(&owners[i])
	}

	due := make([]*entity.DueFlight, 0, len(models))
	for i := range models {
		owner, ok := ownersByID[models[i].UserID]
		if !ok {
			// Orphaned row; skip rather than sweep a flight with no owner
			continue
		}
		due = append(due, &entity.DueFlight{
			Flight: toFlightEntity(&models[i]),
			Owner:  owner,
		})
	}
	return due, nil
}

// TouchChecked refreshes only lastCheckedAt, leaving prices untouched
func (r *GormFlightRepository) TouchChecked(ctx context.Context, flightID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&TrackedFlights{}).
		Where("id = ?", flightID).
		Update("last_checked_at", at).Error
}

// UpdateCheckedPrice writes through the freshly observed price without
// touching the alert baseline
func (r *GormFlightRepository) UpdateCheckedPrice(ctx context.Context, flightID uint, price float64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&TrackedFlights{}).
		Where("id = ?", flightID).
		Updates(map[string]interface{}{
			"last_checked_price": price,
			"last_checked_at":    at,
		}).Error
}

// Reschedule advances the flight's next check time
func (r *GormFlightRepository) Reschedule(ctx context.Context, flightID uint, nextCheckAt time.Time) error {
	return r.db.WithContext(ctx).Model(&TrackedFlights{}).
		Where("id = ?", flightID).
		Update("next_check_at", nextCheckAt).Error
}

// Deactivate removes a flight from tracking without deleting its history
func (r *GormFlightRepository) Deactivate(ctx context.Context, flightID uint) error {
	return r.db.WithContext(ctx).Model(&TrackedFlights{}).
		Where("id = ?", flightID).
		Update("is_active", false).Error
}

// DeactivateDeparted retires every active flight whose departure has passed
func (r *GormFlightRepository) DeactivateDeparted(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&TrackedFlights{}).
		Where("is_active = ? AND departure_date <= ?", true, now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// CountActive counts a user's actively tracked flights
func (r *GormFlightRepository) CountActive(ctx context.Context, userID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&TrackedFlights{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count)
	return count, result.Error
}
