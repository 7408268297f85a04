package entity

import (
	"time"

	"gorm.io/gorm"
)

// Subscription plans
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// User owns zero or more tracked flights
type User struct {
	ID              uint
	Email           string
	Plan            string
	LifetimeSavings float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt
}

// MaxActiveFlights returns the active-flight limit for the user's plan
func (u *User) MaxActiveFlights() int {
	if u.Plan == PlanPro {
		return 50
	}
	return 3
}

// DefaultCheckFrequencyHours returns the plan's default re-check interval
func (u *User) DefaultCheckFrequencyHours() int {
	if u.Plan == PlanPro {
		return 6
	}
	return 24
}
