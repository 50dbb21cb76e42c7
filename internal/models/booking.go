package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus mirrors domain.BookingStatus at the persistence layer.
type BookingStatus string

const (
	BookingActive    BookingStatus = "ACTIVE"
	BookingCompleted BookingStatus = "COMPLETED"
)

// Booking represents a row in the bookings table. Plan parameters are stored
// inline; the per-period amount is a derived convenience column, never summed
// against the ledger.
type Booking struct {
	BookingID       string          `db:"booking_id"`
	UnitID          string          `db:"unit_id"`
	CustomerID      string          `db:"customer_id"`
	PlanYears       int             `db:"plan_years"`
	FrequencyMonths int             `db:"frequency_months"`
	StartDate       time.Time       `db:"start_date"`
	PerPeriodAmount decimal.Decimal `db:"per_period_amount"`
	Status          BookingStatus   `db:"status"`
	Notes           string          `db:"notes"` // Nullable
	AuditFields
}
