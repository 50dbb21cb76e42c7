package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus indicates where a booking is in its lifecycle. It is derived
// from ledger totals versus the unit price, never stored as an independent fact.
type BookingStatus string

const (
	BookingActive    BookingStatus = "ACTIVE"
	BookingCompleted BookingStatus = "COMPLETED"
)

// Plan years and payment frequencies the business supports.
var (
	allowedPlanYears       = map[int]bool{4: true, 5: true}
	allowedFrequencyMonths = map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 12: true}
)

// PlanParams holds the installment plan parameters of a booking. They are
// mutated only when a reschedule generates a new plan.
type PlanParams struct {
	Years           int             `json:"years"`
	FrequencyMonths int             `json:"frequencyMonths"`
	StartDate       time.Time       `json:"startDate"`
	PerPeriodAmount decimal.Decimal `json:"perPeriodAmount"` // Derived; base amount of a freshly generated schedule
}

// Validate checks the plan parameters against the supported values.
func (p PlanParams) Validate() error {
	if !allowedPlanYears[p.Years] {
		return fmt.Errorf("plan years must be 4 or 5, got %d", p.Years)
	}
	if !allowedFrequencyMonths[p.FrequencyMonths] {
		return fmt.Errorf("plan frequency must be one of 1, 2, 3, 4, 5, 6 or 12 months, got %d", p.FrequencyMonths)
	}
	if p.StartDate.IsZero() {
		return fmt.Errorf("plan start date is required")
	}
	return nil
}

// InstallmentCount returns the number of installments the plan spans,
// rounding up when the frequency does not divide the plan length evenly.
func (p PlanParams) InstallmentCount() int {
	months := p.Years * 12
	return (months + p.FrequencyMonths - 1) / p.FrequencyMonths
}

// Booking ties a customer to a unit under an installment plan.
type Booking struct {
	BookingID  string        `json:"bookingID"`
	UnitID     string        `json:"unitID"`
	CustomerID string        `json:"customerID"`
	Plan       PlanParams    `json:"plan"`
	Status     BookingStatus `json:"status"`
	Notes      string        `json:"notes"` // Nullable
	AuditFields
}
