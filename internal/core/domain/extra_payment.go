package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RescheduleStrategy selects how the unpaid schedule is recomputed after an
// out-of-plan payment. It is a closed variant: NewPlan always carries its
// parameters, so a reschedule can never run with a strategy it lacks inputs for.
type RescheduleStrategy interface {
	rescheduleStrategy()
	Name() string
}

// ReduceAmount keeps the unpaid installments (count, numbers, due dates) and
// redistributes the remaining balance evenly across them.
type ReduceAmount struct{}

func (ReduceAmount) rescheduleStrategy() {}

func (ReduceAmount) Name() string { return "REDUCE_AMOUNT" }

// NewPlan discards the unpaid installments and generates a fresh schedule for
// the remaining balance under new plan parameters.
type NewPlan struct {
	Years           int
	FrequencyMonths int
	StartDate       time.Time
}

func (NewPlan) rescheduleStrategy() {}

func (NewPlan) Name() string { return "NEW_PLAN" }

// ExtraPayment is the write-once audit record of an out-of-plan payment: what
// was paid, which strategy the user chose, and how many installments the
// schedule held afterwards.
type ExtraPayment struct {
	ExtraPaymentID        string          `json:"extraPaymentID"`
	BookingID             string          `json:"bookingID"`
	LedgerEntryID         string          `json:"ledgerEntryID"`
	Amount                decimal.Decimal `json:"amount"`
	PaymentDate           time.Time       `json:"paymentDate"`
	Method                string          `json:"method"` // Free-form: cash, transfer, cheque...
	Strategy              string          `json:"strategy"`
	ResultingInstallments int             `json:"resultingInstallments"`
	AuditFields
}
