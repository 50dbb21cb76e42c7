package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentKind classifies a ledger entry.
type PaymentKind string

const (
	KindBooking     PaymentKind = "BOOKING"     // Initial deposit taken when the booking is created
	KindInstallment PaymentKind = "INSTALLMENT" // Settlement of one scheduled installment
	KindExtra       PaymentKind = "EXTRA"       // Out-of-plan payment that triggers a reschedule
	KindFinal       PaymentKind = "FINAL"       // Out-of-plan payment that exactly clears the balance
)

// LedgerEntry is an immutable record of money actually received for a booking.
// The ledger is append-only; the only supported removal is the explicit
// reversal/deletion flow, which also unwinds the installments the entry funded.
// The sum of a booking's ledger entries is the sole source of truth for the
// amount paid.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`
	BookingID     string          `json:"bookingID"`
	Amount        decimal.Decimal `json:"amount"` // Always > 0
	PaymentDate   time.Time       `json:"paymentDate"`
	Kind          PaymentKind     `json:"kind"`
	AttachmentRef string          `json:"attachmentRef"` // Nullable; reference into external attachment storage
	Note          string          `json:"note"`          // Nullable
	AuditFields
}

// RemainingSummary is the authoritative view of what a booking still owes,
// computed fresh from the ledger on every read.
type RemainingSummary struct {
	UnitPrice decimal.Decimal `json:"unitPrice"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
	Remaining decimal.Decimal `json:"remaining"`
}
