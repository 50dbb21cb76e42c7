package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentKind mirrors domain.PaymentKind at the persistence layer.
type PaymentKind string

const (
	KindBooking     PaymentKind = "BOOKING"
	KindInstallment PaymentKind = "INSTALLMENT"
	KindExtra       PaymentKind = "EXTRA"
	KindFinal       PaymentKind = "FINAL"
)

// LedgerEntry represents a row in the ledger_entries table.
type LedgerEntry struct {
	EntryID       string          `db:"entry_id"`
	BookingID     string          `db:"booking_id"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentDate   time.Time       `db:"payment_date"`
	Kind          PaymentKind     `db:"kind"`
	AttachmentRef string          `db:"attachment_ref"` // Nullable
	Note          string          `db:"note"`           // Nullable
	AuditFields
}
