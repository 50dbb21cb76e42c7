package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus mirrors domain.InstallmentStatus at the persistence layer.
type InstallmentStatus string

const (
	InstallmentPending       InstallmentStatus = "PENDING"
	InstallmentPartiallyPaid InstallmentStatus = "PARTIALLY_PAID"
	InstallmentOverdue       InstallmentStatus = "OVERDUE"
	InstallmentPaid          InstallmentStatus = "PAID"
)

// ExternalCoverageMarker is the stored sentinel for an installment covered by
// an out-of-plan payment rather than a 1:1 ledger entry. It must never collide
// with a real entry ID (entry IDs are UUIDs).
const ExternalCoverageMarker = "EXTERNAL"

// Installment represents a row in the installments table.
// linked_ledger_entry_id is nullable: NULL means unpaid, a UUID means funded
// by that ledger entry, and ExternalCoverageMarker means covered externally.
type Installment struct {
	InstallmentID       string            `db:"installment_id"`
	BookingID           string            `db:"booking_id"`
	InstallmentNumber   int               `db:"installment_number"`
	DueDate             time.Time         `db:"due_date"`
	Amount              decimal.Decimal   `db:"amount"`
	PaidAmount          decimal.Decimal   `db:"paid_amount"`
	Status              InstallmentStatus `db:"status"`
	PaidDate            *time.Time        `db:"paid_date"`
	LinkedLedgerEntryID *string           `db:"linked_ledger_entry_id"`
	AuditFields
}
