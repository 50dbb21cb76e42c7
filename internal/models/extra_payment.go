package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtraPayment represents a row in the extra_payments audit table.
// Rows are written once and never updated.
type ExtraPayment struct {
	ExtraPaymentID        string          `db:"extra_payment_id"`
	BookingID             string          `db:"booking_id"`
	LedgerEntryID         string          `db:"ledger_entry_id"`
	Amount                decimal.Decimal `db:"amount"`
	PaymentDate           time.Time       `db:"payment_date"`
	Method                string          `db:"method"`
	Strategy              string          `db:"strategy"`
	ResultingInstallments int             `db:"resulting_installments"`
	AuditFields
}
