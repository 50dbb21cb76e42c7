package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus indicates the settlement state of a scheduled installment.
type InstallmentStatus string

const (
	InstallmentPending       InstallmentStatus = "PENDING"
	InstallmentPartiallyPaid InstallmentStatus = "PARTIALLY_PAID"
	InstallmentOverdue       InstallmentStatus = "OVERDUE"
	InstallmentPaid          InstallmentStatus = "PAID"
)

type linkKind int

const (
	linkNone linkKind = iota
	linkEntry
	linkExternal
)

// LedgerLink describes how a paid installment relates to the ledger. It is a
// closed variant: either no link (unpaid), a 1:1 link to the funding ledger
// entry, or ExternallyCovered, meaning the money was already captured by a
// different ledger entry (an extra or final payment) and the installment's
// amount must never be summed against the ledger total again.
type LedgerLink struct {
	kind    linkKind
	entryID string
}

// NoLink returns the link of an unpaid installment.
func NoLink() LedgerLink { return LedgerLink{} }

// LinkToEntry returns a link to the ledger entry that funded the installment.
func LinkToEntry(entryID string) LedgerLink {
	return LedgerLink{kind: linkEntry, entryID: entryID}
}

// ExternallyCovered returns the sentinel link for installments covered by an
// out-of-plan payment.
func ExternallyCovered() LedgerLink { return LedgerLink{kind: linkExternal} }

// IsNone reports whether the installment has no ledger linkage.
func (l LedgerLink) IsNone() bool { return l.kind == linkNone }

// IsExternallyCovered reports whether the installment carries the sentinel link.
func (l LedgerLink) IsExternallyCovered() bool { return l.kind == linkExternal }

// EntryID returns the linked ledger entry ID when the link is a real reference.
func (l LedgerLink) EntryID() (string, bool) {
	if l.kind != linkEntry {
		return "", false
	}
	return l.entryID, true
}

// Installment is one scheduled, dated portion of a booking's total price.
type Installment struct {
	InstallmentID string            `json:"installmentID"`
	BookingID     string            `json:"bookingID"`
	Number        int               `json:"installmentNumber"` // 1-based, dense, strictly increasing per booking
	DueDate       time.Time         `json:"dueDate"`
	Amount        decimal.Decimal   `json:"amount"`
	PaidAmount    decimal.Decimal   `json:"paidAmount"`
	Status        InstallmentStatus `json:"status"`
	PaidDate      *time.Time        `json:"paidDate"`
	Link          LedgerLink        `json:"-"`
	AuditFields
}

// IsPaid reports whether the installment has been settled.
func (i Installment) IsPaid() bool { return i.Status == InstallmentPaid }
