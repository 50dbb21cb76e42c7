package mapping

import (
	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	"github.com/hasnin090/tariq-sub000/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		BookingID:     d.BookingID,
		Amount:        d.Amount,
		PaymentDate:   d.PaymentDate,
		Kind:          models.PaymentKind(d.Kind),
		AttachmentRef: d.AttachmentRef,
		Note:          d.Note,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		BookingID:     m.BookingID,
		Amount:        m.Amount,
		PaymentDate:   m.PaymentDate,
		Kind:          domain.PaymentKind(m.Kind),
		AttachmentRef: m.AttachmentRef,
		Note:          m.Note,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to a slice of domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}

// ToModelExtraPayment converts a domain ExtraPayment to a model ExtraPayment
func ToModelExtraPayment(d domain.ExtraPayment) models.ExtraPayment {
	return models.ExtraPayment{
		ExtraPaymentID:        d.ExtraPaymentID,
		BookingID:             d.BookingID,
		LedgerEntryID:         d.LedgerEntryID,
		Amount:                d.Amount,
		PaymentDate:           d.PaymentDate,
		Method:                d.Method,
		Strategy:              d.Strategy,
		ResultingInstallments: d.ResultingInstallments,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExtraPayment converts a model ExtraPayment to a domain ExtraPayment
func ToDomainExtraPayment(m models.ExtraPayment) domain.ExtraPayment {
	return domain.ExtraPayment{
		ExtraPaymentID:        m.ExtraPaymentID,
		BookingID:             m.BookingID,
		LedgerEntryID:         m.LedgerEntryID,
		Amount:                m.Amount,
		PaymentDate:           m.PaymentDate,
		Method:                m.Method,
		Strategy:              m.Strategy,
		ResultingInstallments: m.ResultingInstallments,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExtraPaymentSlice converts a slice of model ExtraPayments to a slice of domain ExtraPayments
func ToDomainExtraPaymentSlice(ms []models.ExtraPayment) []domain.ExtraPayment {
	ds := make([]domain.ExtraPayment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExtraPayment(m)
	}
	return ds
}
