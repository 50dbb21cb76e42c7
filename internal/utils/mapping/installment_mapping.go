package mapping

import (
	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	"github.com/hasnin090/tariq-sub000/internal/models"
)

// ToModelLedgerLink converts a domain LedgerLink into the nullable column
// value: nil for no link, the entry ID for a real reference, and the stored
// sentinel for external coverage.
func ToModelLedgerLink(l domain.LedgerLink) *string {
	if entryID, ok := l.EntryID(); ok {
		return &entryID
	}
	if l.IsExternallyCovered() {
		marker := models.ExternalCoverageMarker
		return &marker
	}
	return nil
}

// ToDomainLedgerLink converts the stored column value back into a LedgerLink.
func ToDomainLedgerLink(v *string) domain.LedgerLink {
	if v == nil {
		return domain.NoLink()
	}
	if *v == models.ExternalCoverageMarker {
		return domain.ExternallyCovered()
	}
	return domain.LinkToEntry(*v)
}

// ToModelInstallment converts a domain Installment to a model Installment
func ToModelInstallment(d domain.Installment) models.Installment {
	return models.Installment{
		InstallmentID:       d.InstallmentID,
		BookingID:           d.BookingID,
		InstallmentNumber:   d.Number,
		DueDate:             d.DueDate,
		Amount:              d.Amount,
		PaidAmount:          d.PaidAmount,
		Status:              models.InstallmentStatus(d.Status),
		PaidDate:            d.PaidDate,
		LinkedLedgerEntryID: ToModelLedgerLink(d.Link),
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInstallment converts a model Installment to a domain Installment
func ToDomainInstallment(m models.Installment) domain.Installment {
	return domain.Installment{
		InstallmentID: m.InstallmentID,
		BookingID:     m.BookingID,
		Number:        m.InstallmentNumber,
		DueDate:       m.DueDate,
		Amount:        m.Amount,
		PaidAmount:    m.PaidAmount,
		Status:        domain.InstallmentStatus(m.Status),
		PaidDate:      m.PaidDate,
		Link:          ToDomainLedgerLink(m.LinkedLedgerEntryID),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInstallmentSlice converts a slice of model Installments to a slice of domain Installments
func ToDomainInstallmentSlice(ms []models.Installment) []domain.Installment {
	ds := make([]domain.Installment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInstallment(m)
	}
	return ds
}
