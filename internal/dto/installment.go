package dto

import (
	"time"

	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SettleInstallmentRequest defines the payload for settling one scheduled
// installment. The amount is never part of the request: settlement always
// pays the installment's outstanding amount in full.
type SettleInstallmentRequest struct {
	PaymentDate   *time.Time `json:"paymentDate"`
	AttachmentRef string     `json:"attachmentRef"`
	Note          string     `json:"note"`
}

// InstallmentResponse defines the data returned for an installment.
type InstallmentResponse struct {
	InstallmentID       string          `json:"installmentID"`
	BookingID           string          `json:"bookingID"`
	InstallmentNumber   int             `json:"installmentNumber"`
	DueDate             time.Time       `json:"dueDate"`
	Amount              decimal.Decimal `json:"amount"`
	PaidAmount          decimal.Decimal `json:"paidAmount"`
	Status              string          `json:"status"`
	PaidDate            *time.Time      `json:"paidDate,omitempty"`
	LinkedLedgerEntryID string          `json:"linkedLedgerEntryID,omitempty"`
	ExternallyCovered   bool            `json:"externallyCovered,omitempty"`
}

// ToInstallmentResponse converts a domain.Installment to InstallmentResponse DTO.
func ToInstallmentResponse(inst *domain.Installment) InstallmentResponse {
	resp := InstallmentResponse{
		InstallmentID:     inst.InstallmentID,
		BookingID:         inst.BookingID,
		InstallmentNumber: inst.Number,
		DueDate:           inst.DueDate,
		Amount:            inst.Amount,
		PaidAmount:        inst.PaidAmount,
		Status:            string(inst.Status),
		PaidDate:          inst.PaidDate,
	}
	if entryID, ok := inst.Link.EntryID(); ok {
		resp.LinkedLedgerEntryID = entryID
	}
	resp.ExternallyCovered = inst.Link.IsExternallyCovered()
	return resp
}

// ToInstallmentResponses converts a slice of domain.Installment to []InstallmentResponse.
func ToInstallmentResponses(insts []domain.Installment) []InstallmentResponse {
	responses := make([]InstallmentResponse, len(insts))
	for i, inst := range insts {
		responses[i] = ToInstallmentResponse(&inst)
	}
	return responses
}
