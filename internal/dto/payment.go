package dto

import (
	"fmt"
	"time"

	"github.com/hasnin090/tariq-sub000/internal/apperrors"
	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Strategy names accepted on the wire.
const (
	StrategyReduceAmount = "REDUCE_AMOUNT"
	StrategyNewPlan      = "NEW_PLAN"
)

// NewPlanRequest carries the plan parameters of a NEW_PLAN reschedule.
type NewPlanRequest struct {
	Years           int       `json:"years" binding:"required"`
	FrequencyMonths int       `json:"frequencyMonths" binding:"required"`
	StartDate       time.Time `json:"startDate" binding:"required"`
}

// ExtraPaymentRequest defines the payload for an out-of-plan payment.
type ExtraPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate time.Time       `json:"paymentDate" binding:"required"`
	Method      string          `json:"method"`
	Note        string          `json:"note"`
	Strategy    string          `json:"strategy" binding:"required"`
	NewPlan     *NewPlanRequest `json:"newPlan"`
}

// ToStrategy converts the wire strategy into its domain variant, enforcing
// that NEW_PLAN always arrives with its parameters.
func (r ExtraPaymentRequest) ToStrategy() (domain.RescheduleStrategy, error) {
	switch r.Strategy {
	case StrategyReduceAmount:
		return domain.ReduceAmount{}, nil
	case StrategyNewPlan:
		if r.NewPlan == nil {
			return nil, fmt.Errorf("%w: strategy %s requires newPlan parameters", apperrors.ErrValidation, StrategyNewPlan)
		}
		return domain.NewPlan{
			Years:           r.NewPlan.Years,
			FrequencyMonths: r.NewPlan.FrequencyMonths,
			StartDate:       r.NewPlan.StartDate,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown reschedule strategy %q", apperrors.ErrValidation, r.Strategy)
	}
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	EntryID       string          `json:"entryID"`
	BookingID     string          `json:"bookingID"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"paymentDate"`
	Kind          string          `json:"kind"`
	AttachmentRef string          `json:"attachmentRef,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to LedgerEntryResponse DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:       e.EntryID,
		BookingID:     e.BookingID,
		Amount:        e.Amount,
		PaymentDate:   e.PaymentDate,
		Kind:          string(e.Kind),
		AttachmentRef: e.AttachmentRef,
		Note:          e.Note,
		CreatedAt:     e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of domain.LedgerEntry to []LedgerEntryResponse.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToLedgerEntryResponse(&e)
	}
	return responses
}

// ListLedgerEntriesResponse wraps a page of ledger entries.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ExtraPaymentResponse returns the recorded ledger entry together with the
// schedule as it stands after the reschedule.
type ExtraPaymentResponse struct {
	LedgerEntry     LedgerEntryResponse   `json:"ledgerEntry"`
	UpdatedSchedule []InstallmentResponse `json:"updatedSchedule"`
	BookingStatus   string                `json:"bookingStatus"`
}

// ExtraPaymentRecordResponse defines the data returned for an extra payment
// audit record.
type ExtraPaymentRecordResponse struct {
	ExtraPaymentID        string          `json:"extraPaymentID"`
	LedgerEntryID         string          `json:"ledgerEntryID"`
	Amount                decimal.Decimal `json:"amount"`
	PaymentDate           time.Time       `json:"paymentDate"`
	Method                string          `json:"method,omitempty"`
	Strategy              string          `json:"strategy"`
	ResultingInstallments int             `json:"resultingInstallments"`
}

// ToExtraPaymentRecordResponses converts domain extra payments to DTOs.
func ToExtraPaymentRecordResponses(eps []domain.ExtraPayment) []ExtraPaymentRecordResponse {
	responses := make([]ExtraPaymentRecordResponse, len(eps))
	for i, ep := range eps {
		responses[i] = ExtraPaymentRecordResponse{
			ExtraPaymentID:        ep.ExtraPaymentID,
			LedgerEntryID:         ep.LedgerEntryID,
			Amount:                ep.Amount,
			PaymentDate:           ep.PaymentDate,
			Method:                ep.Method,
			Strategy:              ep.Strategy,
			ResultingInstallments: ep.ResultingInstallments,
		}
	}
	return responses
}
