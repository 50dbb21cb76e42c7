package services

import (
	"context"

	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	"github.com/hasnin090/tariq-sub000/internal/dto"
)

// SettlementSvcFacade defines the gated settlement operations: paying one
// scheduled installment, reversing a settlement, and the admin-only deletion
// of a ledger entry. Every operation is a single atomic unit of work.
type SettlementSvcFacade interface {
	// SettleInstallment settles one installment in full under the
	// sequential-payment rule and returns the created ledger entry.
	SettleInstallment(ctx context.Context, installmentID string, req dto.SettleInstallmentRequest, userID string) (*domain.LedgerEntry, error)

	// ReverseSettlement undoes a settlement: it deletes the funding ledger
	// entry and returns the installment to pending or overdue. Installments
	// covered by an extra or final payment are rejected; callers undo those
	// by deleting the covering ledger entry.
	ReverseSettlement(ctx context.Context, installmentID string, userID string) error

	// DeleteLedgerEntry removes a ledger entry and unwinds whatever it
	// funded, rebalancing the remaining schedule.
	DeleteLedgerEntry(ctx context.Context, entryID string, userID string) error
}

// ExtraPaymentSvcFacade records out-of-plan payments and reschedules the
// unpaid portion of the plan.
type ExtraPaymentSvcFacade interface {
	RecordExtraPayment(ctx context.Context, bookingID string, req dto.ExtraPaymentRequest, userID string) (*domain.LedgerEntry, []domain.Installment, error)
}
