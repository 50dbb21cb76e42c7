package services

import (
	"context"

	"github.com/hasnin090/tariq-sub000/internal/core/domain"
)

// LedgerReaderSvcFacade computes authoritative totals for a booking from the
// append-only payment ledger, never from a cached field. Callers that write
// based on a remaining value must re-read it immediately before the write.
type LedgerReaderSvcFacade interface {
	GetRemaining(ctx context.Context, bookingID string) (*domain.RemainingSummary, error)
	ListLedgerEntries(ctx context.Context, bookingID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
	ListExtraPayments(ctx context.Context, bookingID string) ([]domain.ExtraPayment, error)
}
