package repositories

import (
	"context"

	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UnitStatusChange flips a unit's availability as part of a ledger unit of work.
type UnitStatusChange struct {
	UnitID string
	Status domain.UnitStatus
}

// LedgerMutation describes one atomic unit of work against a single booking:
// ledger writes plus every schedule, booking and unit change they imply.
// Apply persists the whole mutation in one database transaction and verifies
// the ledger/schedule invariants before committing; any failure rolls the
// entire mutation back, including the ledger writes.
type LedgerMutation struct {
	BookingID string

	InsertBooking *domain.Booking // Only set when the booking itself is being created

	InsertEntries  []domain.LedgerEntry
	DeleteEntryIDs []string

	InsertInstallments   []domain.Installment
	UpdateInstallments   []domain.Installment
	DeleteInstallmentIDs []string

	InsertExtraPayments []domain.ExtraPayment

	UpdateBooking *domain.Booking // Plan and/or status update
	UnitStatus    *UnitStatusChange
}

// LedgerReader defines read operations for ledger data.
type LedgerReader interface {
	// SumPaidByBooking returns the sum of all ledger entry amounts for a
	// booking. This is the sole source of truth for the amount paid.
	SumPaidByBooking(ctx context.Context, bookingID string) (decimal.Decimal, error)

	// FindEntryByID retrieves a specific ledger entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListEntriesByBooking retrieves a paginated list of ledger entries for a
	// booking using token-based pagination. It returns the entries, a token
	// for the next page, and an error.
	ListEntriesByBooking(ctx context.Context, bookingID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// ExtraPaymentReader defines read operations for the extra payment audit trail.
type ExtraPaymentReader interface {
	// ListExtraPaymentsByBooking retrieves all extra payment records of a
	// booking, newest first.
	ListExtraPaymentsByBooking(ctx context.Context, bookingID string) ([]domain.ExtraPayment, error)
}

// LedgerWriter defines write operations for ledger data.
type LedgerWriter interface {
	// Apply persists a ledger mutation atomically.
	Apply(ctx context.Context, mutation LedgerMutation) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	ExtraPaymentReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities.
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
