package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hasnin090/tariq-sub000/internal/apperrors"
	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	portsrepo "github.com/hasnin090/tariq-sub000/internal/core/ports/repositories"
	portssvc "github.com/hasnin090/tariq-sub000/internal/core/ports/services"
	"github.com/hasnin090/tariq-sub000/internal/middleware"
)

// ledgerReaderService computes booking totals strictly from the ledger.
type ledgerReaderService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	bookingRepo portsrepo.BookingRepositoryFacade
	unitRepo    portsrepo.UnitRepositoryFacade
}

// NewLedgerReaderService creates a new LedgerReaderSvcFacade.
func NewLedgerReaderService(ledgerRepo portsrepo.LedgerRepositoryFacade, bookingRepo portsrepo.BookingRepositoryFacade, unitRepo portsrepo.UnitRepositoryFacade) portssvc.LedgerReaderSvcFacade {
	return &ledgerReaderService{
		ledgerRepo:  ledgerRepo,
		bookingRepo: bookingRepo,
		unitRepo:    unitRepo,
	}
}

var _ portssvc.LedgerReaderSvcFacade = (*ledgerReaderService)(nil)

// GetRemaining derives {unitPrice, totalPaid, remaining} for a booking. The
// total is always the sum of ledger entries; any cached paid-amount field is
// ignored. A negative remaining means the ledger holds more money than the
// unit costs and is surfaced as an integrity error rather than clamped away.
func (s *ledgerReaderService) GetRemaining(ctx context.Context, bookingID string) (*domain.RemainingSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	booking, err := s.bookingRepo.FindBookingByID(ctx, bookingID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find booking for remaining computation", slog.String("error", err.Error()), slog.String("booking_id", bookingID))
		}
		return nil, fmt.Errorf("failed to find booking %s: %w", bookingID, err)
	}

	unit, err := s.unitRepo.FindUnitByID(ctx, booking.UnitID)
	if err != nil {
		logger.Error("Failed to find unit for remaining computation", slog.String("error", err.Error()), slog.String("unit_id", booking.UnitID))
		return nil, fmt.Errorf("failed to find unit %s: %w", booking.UnitID, err)
	}

	totalPaid, err := s.ledgerRepo.SumPaidByBooking(ctx, bookingID)
	if err != nil {
		logger.Error("Failed to sum ledger entries", slog.String("error", err.Error()), slog.String("booking_id", bookingID))
		return nil, fmt.Errorf("failed to sum ledger entries for booking %s: %w", bookingID, err)
	}

	remaining := unit.Price.Sub(totalPaid)
	if remaining.IsNegative() {
		logger.Error("Ledger total exceeds unit price",
			slog.String("booking_id", bookingID),
			slog.String("unit_price", unit.Price.String()),
			slog.String("total_paid", totalPaid.String()))
		return nil, fmt.Errorf("%w: ledger total %s exceeds unit price %s for booking %s",
			apperrors.ErrIntegrity, totalPaid.String(), unit.Price.String(), bookingID)
	}

	return &domain.RemainingSummary{
		UnitPrice: unit.Price,
		TotalPaid: totalPaid,
		Remaining: remaining,
	}, nil
}

// ListLedgerEntries returns a page of a booking's ledger entries.
func (s *ledgerReaderService) ListLedgerEntries(ctx context.Context, bookingID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if _, err := s.bookingRepo.FindBookingByID(ctx, bookingID); err != nil {
		return nil, nil, fmt.Errorf("failed to find booking %s: %w", bookingID, err)
	}
	return s.ledgerRepo.ListEntriesByBooking(ctx, bookingID, limit, nextToken)
}

// ListExtraPayments returns the full extra payment audit trail of a booking.
func (s *ledgerReaderService) ListExtraPayments(ctx context.Context, bookingID string) ([]domain.ExtraPayment, error) {
	if _, err := s.bookingRepo.FindBookingByID(ctx, bookingID); err != nil {
		return nil, fmt.Errorf("failed to find booking %s: %w", bookingID, err)
	}
	return s.ledgerRepo.ListExtraPaymentsByBooking(ctx, bookingID)
}
