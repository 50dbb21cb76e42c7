package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hasnin090/tariq-sub000/internal/apperrors"
	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	portsrepo "github.com/hasnin090/tariq-sub000/internal/core/ports/repositories"
	portssvc "github.com/hasnin090/tariq-sub000/internal/core/ports/services"
	"github.com/hasnin090/tariq-sub000/internal/dto"
	"github.com/hasnin090/tariq-sub000/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	ErrBookingCompleted = errors.New("booking is already completed")
	ErrOverpayment      = errors.New("payment exceeds the remaining balance")
)

// extraPaymentService records out-of-plan payments. The ledger write, the
// audit record and the reschedule of the unpaid plan commit together or not
// at all.
type extraPaymentService struct {
	bookingRepo     portsrepo.BookingRepositoryFacade
	installmentRepo portsrepo.InstallmentRepositoryFacade
	ledgerRepo      portsrepo.LedgerRepositoryWithTx
	ledgerSvc       portssvc.LedgerReaderSvcFacade
	events          portssvc.LifecycleEventPublisher
	rescheduler     Rescheduler
}

// NewExtraPaymentService creates a new ExtraPaymentSvcFacade.
func NewExtraPaymentService(
	bookingRepo portsrepo.BookingRepositoryFacade,
	installmentRepo portsrepo.InstallmentRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryWithTx,
	ledgerSvc portssvc.LedgerReaderSvcFacade,
	events portssvc.LifecycleEventPublisher,
) portssvc.ExtraPaymentSvcFacade {
	return &extraPaymentService{
		bookingRepo:     bookingRepo,
		installmentRepo: installmentRepo,
		ledgerRepo:      ledgerRepo,
		ledgerSvc:       ledgerSvc,
		events:          events,
	}
}

var _ portssvc.ExtraPaymentSvcFacade = (*extraPaymentService)(nil)

// RecordExtraPayment validates the payment against the live remaining balance,
// writes the ledger entry and audit record, and reschedules the unpaid plan
// under the chosen strategy. A payment that lands exactly on the remaining
// balance closes the booking instead of rescheduling. It returns the created
// entry and the resulting unpaid schedule.
func (s *extraPaymentService) RecordExtraPayment(ctx context.Context, bookingID string, req dto.ExtraPaymentRequest, userID string) (*domain.LedgerEntry, []domain.Installment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: payment amount must be positive, got %s", apperrors.ErrValidation, req.Amount.String())
	}

	strategy, err := req.ToStrategy()
	if err != nil {
		return nil, nil, err
	}

	booking, err := s.bookingRepo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find booking %s: %w", bookingID, err)
	}
	if booking.Status == domain.BookingCompleted {
		return nil, nil, fmt.Errorf("%w: booking %s: %s", apperrors.ErrValidation, bookingID, ErrBookingCompleted)
	}

	summary, err := s.ledgerSvc.GetRemaining(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if req.Amount.GreaterThan(summary.Remaining) {
		return nil, nil, fmt.Errorf("%w: %s (amount %s, remaining %s)", apperrors.ErrValidation, ErrOverpayment, req.Amount.String(), summary.Remaining.String())
	}

	installments, err := s.installmentRepo.FindInstallmentsByBookingID(ctx, bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load schedule for booking %s: %w", bookingID, err)
	}

	now := time.Now().UTC()
	remainingAfter := summary.Remaining.Sub(req.Amount)
	payoff := remainingAfter.IsZero()

	var plan *ReschedulePlan
	if payoff {
		plan = s.rescheduler.FullPayoff(installments, now, userID)
	} else {
		plan, err = s.rescheduler.Plan(*booking, installments, remainingAfter, strategy, now, userID)
		if err != nil {
			return nil, nil, err
		}
	}

	kind := domain.KindExtra
	if payoff {
		kind = domain.KindFinal
	}
	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		BookingID:   bookingID,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate.UTC(),
		Kind:        kind,
		Note:        req.Note,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	record := domain.ExtraPayment{
		ExtraPaymentID:        uuid.NewString(),
		BookingID:             bookingID,
		LedgerEntryID:         entry.EntryID,
		Amount:                req.Amount,
		PaymentDate:           entry.PaymentDate,
		Method:                req.Method,
		Strategy:              strategy.Name(),
		ResultingInstallments: plan.ResultingCount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	mutation := portsrepo.LedgerMutation{
		BookingID:            bookingID,
		InsertEntries:        []domain.LedgerEntry{entry},
		UpdateInstallments:   plan.UpdateInstallments,
		InsertInstallments:   plan.InsertInstallments,
		DeleteInstallmentIDs: plan.DeleteInstallmentIDs,
		InsertExtraPayments:  []domain.ExtraPayment{record},
		UpdateBooking:        plan.BookingUpdate,
	}
	if payoff {
		completed := *booking
		completed.Status = domain.BookingCompleted
		completed.LastUpdatedAt = now
		completed.LastUpdatedBy = userID
		mutation.UpdateBooking = &completed
		mutation.UnitStatus = &portsrepo.UnitStatusChange{UnitID: booking.UnitID, Status: domain.UnitSold}
	}

	if err := s.ledgerRepo.Apply(ctx, mutation); err != nil {
		logger.Error("Failed to apply extra payment", slog.String("error", err.Error()), slog.String("booking_id", bookingID))
		return nil, nil, fmt.Errorf("failed to record extra payment for booking %s: %w", bookingID, err)
	}

	logger.Info("Extra payment recorded",
		slog.String("booking_id", bookingID),
		slog.String("entry_id", entry.EntryID),
		slog.String("amount", req.Amount.String()),
		slog.String("strategy", strategy.Name()),
		slog.Bool("payoff", payoff))

	if payoff {
		s.events.BookingCompleted(ctx, bookingID)
	}

	// Return the schedule as the caller will now see it.
	updated, err := s.installmentRepo.FindInstallmentsByBookingID(ctx, bookingID)
	if err != nil {
		return &entry, nil, fmt.Errorf("extra payment committed but reloading schedule failed: %w", err)
	}
	return &entry, updated, nil
}
