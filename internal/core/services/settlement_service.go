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
	"github.com/hasnin090/tariq-sub000/internal/utils/schedule"
	"github.com/shopspring/decimal"
)

var (
	ErrAlreadySettled      = errors.New("installment is already settled")
	ErrAttachmentRequired  = errors.New("a payment attachment reference is required")
	ErrNotSettled          = errors.New("installment is not settled")
	ErrCoveredExternally   = errors.New("installment was covered by an extra or final payment; delete that ledger entry instead")
	ErrNothingOutstanding  = errors.New("installment has nothing outstanding to settle")
	ErrExceedsRemaining    = errors.New("payment amount exceeds the remaining balance")
	ErrBookingHasRemaining = errors.New("no unpaid installments remain to absorb the balance")
)

// settlementService enforces the sequential gate and executes settlement,
// reversal and ledger entry deletion as atomic units of work.
type settlementService struct {
	installmentRepo   portsrepo.InstallmentRepositoryFacade
	bookingRepo       portsrepo.BookingRepositoryFacade
	ledgerRepo        portsrepo.LedgerRepositoryWithTx
	ledgerSvc         portssvc.LedgerReaderSvcFacade
	events            portssvc.LifecycleEventPublisher
	requireAttachment bool
}

// SettlementOption customizes the settlement service.
type SettlementOption func(*settlementService)

// WithAttachmentRequired makes settlement refuse to run without an attachment
// reference. The check happens before any write; a missing attachment leaves
// no partial state.
func WithAttachmentRequired(required bool) SettlementOption {
	return func(s *settlementService) {
		s.requireAttachment = required
	}
}

// NewSettlementService creates a new SettlementSvcFacade.
func NewSettlementService(
	installmentRepo portsrepo.InstallmentRepositoryFacade,
	bookingRepo portsrepo.BookingRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryWithTx,
	ledgerSvc portssvc.LedgerReaderSvcFacade,
	events portssvc.LifecycleEventPublisher,
	opts ...SettlementOption,
) portssvc.SettlementSvcFacade {
	s := &settlementService{
		installmentRepo: installmentRepo,
		bookingRepo:     bookingRepo,
		ledgerRepo:      ledgerRepo,
		ledgerSvc:       ledgerSvc,
		events:          events,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// SettleInstallment settles one installment in full. The ledger entry amount
// is the installment's outstanding amount (amount − paidAmount); a partial
// top-up is not part of the default flow.
func (s *settlementService) SettleInstallment(ctx context.Context, installmentID string, req dto.SettleInstallmentRequest, userID string) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	inst, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find installment %s: %w", installmentID, err)
	}

	all, err := s.installmentRepo.FindInstallmentsByBookingID(ctx, inst.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule for booking %s: %w", inst.BookingID, err)
	}

	// Sequential gate: #1 is always eligible, #N needs every lower number paid.
	allowed, blocking := schedule.CanSettle(all, inst.Number)
	if !allowed {
		if blocking == inst.Number {
			return nil, fmt.Errorf("%w: installment #%d: %s", apperrors.ErrValidation, inst.Number, ErrAlreadySettled)
		}
		return nil, fmt.Errorf("%w: installment #%d must be settled first", apperrors.ErrValidation, blocking)
	}

	if s.requireAttachment && req.AttachmentRef == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrAttachmentRequired)
	}

	outstanding := inst.Amount.Sub(inst.PaidAmount)
	if outstanding.LessThanOrEqual(decimal.Zero) {
		// An unpaid installment with nothing outstanding means the schedule
		// and the ledger have diverged upstream.
		return nil, fmt.Errorf("%w: installment #%d: %s", apperrors.ErrIntegrity, inst.Number, ErrNothingOutstanding)
	}

	// Totals must be re-read at write time; an earlier read (e.g. from the
	// form that opened this request) may be stale.
	summary, err := s.ledgerSvc.GetRemaining(ctx, inst.BookingID)
	if err != nil {
		return nil, err
	}
	if outstanding.GreaterThan(summary.Remaining) {
		return nil, fmt.Errorf("%w: %s (outstanding %s, remaining %s)", apperrors.ErrValidation, ErrExceedsRemaining, outstanding.String(), summary.Remaining.String())
	}

	now := time.Now().UTC()
	paymentDate := now
	if req.PaymentDate != nil {
		paymentDate = req.PaymentDate.UTC()
	}

	entry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		BookingID:     inst.BookingID,
		Amount:        outstanding,
		PaymentDate:   paymentDate,
		Kind:          domain.KindInstallment,
		AttachmentRef: req.AttachmentRef,
		Note:          req.Note,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	settled := *inst
	settled.Status = domain.InstallmentPaid
	settled.PaidAmount = inst.Amount
	settled.PaidDate = &paymentDate
	settled.Link = domain.LinkToEntry(entry.EntryID)
	settled.LastUpdatedAt = now
	settled.LastUpdatedBy = userID

	mutation := portsrepo.LedgerMutation{
		BookingID:          inst.BookingID,
		InsertEntries:      []domain.LedgerEntry{entry},
		UpdateInstallments: []domain.Installment{settled},
	}

	completed := summary.TotalPaid.Add(outstanding).GreaterThanOrEqual(summary.UnitPrice)
	if completed {
		booking, err := s.bookingRepo.FindBookingByID(ctx, inst.BookingID)
		if err != nil {
			return nil, fmt.Errorf("failed to find booking %s: %w", inst.BookingID, err)
		}
		s.markCompleted(&mutation, booking, now, userID)
	}

	if err := s.ledgerRepo.Apply(ctx, mutation); err != nil {
		logger.Error("Failed to apply settlement", slog.String("error", err.Error()), slog.String("installment_id", installmentID))
		return nil, fmt.Errorf("failed to settle installment %s: %w", installmentID, err)
	}

	logger.Info("Installment settled",
		slog.String("installment_id", installmentID),
		slog.String("booking_id", inst.BookingID),
		slog.String("entry_id", entry.EntryID),
		slog.String("amount", outstanding.String()))

	if completed {
		s.events.BookingCompleted(ctx, inst.BookingID)
	}
	return &entry, nil
}

// ReverseSettlement undoes a settlement: it deletes the funding ledger entry
// and returns the installment to pending or overdue according to its due
// date. A sentinel-linked installment cannot be reversed on its own; its
// money lives in the covering extra or final entry, so resetting just the
// installment would break the schedule-versus-ledger balance. Those reversals
// go through DeleteLedgerEntry on the covering entry, which unwinds every
// installment it covered and rebalances the schedule.
func (s *settlementService) ReverseSettlement(ctx context.Context, installmentID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	inst, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return fmt.Errorf("failed to find installment %s: %w", installmentID, err)
	}
	if !inst.IsPaid() {
		return fmt.Errorf("%w: installment #%d: %s", apperrors.ErrIntegrity, inst.Number, ErrNotSettled)
	}
	if inst.Link.IsExternallyCovered() {
		return fmt.Errorf("%w: installment #%d: %s", apperrors.ErrValidation, inst.Number, ErrCoveredExternally)
	}

	summary, err := s.ledgerSvc.GetRemaining(ctx, inst.BookingID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	reversedAmount := decimal.Zero
	mutation := portsrepo.LedgerMutation{BookingID: inst.BookingID}

	if entryID, ok := inst.Link.EntryID(); ok {
		entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
		switch {
		case err == nil:
			reversedAmount = entry.Amount
			mutation.DeleteEntryIDs = []string{entryID}
		case errors.Is(err, apperrors.ErrNotFound):
			// Entry already removed out of band; the desired end state
			// (installment unpaid) is still reachable, so carry on.
			logger.Warn("Linked ledger entry already missing during reversal", slog.String("entry_id", entryID), slog.String("installment_id", installmentID))
		default:
			return fmt.Errorf("failed to find ledger entry %s: %w", entryID, err)
		}
	}

	mutation.UpdateInstallments = []domain.Installment{resetInstallment(*inst, now, userID)}

	reopened := false
	if booking, err := s.bookingRepo.FindBookingByID(ctx, inst.BookingID); err != nil {
		return fmt.Errorf("failed to find booking %s: %w", inst.BookingID, err)
	} else if booking.Status == domain.BookingCompleted && summary.TotalPaid.Sub(reversedAmount).LessThan(summary.UnitPrice) {
		s.markReopened(&mutation, booking, now, userID)
		reopened = true
	}

	if err := s.ledgerRepo.Apply(ctx, mutation); err != nil {
		logger.Error("Failed to apply reversal", slog.String("error", err.Error()), slog.String("installment_id", installmentID))
		return fmt.Errorf("failed to reverse installment %s: %w", installmentID, err)
	}

	logger.Info("Settlement reversed", slog.String("installment_id", installmentID), slog.String("booking_id", inst.BookingID))

	if reopened {
		s.events.BookingReopened(ctx, inst.BookingID)
	}
	return nil
}

// DeleteLedgerEntry removes a ledger entry and unwinds whatever it funded.
// Deleting an installment-kind entry reverses the linked installment.
// Deleting a deposit, extra or final entry reverts externally covered
// installments to unpaid and redistributes the new remaining balance across
// all unpaid installments so the schedule keeps summing to it exactly.
func (s *settlementService) DeleteLedgerEntry(ctx context.Context, entryID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to find ledger entry %s: %w", entryID, err)
	}

	booking, err := s.bookingRepo.FindBookingByID(ctx, entry.BookingID)
	if err != nil {
		return fmt.Errorf("failed to find booking %s: %w", entry.BookingID, err)
	}

	summary, err := s.ledgerSvc.GetRemaining(ctx, entry.BookingID)
	if err != nil {
		return err
	}

	installments, err := s.installmentRepo.FindInstallmentsByBookingID(ctx, entry.BookingID)
	if err != nil {
		return fmt.Errorf("failed to load schedule for booking %s: %w", entry.BookingID, err)
	}

	now := time.Now().UTC()
	mutation := portsrepo.LedgerMutation{
		BookingID:      entry.BookingID,
		DeleteEntryIDs: []string{entryID},
	}

	if entry.Kind == domain.KindInstallment {
		// Unwind the installment this entry funded, if it still exists.
		for _, inst := range installments {
			if linked, ok := inst.Link.EntryID(); ok && linked == entryID {
				mutation.UpdateInstallments = append(mutation.UpdateInstallments, resetInstallment(inst, now, userID))
				break
			}
		}
	} else {
		remainingAfter := summary.Remaining.Add(entry.Amount)
		updates, err := s.rebalanceAfterDeletion(installments, remainingAfter, now, userID)
		if err != nil {
			return err
		}
		mutation.UpdateInstallments = updates
	}

	reopened := false
	if booking.Status == domain.BookingCompleted && summary.TotalPaid.Sub(entry.Amount).LessThan(summary.UnitPrice) {
		s.markReopened(&mutation, booking, now, userID)
		reopened = true
	}

	if err := s.ledgerRepo.Apply(ctx, mutation); err != nil {
		logger.Error("Failed to apply ledger entry deletion", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete ledger entry %s: %w", entryID, err)
	}

	logger.Info("Ledger entry deleted",
		slog.String("entry_id", entryID),
		slog.String("booking_id", entry.BookingID),
		slog.String("kind", string(entry.Kind)),
		slog.String("amount", entry.Amount.String()))

	if reopened {
		s.events.BookingReopened(ctx, entry.BookingID)
	}
	return nil
}

// rebalanceAfterDeletion reverts externally covered installments to unpaid and
// redistributes the grown remaining balance across every unpaid installment.
func (s *settlementService) rebalanceAfterDeletion(installments []domain.Installment, remainingAfter decimal.Decimal, now time.Time, userID string) ([]domain.Installment, error) {
	unpaid := make([]domain.Installment, 0, len(installments))
	for _, inst := range installments {
		if inst.Link.IsExternallyCovered() {
			unpaid = append(unpaid, resetInstallment(inst, now, userID))
		} else if !inst.IsPaid() {
			unpaid = append(unpaid, inst)
		}
	}
	if len(unpaid) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrIntegrity, ErrBookingHasRemaining)
	}

	amounts, err := schedule.SplitEvenly(remainingAfter, len(unpaid))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrIntegrity, err)
	}

	updates := make([]domain.Installment, len(unpaid))
	for i, inst := range unpaid {
		inst.Amount = amounts[i]
		inst.LastUpdatedAt = now
		inst.LastUpdatedBy = userID
		updates[i] = inst
	}
	return updates, nil
}

// resetInstallment returns an installment to its unpaid state, recomputing
// pending versus overdue from today against the due date.
func resetInstallment(inst domain.Installment, now time.Time, userID string) domain.Installment {
	inst.Status = schedule.StatusForDueDate(inst.DueDate, now)
	inst.PaidAmount = decimal.Zero
	inst.PaidDate = nil
	inst.Link = domain.NoLink()
	inst.LastUpdatedAt = now
	inst.LastUpdatedBy = userID
	return inst
}

func (s *settlementService) markCompleted(mutation *portsrepo.LedgerMutation, booking *domain.Booking, now time.Time, userID string) {
	b := *booking
	b.Status = domain.BookingCompleted
	b.LastUpdatedAt = now
	b.LastUpdatedBy = userID
	mutation.UpdateBooking = &b
	mutation.UnitStatus = &portsrepo.UnitStatusChange{UnitID: b.UnitID, Status: domain.UnitSold}
}

func (s *settlementService) markReopened(mutation *portsrepo.LedgerMutation, booking *domain.Booking, now time.Time, userID string) {
	b := *booking
	b.Status = domain.BookingActive
	b.LastUpdatedAt = now
	b.LastUpdatedBy = userID
	mutation.UpdateBooking = &b
	mutation.UnitStatus = &portsrepo.UnitStatusChange{UnitID: b.UnitID, Status: domain.UnitAvailable}
}
