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
	ErrUnitNotAvailable = errors.New("unit is not available for booking")
	ErrDepositTooLarge  = errors.New("down payment must be less than the unit price")
	ErrDepositNegative  = errors.New("down payment cannot be negative")
)

// bookingService creates bookings and reads them back with their schedules.
type bookingService struct {
	unitRepo        portsrepo.UnitRepositoryFacade
	customerRepo    portsrepo.CustomerRepositoryFacade
	bookingRepo     portsrepo.BookingRepositoryFacade
	installmentRepo portsrepo.InstallmentRepositoryFacade
	ledgerRepo      portsrepo.LedgerRepositoryWithTx
}

// NewBookingService creates a new BookingSvcFacade.
func NewBookingService(
	unitRepo portsrepo.UnitRepositoryFacade,
	customerRepo portsrepo.CustomerRepositoryFacade,
	bookingRepo portsrepo.BookingRepositoryFacade,
	installmentRepo portsrepo.InstallmentRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryWithTx,
) portssvc.BookingSvcFacade {
	return &bookingService{
		unitRepo:        unitRepo,
		customerRepo:    customerRepo,
		bookingRepo:     bookingRepo,
		installmentRepo: installmentRepo,
		ledgerRepo:      ledgerRepo,
	}
}

var _ portssvc.BookingSvcFacade = (*bookingService)(nil)

// CreateBooking creates a booking, its deposit ledger entry and its initial
// installment schedule in one unit of work. The schedule spreads the unit
// price minus the down payment over the plan's installment count, with the
// last installment absorbing the rounding residual.
func (s *bookingService) CreateBooking(ctx context.Context, req dto.CreateBookingRequest, creatorUserID string) (*domain.Booking, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	plan := domain.PlanParams{
		Years:           req.Years,
		FrequencyMonths: req.FrequencyMonths,
		StartDate:       req.StartDate.UTC(),
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	if req.DownPayment.IsNegative() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrDepositNegative)
	}

	unit, err := s.unitRepo.FindUnitByID(ctx, req.UnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to find unit %s: %w", req.UnitID, err)
	}
	if unit.Status != domain.UnitAvailable {
		return nil, fmt.Errorf("%w: unit %s: %s", apperrors.ErrValidation, req.UnitID, ErrUnitNotAvailable)
	}

	if _, err := s.customerRepo.FindCustomerByID(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", req.CustomerID, err)
	}

	financed := unit.Price.Sub(req.DownPayment)
	if financed.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s (price %s, down payment %s)", apperrors.ErrValidation, ErrDepositTooLarge, unit.Price.String(), req.DownPayment.String())
	}

	count := plan.InstallmentCount()
	amounts, err := schedule.SplitEvenly(financed, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	dueDates := schedule.DueDates(plan.StartDate, plan.FrequencyMonths, count)

	now := time.Now().UTC()
	plan.PerPeriodAmount = amounts[0]

	booking := domain.Booking{
		BookingID:  uuid.NewString(),
		UnitID:     req.UnitID,
		CustomerID: req.CustomerID,
		Plan:       plan,
		Status:     domain.BookingActive,
		Notes:      req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	mutation := portsrepo.LedgerMutation{
		BookingID:          booking.BookingID,
		InsertBooking:      &booking,
		InsertInstallments: buildInstallments(booking.BookingID, 1, amounts, dueDates, now, creatorUserID),
	}
	if req.DownPayment.IsPositive() {
		mutation.InsertEntries = []domain.LedgerEntry{{
			EntryID:     uuid.NewString(),
			BookingID:   booking.BookingID,
			Amount:      req.DownPayment,
			PaymentDate: now,
			Kind:        domain.KindBooking,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}}
	}

	if err := s.ledgerRepo.Apply(ctx, mutation); err != nil {
		logger.Error("Failed to create booking", slog.String("error", err.Error()), slog.String("unit_id", req.UnitID))
		return nil, fmt.Errorf("failed to create booking for unit %s: %w", req.UnitID, err)
	}

	logger.Info("Booking created",
		slog.String("booking_id", booking.BookingID),
		slog.String("unit_id", req.UnitID),
		slog.String("customer_id", req.CustomerID),
		slog.Int("installments", count),
		slog.String("down_payment", req.DownPayment.String()))
	return &booking, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find booking %s: %w", bookingID, err)
	}
	return booking, nil
}

func (s *bookingService) GetBookingWithSchedule(ctx context.Context, bookingID string) (*domain.Booking, []domain.Installment, error) {
	booking, err := s.bookingRepo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find booking %s: %w", bookingID, err)
	}
	installments, err := s.installmentRepo.FindInstallmentsByBookingID(ctx, bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load schedule for booking %s: %w", bookingID, err)
	}
	return booking, installments, nil
}

func (s *bookingService) ListBookings(ctx context.Context, limit int, offset int) ([]domain.Booking, error) {
	bookings, err := s.bookingRepo.ListBookings(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
