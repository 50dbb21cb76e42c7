package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hasnin090/tariq-sub000/internal/apperrors"
	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	portsrepo "github.com/hasnin090/tariq-sub000/internal/core/ports/repositories"
	portssvc "github.com/hasnin090/tariq-sub000/internal/core/ports/services"
	"github.com/hasnin090/tariq-sub000/internal/core/services"
	"github.com/hasnin090/tariq-sub000/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExtraPaymentServiceTestSuite struct {
	suite.Suite
	mockBookingRepo     *MockBookingRepository
	mockInstallmentRepo *MockInstallmentRepository
	mockLedgerRepo      *MockLedgerRepository
	mockUnitRepo        *MockUnitRepository
	mockEvents          *MockEventPublisher
	service             portssvc.ExtraPaymentSvcFacade

	userID   string
	unit     domain.Unit
	booking  domain.Booking
	schedule []domain.Installment
}

func TestExtraPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExtraPaymentServiceTestSuite))
}

func (s *ExtraPaymentServiceTestSuite) SetupTest() {
	s.mockBookingRepo = new(MockBookingRepository)
	s.mockInstallmentRepo = new(MockInstallmentRepository)
	s.mockLedgerRepo = new(MockLedgerRepository)
	s.mockUnitRepo = new(MockUnitRepository)
	s.mockEvents = new(MockEventPublisher)

	ledgerSvc := services.NewLedgerReaderService(s.mockLedgerRepo, s.mockBookingRepo, s.mockUnitRepo)
	s.service = services.NewExtraPaymentService(
		s.mockBookingRepo,
		s.mockInstallmentRepo,
		s.mockLedgerRepo,
		ledgerSvc,
		s.mockEvents,
	)

	s.userID = uuid.NewString()

	// A 120,000,000 unit on a 5-year semi-annual plan. The ledger holds
	// 45,000,000: the 30,000,000 deposit, the settled first installment of
	// 9,000,000 and an earlier extra payment of 6,000,000 whose reschedule
	// left installments #2 through #10 summing to the remaining 75,000,000.
	s.unit = domain.Unit{
		UnitID: uuid.NewString(),
		Name:   "Tower C / 7",
		Price:  decimal.NewFromInt(120_000_000),
		Status: domain.UnitAvailable,
	}
	s.booking = domain.Booking{
		BookingID:  uuid.NewString(),
		UnitID:     s.unit.UnitID,
		CustomerID: uuid.NewString(),
		Plan: domain.PlanParams{
			Years:           5,
			FrequencyMonths: 6,
			StartDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Status: domain.BookingActive,
	}

	paidDate := time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)
	base := decimal.RequireFromString("8333333.33")
	s.schedule = make([]domain.Installment, 10)
	for i := range s.schedule {
		s.schedule[i] = domain.Installment{
			InstallmentID: uuid.NewString(),
			BookingID:     s.booking.BookingID,
			Number:        i + 1,
			DueDate:       s.booking.Plan.StartDate.AddDate(0, 6*(i+1), 0),
			Amount:        base,
			PaidAmount:    decimal.Zero,
			Status:        domain.InstallmentPending,
			Link:          domain.NoLink(),
		}
	}
	// The last installment absorbed the rounding remainder of the earlier
	// rebalance.
	s.schedule[9].Amount = decimal.RequireFromString("8333333.36")
	s.schedule[0].Amount = decimal.NewFromInt(9_000_000)
	s.schedule[0].Status = domain.InstallmentPaid
	s.schedule[0].PaidAmount = s.schedule[0].Amount
	s.schedule[0].PaidDate = &paidDate
	s.schedule[0].Link = domain.LinkToEntry(uuid.NewString())
}

func (s *ExtraPaymentServiceTestSuite) expectRemaining(totalPaid decimal.Decimal) {
	s.mockBookingRepo.On("FindBookingByID", mock.Anything, s.booking.BookingID).Return(&s.booking, nil)
	s.mockUnitRepo.On("FindUnitByID", mock.Anything, s.unit.UnitID).Return(&s.unit, nil)
	s.mockLedgerRepo.On("SumPaidByBooking", mock.Anything, s.booking.BookingID).Return(totalPaid, nil)
}

func (s *ExtraPaymentServiceTestSuite) TestReduceAmountKeepsDatesAndSumsExactly() {
	ctx := context.Background()
	// Extra 15,000,000 against a remaining 75,000,000: the nine unpaid
	// installments must absorb exactly 60,000,000.
	s.expectRemaining(decimal.NewFromInt(45_000_000))
	s.mockInstallmentRepo.On("FindInstallmentsByBookingID", mock.Anything, s.booking.BookingID).Return(s.schedule, nil)

	var applied portsrepo.LedgerMutation
	s.mockLedgerRepo.On("Apply", mock.Anything, mock.AnythingOfType("repositories.LedgerMutation")).
		Run(func(args mock.Arguments) {
			applied = args.Get(1).(portsrepo.LedgerMutation)
		}).Return(nil).Once()

	req := dto.ExtraPaymentRequest{
		Amount:      decimal.NewFromInt(15_000_000),
		PaymentDate: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		Method:      "transfer",
		Strategy:    dto.StrategyReduceAmount,
	}
	entry, updated, err := s.service.RecordExtraPayment(ctx, s.booking.BookingID, req, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.KindExtra, entry.Kind)
	s.True(entry.Amount.Equal(decimal.NewFromInt(15_000_000)))
	s.NotNil(updated)

	// Same nine unpaid installments, same numbers and due dates, amounts
	// summing to exactly 60,000,000.
	s.Require().Len(applied.UpdateInstallments, 9)
	s.Empty(applied.InsertInstallments)
	s.Empty(applied.DeleteInstallmentIDs)
	sum := decimal.Zero
	for i, inst := range applied.UpdateInstallments {
		s.Equal(s.schedule[i+1].Number, inst.Number)
		s.True(inst.DueDate.Equal(s.schedule[i+1].DueDate))
		sum = sum.Add(inst.Amount)
	}
	s.True(sum.Equal(decimal.NewFromInt(60_000_000)), "rebalanced sum %s", sum)

	// Audit record rides in the same unit of work.
	s.Require().Len(applied.InsertExtraPayments, 1)
	record := applied.InsertExtraPayments[0]
	s.Equal(entry.EntryID, record.LedgerEntryID)
	s.Equal("REDUCE_AMOUNT", record.Strategy)
	s.Equal(9, record.ResultingInstallments)

	s.Nil(applied.UpdateBooking)
	s.mockEvents.AssertNotCalled(s.T(), "BookingCompleted", mock.Anything, mock.Anything)
}

func (s *ExtraPaymentServiceTestSuite) TestReduceAmountUnevenRemainderGoesToLastInstallment() {
	ctx := context.Background()
	// Remaining after: 75,000,000 - 10,000,000 = 65,000,000 over nine
	// installments does not divide evenly.
	s.expectRemaining(decimal.NewFromInt(45_000_000))
	s.mockInstallmentRepo.On("FindInstallmentsByBookingID", mock.Anything, s.booking.BookingID).Return(s.schedule, nil)

	var applied portsrepo.LedgerMutation
	s.mockLedgerRepo.On("Apply", mock.Anything, mock.AnythingOfType("repositories.LedgerMutation")).
		Run(func(args mock.Arguments) {
			applied = args.Get(1).(portsrepo.LedgerMutation)
		}).Return(nil).Once()

	req := dto.ExtraPaymentRequest{
		Amount:      decimal.NewFromInt(10_000_000),
		PaymentDate: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		Strategy:    dto.StrategyReduceAmount,
	}
	_, _, err := s.service.RecordExtraPayment(ctx, s.booking.BookingID, req, s.userID)

	s.Require().NoError(err)
	s.Require().Len(applied.UpdateInstallments, 9)
	sum := decimal.Zero
	for _, inst := range applied.UpdateInstallments {
		sum = sum.Add(inst.Amount)
	}
	s.True(sum.Equal(decimal.NewFromInt(65_000_000)), "rebalanced sum %s", sum)
	// All but the last share the rounded base amount.
	base := applied.UpdateInstallments[0].Amount
	for _, inst := range applied.UpdateInstallments[:8] {
		s.True(inst.Amount.Equal(base))
	}
}

func (s *ExtraPaymentServiceTestSuite) TestNewPlanRegeneratesSchedule() {
	ctx := context.Background()
	s.expectRemaining(decimal.NewFromInt(45_000_000))
	s.mockInstallmentRepo.On("FindInstallmentsByBookingID", mock.Anything, s.booking.BookingID).Return(s.schedule, nil)

	var applied portsrepo.LedgerMutation
	s.mockLedgerRepo.On("Apply", mock.Anything, mock.AnythingOfType("repositories.LedgerMutation")).
		Run(func(args mock.Arguments) {
			applied = args.Get(1).(portsrepo.LedgerMutation)
		}).Return(nil).Once()

	newStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	req := dto.ExtraPaymentRequest{
		Amount:      decimal.NewFromInt(15_000_000),
		PaymentDate: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		Strategy:    dto.StrategyNewPlan,
		NewPlan: &dto.NewPlanRequest{
			Years:           4,
			FrequencyMonths: 12,
			StartDate:       newStart,
		},
	}
	_, _, err := s.service.RecordExtraPayment(ctx, s.booking.BookingID, req, s.userID)

	s.Require().NoError(err)

	// The nine unpaid installments are dropped; four annual ones replace
	// them, numbered after the highest paid installment.
	s.Require().Len(applied.DeleteInstallmentIDs, 9)
	s.Require().Len(applied.InsertInstallments, 4)
	sum := decimal.Zero
	for i, inst := range applied.InsertInstallments {
		s.Equal(2+i, inst.Number)
		s.True(inst.DueDate.Equal(newStart.AddDate(0, 12*i, 0)))
		sum = sum.Add(inst.Amount)
	}
	s.True(sum.Equal(decimal.NewFromInt(60_000_000)), "new schedule sum %s", sum)

	s.Require().NotNil(applied.UpdateBooking)
	s.Equal(4, applied.UpdateBooking.Plan.Years)
	s.Equal(12, applied.UpdateBooking.Plan.FrequencyMonths)
	s.True(applied.UpdateBooking.Plan.StartDate.Equal(newStart))
	s.Equal(domain.BookingActive, applied.UpdateBooking.Status)

	s.Require().Len(applied.InsertExtraPayments, 1)
	s.Equal("NEW_PLAN", applied.InsertExtraPayments[0].Strategy)
	s.Equal(4, applied.InsertExtraPayments[0].ResultingInstallments)
}

func (s *ExtraPaymentServiceTestSuite) TestNewPlanWithoutParametersIsRejected() {
	ctx := context.Background()

	req := dto.ExtraPaymentRequest{
		Amount:      decimal.NewFromInt(15_000_000),
		PaymentDate: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		Strategy:    dto.StrategyNewPlan,
	}
	_, _, err := s.service.RecordExtraPayment(ctx, s.booking.BookingID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "Apply", mock.Anything, mock.Anything)
}

func (s *ExtraPaymentServiceTestSuite) TestOverpaymentIsRejected() {
	ctx := context.Background()
	s.expectRemaining(decimal.NewFromInt(45_000_000))

	req := dto.ExtraPaymentRequest{
		Amount:      decimal.NewFromInt(90_000_000),
		PaymentDate: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		Strategy:    dto.StrategyReduceAmount,
	}
	entry, updated, err := s.service.RecordExtraPayment(ctx, s.booking.BookingID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Nil(entry)
	s.Nil(updated)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "Apply", mock.Anything, mock.Anything)
}

func (s *ExtraPaymentServiceTestSuite) TestNonPositiveAmountIsRejected() {
	ctx := context.Background()

	req := dto.ExtraPaymentRequest{
		Amount:      decimal.Zero,
		PaymentDate: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		Strategy:    dto.StrategyReduceAmount,
	}
	_, _, err := s.service.RecordExtraPayment(ctx, s.booking.BookingID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockBookingRepo.AssertNotCalled(s.T(), "FindBookingByID", mock.Anything, mock.Anything)
}

func (s *ExtraPaymentServiceTestSuite) TestCompletedBookingRejectsExtraPayment() {
	ctx := context.Background()
	s.booking.Status = domain.BookingCompleted
	s.mockBookingRepo.On("FindBookingByID", mock.Anything, s.booking.BookingID).Return(&s.booking, nil)

	req := dto.ExtraPaymentRequest{
		Amount:      decimal.NewFromInt(1_000_000),
		PaymentDate: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		Strategy:    dto.StrategyReduceAmount,
	}
	_, _, err := s.service.RecordExtraPayment(ctx, s.booking.BookingID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "Apply", mock.Anything, mock.Anything)
}

func (s *ExtraPaymentServiceTestSuite) TestExactPayoffClosesBooking() {
	ctx := context.Background()
	s.expectRemaining(decimal.NewFromInt(45_000_000))
	s.mockInstallmentRepo.On("FindInstallmentsByBookingID", mock.Anything, s.booking.BookingID).Return(s.schedule, nil)

	var applied portsrepo.LedgerMutation
	s.mockLedgerRepo.On("Apply", mock.Anything, mock.AnythingOfType("repositories.LedgerMutation")).
		Run(func(args mock.Arguments) {
			applied = args.Get(1).(portsrepo.LedgerMutation)
		}).Return(nil).Once()
	s.mockEvents.On("BookingCompleted", mock.Anything, s.booking.BookingID).Once()

	req := dto.ExtraPaymentRequest{
		Amount:      decimal.NewFromInt(75_000_000),
		PaymentDate: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		Strategy:    dto.StrategyReduceAmount,
	}
	entry, _, err := s.service.RecordExtraPayment(ctx, s.booking.BookingID, req, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.KindFinal, entry.Kind)

	// Every unpaid installment flips to paid with the sentinel link and a
	// zero paid amount, so the ledger sum stays the single source of truth.
	s.Require().Len(applied.UpdateInstallments, 9)
	for _, inst := range applied.UpdateInstallments {
		s.Equal(domain.InstallmentPaid, inst.Status)
		s.True(inst.PaidAmount.IsZero())
		s.True(inst.Link.IsExternallyCovered())
		s.NotNil(inst.PaidDate)
	}

	s.Require().NotNil(applied.UpdateBooking)
	s.Equal(domain.BookingCompleted, applied.UpdateBooking.Status)
	s.Require().NotNil(applied.UnitStatus)
	s.Equal(domain.UnitSold, applied.UnitStatus.Status)

	s.Require().Len(applied.InsertExtraPayments, 1)
	s.Equal(0, applied.InsertExtraPayments[0].ResultingInstallments)

	s.mockEvents.AssertExpectations(s.T())
}
