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

type SettlementServiceTestSuite struct {
	suite.Suite
	mockInstallmentRepo *MockInstallmentRepository
	mockBookingRepo     *MockBookingRepository
	mockLedgerRepo      *MockLedgerRepository
	mockUnitRepo        *MockUnitRepository
	mockEvents          *MockEventPublisher
	service             portssvc.SettlementSvcFacade

	userID    string
	unit      domain.Unit
	booking   domain.Booking
	schedule  []domain.Installment
	unitPrice decimal.Decimal
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}

func (s *SettlementServiceTestSuite) SetupTest() {
	s.mockInstallmentRepo = new(MockInstallmentRepository)
	s.mockBookingRepo = new(MockBookingRepository)
	s.mockLedgerRepo = new(MockLedgerRepository)
	s.mockUnitRepo = new(MockUnitRepository)
	s.mockEvents = new(MockEventPublisher)

	ledgerSvc := services.NewLedgerReaderService(s.mockLedgerRepo, s.mockBookingRepo, s.mockUnitRepo)
	s.service = services.NewSettlementService(
		s.mockInstallmentRepo,
		s.mockBookingRepo,
		s.mockLedgerRepo,
		ledgerSvc,
		s.mockEvents,
	)

	s.userID = uuid.NewString()
	s.unitPrice = decimal.NewFromInt(120_000_000)

	s.unit = domain.Unit{
		UnitID: uuid.NewString(),
		Name:   "Block A / 12",
		Price:  s.unitPrice,
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

	// Ten semi-annual installments of 9,000,000 over the financed 90,000,000
	// (30,000,000 down payment already in the ledger).
	s.schedule = make([]domain.Installment, 10)
	for i := range s.schedule {
		s.schedule[i] = domain.Installment{
			InstallmentID: uuid.NewString(),
			BookingID:     s.booking.BookingID,
			Number:        i + 1,
			DueDate:       s.booking.Plan.StartDate.AddDate(0, 6*(i+1), 0),
			Amount:        decimal.NewFromInt(9_000_000),
			PaidAmount:    decimal.Zero,
			Status:        domain.InstallmentPending,
			Link:          domain.NoLink(),
		}
	}
}

// markPaid settles a schedule entry in place for test setup.
func (s *SettlementServiceTestSuite) markPaid(i int) {
	paidDate := time.Now().UTC()
	s.schedule[i].Status = domain.InstallmentPaid
	s.schedule[i].PaidAmount = s.schedule[i].Amount
	s.schedule[i].PaidDate = &paidDate
	s.schedule[i].Link = domain.LinkToEntry(uuid.NewString())
}

func (s *SettlementServiceTestSuite) expectRemaining(totalPaid decimal.Decimal) {
	ctx := mock.Anything
	s.mockBookingRepo.On("FindBookingByID", ctx, s.booking.BookingID).Return(&s.booking, nil)
	s.mockUnitRepo.On("FindUnitByID", ctx, s.unit.UnitID).Return(&s.unit, nil)
	s.mockLedgerRepo.On("SumPaidByBooking", ctx, s.booking.BookingID).Return(totalPaid, nil)
}

func (s *SettlementServiceTestSuite) TestSettleFirstInstallment() {
	ctx := context.Background()
	target := s.schedule[0]

	s.mockInstallmentRepo.On("FindInstallmentByID", mock.Anything, target.InstallmentID).Return(&target, nil)
	s.mockInstallmentRepo.On("FindInstallmentsByBookingID", mock.Anything, s.booking.BookingID).Return(s.schedule, nil)
	s.expectRemaining(decimal.NewFromInt(30_000_000))

	var applied portsrepo.LedgerMutation
	s.mockLedgerRepo.On("Apply", mock.Anything, mock.AnythingOfType("repositories.LedgerMutation")).
		Run(func(args mock.Arguments) {
			applied = args.Get(1).(portsrepo.LedgerMutation)
		}).Return(nil).Once()

	entry, err := s.service.SettleInstallment(ctx, target.InstallmentID, dto.SettleInstallmentRequest{}, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Equal(domain.KindInstallment, entry.Kind)
	s.True(entry.Amount.Equal(decimal.NewFromInt(9_000_000)))

	s.Require().Len(applied.InsertEntries, 1)
	s.Require().Len(applied.UpdateInstallments, 1)
	settled := applied.UpdateInstallments[0]
	s.Equal(domain.InstallmentPaid, settled.Status)
	s.True(settled.PaidAmount.Equal(settled.Amount))
	linkedID, ok := settled.Link.EntryID()
	s.True(ok)
	s.Equal(entry.EntryID, linkedID)
	s.Nil(applied.UpdateBooking)

	s.mockEvents.AssertNotCalled(s.T(), "BookingCompleted", mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestSettleOutOfOrderIsRejected() {
	ctx := context.Background()
	target := s.schedule[2] // #3 while #1 and #2 are unpaid

	s.mockInstallmentRepo.On("FindInstallmentByID", mock.Anything, target.InstallmentID).Return(&target, nil)
	s.mockInstallmentRepo.On("FindInstallmentsByBookingID", mock.Anything, s.booking.BookingID).Return(s.schedule, nil)

	entry, err := s.service.SettleInstallment(ctx, target.InstallmentID, dto.SettleInstallmentRequest{}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "#1")
	s.Nil(entry)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "Apply", mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestSettleNamesLowestBlockerWithGap() {
	ctx := context.Background()
	s.markPaid(0)
	s.markPaid(2) // paid out of band, the gate still points at #2
	target := s.schedule[3]

	s.mockInstallmentRepo.On("FindInstallmentByID", mock.Anything, target.InstallmentID).Return(&target, nil)
	s.mockInstallmentRepo.On("FindInstallmentsByBookingID", mock.Anything, s.booking.BookingID).Return(s.schedule, nil)

	_, err := s.service.SettleInstallment(ctx, target.InstallmentID, dto.SettleInstallmentRequest{}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "#2")
}

func (s *SettlementServiceTestSuite) TestSettleAlreadyPaidIsRejected() {
	ctx := context.Background()
	s.markPaid(0)
	target := s.schedule[0]

	s.mockInstallmentRepo.On("FindInstallmentByID", mock.Anything, target.InstallmentID).Return(&target, nil)
	s.mockInstallmentRepo.On("FindInstallmentsByBookingID", mock.Anything, s.booking.BookingID).Return(s.schedule, nil)

	_, err := s.service.SettleInstallment(ctx, target.InstallmentID, dto.SettleInstallmentRequest{}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "already settled")
}

func (s *SettlementServiceTestSuite) TestSettleRequiresAttachmentWhenConfigured() {
	ctx := context.Background()
	ledgerSvc := services.NewLedgerReaderService(s.mockLedgerRepo, s.mockBookingRepo, s.mockUnitRepo)
	strict := services.NewSettlementService(
		s.mockInstallmentRepo,
		s.mockBookingRepo,
		s.mockLedgerRepo,
		ledgerSvc,
		s.mockEvents,
		services.WithAttachmentRequired(true),
	)
	target := s.schedule[0]

	s.mockInstallmentRepo.On("FindInstallmentByID", mock.Anything, target.InstallmentID).Return(&target, nil)
	s.mockInstallmentRepo.On("FindInstallmentsByBookingID", mock.Anything, s.booking.BookingID).Return(s.schedule, nil)

	_, err := strict.SettleInstallment(ctx, target.InstallmentID, dto.SettleInstallmentRequest{}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "Apply", mock.Anything, mock.Anything)

	// With an attachment the same request goes through.
	s.expectRemaining(decimal.NewFromInt(30_000_000))
	s.mockLedgerRepo.On("Apply", mock.Anything, mock.AnythingOfType("repositories.LedgerMutation")).Return(nil).Once()

	entry, err := strict.SettleInstallment(ctx, target.InstallmentID, dto.SettleInstallmentRequest{AttachmentRef: "receipt-042"}, s.userID)
	s.Require().NoError(err)
	s.Equal("receipt-042", entry.AttachmentRef)
}

func (s *SettlementServiceTestSuite) TestSettleLastInstallmentCompletesBooking() {
	ctx := context.Background()
	for i := 0; i < 9; i++ {
		s.markPaid(i)
	}
	target := s.schedule[9]

	s.mockInstallmentRepo.On("FindInstallmentByID", mock.Anything, target.InstallmentID).Return(&target, nil)
	s.mockInstallmentRepo.On("FindInstallmentsByBookingID", mock.Anything, s.booking.BookingID).Return(s.schedule, nil)
	// 30M deposit + 9 settled installments of 9M
	s.expectRemaining(decimal.NewFromInt(111_000_000))

	var applied portsrepo.LedgerMutation
	s.mockLedgerRepo.On("Apply", mock.Anything, mock.AnythingOfType("repositories.LedgerMutation")).
		Run(func(args mock.Arguments) {
			applied = args.Get(1).(portsrepo.LedgerMutation)
		}).Return(nil).Once()
	s.mockEvents.On("BookingCompleted", mock.Anything, s.booking.BookingID).Once()

	entry, err := s.service.SettleInstallment(ctx, target.InstallmentID, dto.SettleInstallmentRequest{}, s.userID)

	s.Require().NoError(err)
	s.True(entry.Amount.Equal(decimal.NewFromInt(9_000_000)))

	s.Require().NotNil(applied.UpdateBooking)
	s.Equal(domain.BookingCompleted, applied.UpdateBooking.Status)
	s.Require().NotNil(applied.UnitStatus)
	s.Equal(domain.UnitSold, applied.UnitStatus.Status)
	s.mockEvents.AssertExpectations(s.T())
}

func (s *SettlementServiceTestSuite) TestSettleExceedingRemainingIsRejected() {
	ctx := context.Background()
	target := s.schedule[0]

	s.mockInstallmentRepo.On("FindInstallmentByID", mock.Anything, target.InstallmentID).Return(&target, nil)
	s.mockInstallmentRepo.On("FindInstallmentsByBookingID", mock.Anything, s.booking.BookingID).Return(s.schedule, nil)
	// Ledger nearly full: remaining below one installment
	s.expectRemaining(decimal.NewFromInt(115_000_000))

	_, err := s.service.SettleInstallment(ctx, target.InstallmentID, dto.SettleInstallmentRequest{}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "Apply", mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestReverseSettlement() {
	ctx := context.Background()
	s.markPaid(0)
	target := s.schedule[0]
	entryID, _ := target.Link.EntryID()
	fundingEntry := domain.LedgerEntry{
		EntryID:   entryID,
		BookingID: s.booking.BookingID,
		Amount:    decimal.NewFromInt(9_000_000),
		Kind:      domain.KindInstallment,
	}

	s.mockInstallmentRepo.On("FindInstallmentByID", mock.Anything, target.InstallmentID).Return(&target, nil)
	s.expectRemaining(decimal.NewFromInt(39_000_000))
	s.mockLedgerRepo.On("FindEntryByID", mock.Anything, entryID).Return(&fundingEntry, nil)

	var applied portsrepo.LedgerMutation
	s.mockLedgerRepo.On("Apply", mock.Anything, mock.AnythingOfType("repositories.LedgerMutation")).
		Run(func(args mock.Arguments) {
			applied = args.Get(1).(portsrepo.LedgerMutation)
		}).Return(nil).Once()

	err := s.service.ReverseSettlement(ctx, target.InstallmentID, s.userID)

	s.Require().NoError(err)
	s.Equal([]string{entryID}, applied.DeleteEntryIDs)
	s.Require().Len(applied.UpdateInstallments, 1)
	reset := applied.UpdateInstallments[0]
	s.True(reset.Link.IsNone())
	s.True(reset.PaidAmount.IsZero())
	s.Nil(reset.PaidDate)
	s.NotEqual(domain.InstallmentPaid, reset.Status)
	s.mockEvents.AssertNotCalled(s.T(), "BookingReopened", mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestReverseUnpaidIsRejected() {
	ctx := context.Background()
	target := s.schedule[0]

	s.mockInstallmentRepo.On("FindInstallmentByID", mock.Anything, target.InstallmentID).Return(&target, nil)

	err := s.service.ReverseSettlement(ctx, target.InstallmentID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrIntegrity)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "Apply", mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestReverseExternallyCoveredIsRejected() {
	ctx := context.Background()
	// A final payment covered installments 1 through 10 and completed the
	// booking; none of them owns a ledger entry to delete.
	paidDate := time.Now().UTC()
	for i := range s.schedule {
		s.schedule[i].Status = domain.InstallmentPaid
		s.schedule[i].PaidAmount = decimal.Zero
		s.schedule[i].PaidDate = &paidDate
		s.schedule[i].Link = domain.ExternallyCovered()
	}
	s.booking.Status = domain.BookingCompleted
	target := s.schedule[4]

	s.mockInstallmentRepo.On("FindInstallmentByID", mock.Anything, target.InstallmentID).Return(&target, nil)

	err := s.service.ReverseSettlement(ctx, target.InstallmentID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "ledger entry")
	s.mockLedgerRepo.AssertNotCalled(s.T(), "Apply", mock.Anything, mock.Anything)
	s.mockEvents.AssertNotCalled(s.T(), "BookingReopened", mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestReverseReopensCompletedBooking() {
	ctx := context.Background()
	for i := range s.schedule {
		s.markPaid(i)
	}
	s.booking.Status = domain.BookingCompleted
	s.unit.Status = domain.UnitSold
	target := s.schedule[9]
	entryID, _ := target.Link.EntryID()
	fundingEntry := domain.LedgerEntry{
		EntryID:   entryID,
		BookingID: s.booking.BookingID,
		Amount:    decimal.NewFromInt(9_000_000),
		Kind:      domain.KindInstallment,
	}

	s.mockInstallmentRepo.On("FindInstallmentByID", mock.Anything, target.InstallmentID).Return(&target, nil)
	s.expectRemaining(s.unitPrice)
	s.mockLedgerRepo.On("FindEntryByID", mock.Anything, entryID).Return(&fundingEntry, nil)

	var applied portsrepo.LedgerMutation
	s.mockLedgerRepo.On("Apply", mock.Anything, mock.AnythingOfType("repositories.LedgerMutation")).
		Run(func(args mock.Arguments) {
			applied = args.Get(1).(portsrepo.LedgerMutation)
		}).Return(nil).Once()
	s.mockEvents.On("BookingReopened", mock.Anything, s.booking.BookingID).Once()

	err := s.service.ReverseSettlement(ctx, target.InstallmentID, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(applied.UpdateBooking)
	s.Equal(domain.BookingActive, applied.UpdateBooking.Status)
	s.Require().NotNil(applied.UnitStatus)
	s.Equal(domain.UnitAvailable, applied.UnitStatus.Status)
	s.mockEvents.AssertExpectations(s.T())
}

func (s *SettlementServiceTestSuite) TestDeleteInstallmentEntryUnwindsInstallment() {
	ctx := context.Background()
	s.markPaid(0)
	entryID, _ := s.schedule[0].Link.EntryID()
	entry := domain.LedgerEntry{
		EntryID:   entryID,
		BookingID: s.booking.BookingID,
		Amount:    decimal.NewFromInt(9_000_000),
		Kind:      domain.KindInstallment,
	}

	s.mockLedgerRepo.On("FindEntryByID", mock.Anything, entryID).Return(&entry, nil)
	s.expectRemaining(decimal.NewFromInt(39_000_000))
	s.mockInstallmentRepo.On("FindInstallmentsByBookingID", mock.Anything, s.booking.BookingID).Return(s.schedule, nil)

	var applied portsrepo.LedgerMutation
	s.mockLedgerRepo.On("Apply", mock.Anything, mock.AnythingOfType("repositories.LedgerMutation")).
		Run(func(args mock.Arguments) {
			applied = args.Get(1).(portsrepo.LedgerMutation)
		}).Return(nil).Once()

	err := s.service.DeleteLedgerEntry(ctx, entryID, s.userID)

	s.Require().NoError(err)
	s.Equal([]string{entryID}, applied.DeleteEntryIDs)
	s.Require().Len(applied.UpdateInstallments, 1)
	s.Equal(s.schedule[0].InstallmentID, applied.UpdateInstallments[0].InstallmentID)
	s.True(applied.UpdateInstallments[0].Link.IsNone())
}

func (s *SettlementServiceTestSuite) TestDeleteExtraEntryRevertsExternalCoverageAndRebalances() {
	ctx := context.Background()
	// Installments 9 and 10 were covered by an extra payment of 18,000,000.
	paidDate := time.Now().UTC()
	for _, i := range []int{8, 9} {
		s.schedule[i].Status = domain.InstallmentPaid
		s.schedule[i].PaidAmount = decimal.Zero
		s.schedule[i].PaidDate = &paidDate
		s.schedule[i].Link = domain.ExternallyCovered()
	}
	extraEntry := domain.LedgerEntry{
		EntryID:   uuid.NewString(),
		BookingID: s.booking.BookingID,
		Amount:    decimal.NewFromInt(18_000_000),
		Kind:      domain.KindExtra,
	}

	s.mockLedgerRepo.On("FindEntryByID", mock.Anything, extraEntry.EntryID).Return(&extraEntry, nil)
	// Deposit 30M + extra 18M in the ledger
	s.expectRemaining(decimal.NewFromInt(48_000_000))
	s.mockInstallmentRepo.On("FindInstallmentsByBookingID", mock.Anything, s.booking.BookingID).Return(s.schedule, nil)

	var applied portsrepo.LedgerMutation
	s.mockLedgerRepo.On("Apply", mock.Anything, mock.AnythingOfType("repositories.LedgerMutation")).
		Run(func(args mock.Arguments) {
			applied = args.Get(1).(portsrepo.LedgerMutation)
		}).Return(nil).Once()

	err := s.service.DeleteLedgerEntry(ctx, extraEntry.EntryID, s.userID)

	s.Require().NoError(err)
	s.Equal([]string{extraEntry.EntryID}, applied.DeleteEntryIDs)
	// All ten installments are unpaid again and rebalanced
	s.Require().Len(applied.UpdateInstallments, 10)
	sum := decimal.Zero
	for _, inst := range applied.UpdateInstallments {
		s.NotEqual(domain.InstallmentPaid, inst.Status)
		s.True(inst.Link.IsNone())
		sum = sum.Add(inst.Amount)
	}
	// Remaining after deletion: 120M - 30M = 90M
	s.True(sum.Equal(decimal.NewFromInt(90_000_000)), "rebalanced sum %s", sum)
}
