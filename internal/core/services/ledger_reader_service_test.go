package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hasnin090/tariq-sub000/internal/apperrors"
	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	portssvc "github.com/hasnin090/tariq-sub000/internal/core/ports/services"
	"github.com/hasnin090/tariq-sub000/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerReaderServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerRepository
	mockBookingRepo *MockBookingRepository
	mockUnitRepo    *MockUnitRepository
	service         portssvc.LedgerReaderSvcFacade

	unit    domain.Unit
	booking domain.Booking
}

func TestLedgerReaderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerReaderServiceTestSuite))
}

func (s *LedgerReaderServiceTestSuite) SetupTest() {
	s.mockLedgerRepo = new(MockLedgerRepository)
	s.mockBookingRepo = new(MockBookingRepository)
	s.mockUnitRepo = new(MockUnitRepository)
	s.service = services.NewLedgerReaderService(s.mockLedgerRepo, s.mockBookingRepo, s.mockUnitRepo)

	s.unit = domain.Unit{
		UnitID: uuid.NewString(),
		Name:   "Block B / 4",
		Price:  decimal.NewFromInt(120_000_000),
		Status: domain.UnitAvailable,
	}
	s.booking = domain.Booking{
		BookingID:  uuid.NewString(),
		UnitID:     s.unit.UnitID,
		CustomerID: uuid.NewString(),
		Status:     domain.BookingActive,
	}
}

func (s *LedgerReaderServiceTestSuite) TestGetRemaining() {
	ctx := context.Background()
	s.mockBookingRepo.On("FindBookingByID", mock.Anything, s.booking.BookingID).Return(&s.booking, nil)
	s.mockUnitRepo.On("FindUnitByID", mock.Anything, s.unit.UnitID).Return(&s.unit, nil)
	s.mockLedgerRepo.On("SumPaidByBooking", mock.Anything, s.booking.BookingID).Return(decimal.NewFromInt(45_000_000), nil)

	summary, err := s.service.GetRemaining(ctx, s.booking.BookingID)

	s.Require().NoError(err)
	s.True(summary.UnitPrice.Equal(decimal.NewFromInt(120_000_000)))
	s.True(summary.TotalPaid.Equal(decimal.NewFromInt(45_000_000)))
	s.True(summary.Remaining.Equal(decimal.NewFromInt(75_000_000)))
}

func (s *LedgerReaderServiceTestSuite) TestGetRemainingZeroLedger() {
	ctx := context.Background()
	s.mockBookingRepo.On("FindBookingByID", mock.Anything, s.booking.BookingID).Return(&s.booking, nil)
	s.mockUnitRepo.On("FindUnitByID", mock.Anything, s.unit.UnitID).Return(&s.unit, nil)
	s.mockLedgerRepo.On("SumPaidByBooking", mock.Anything, s.booking.BookingID).Return(decimal.Zero, nil)

	summary, err := s.service.GetRemaining(ctx, s.booking.BookingID)

	s.Require().NoError(err)
	s.True(summary.Remaining.Equal(s.unit.Price))
}

func (s *LedgerReaderServiceTestSuite) TestGetRemainingOverfundedLedgerIsIntegrityError() {
	ctx := context.Background()
	s.mockBookingRepo.On("FindBookingByID", mock.Anything, s.booking.BookingID).Return(&s.booking, nil)
	s.mockUnitRepo.On("FindUnitByID", mock.Anything, s.unit.UnitID).Return(&s.unit, nil)
	s.mockLedgerRepo.On("SumPaidByBooking", mock.Anything, s.booking.BookingID).Return(decimal.NewFromInt(120_000_001), nil)

	summary, err := s.service.GetRemaining(ctx, s.booking.BookingID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrIntegrity)
	s.Nil(summary)
}

func (s *LedgerReaderServiceTestSuite) TestGetRemainingBookingNotFound() {
	ctx := context.Background()
	bookingID := uuid.NewString()
	s.mockBookingRepo.On("FindBookingByID", mock.Anything, bookingID).Return(nil, apperrors.ErrNotFound)

	summary, err := s.service.GetRemaining(ctx, bookingID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(summary)
	s.mockUnitRepo.AssertNotCalled(s.T(), "FindUnitByID", mock.Anything, mock.Anything)
}

func (s *LedgerReaderServiceTestSuite) TestListLedgerEntriesChecksBooking() {
	ctx := context.Background()
	bookingID := uuid.NewString()
	s.mockBookingRepo.On("FindBookingByID", mock.Anything, bookingID).Return(nil, apperrors.ErrNotFound)

	entries, nextToken, err := s.service.ListLedgerEntries(ctx, bookingID, 20, nil)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Nil(entries)
	s.Nil(nextToken)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "ListEntriesByBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerReaderServiceTestSuite) TestListLedgerEntriesPassesToken() {
	ctx := context.Background()
	token := "b3BhcXVl"
	entries := []domain.LedgerEntry{{EntryID: uuid.NewString(), BookingID: s.booking.BookingID}}
	next := "bmV4dA"

	s.mockBookingRepo.On("FindBookingByID", mock.Anything, s.booking.BookingID).Return(&s.booking, nil)
	s.mockLedgerRepo.On("ListEntriesByBooking", mock.Anything, s.booking.BookingID, 20, &token).Return(entries, next, nil)

	got, nextToken, err := s.service.ListLedgerEntries(ctx, s.booking.BookingID, 20, &token)

	s.Require().NoError(err)
	s.Equal(entries, got)
	s.Require().NotNil(nextToken)
	s.Equal(next, *nextToken)
}

func (s *LedgerReaderServiceTestSuite) TestListExtraPayments() {
	ctx := context.Background()
	records := []domain.ExtraPayment{{ExtraPaymentID: uuid.NewString(), BookingID: s.booking.BookingID}}

	s.mockBookingRepo.On("FindBookingByID", mock.Anything, s.booking.BookingID).Return(&s.booking, nil)
	s.mockLedgerRepo.On("ListExtraPaymentsByBooking", mock.Anything, s.booking.BookingID).Return(records, nil)

	got, err := s.service.ListExtraPayments(ctx, s.booking.BookingID)

	s.Require().NoError(err)
	s.Equal(records, got)
}
