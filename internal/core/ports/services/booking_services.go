package services

import (
	"context"

	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	"github.com/hasnin090/tariq-sub000/internal/dto"
)

// BookingSvcFacade defines the operations for creating and reading bookings.
type BookingSvcFacade interface {
	// CreateBooking initiates a sale: it creates the booking, records the
	// deposit as the first ledger entry, and generates the initial
	// installment schedule over the remaining balance, all in one unit of
	// work.
	CreateBooking(ctx context.Context, req dto.CreateBookingRequest, creatorUserID string) (*domain.Booking, error)

	GetBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error)
	GetBookingWithSchedule(ctx context.Context, bookingID string) (*domain.Booking, []domain.Installment, error)
	ListBookings(ctx context.Context, limit int, offset int) ([]domain.Booking, error)
}
