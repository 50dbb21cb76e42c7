package repositories

import (
	"context"

	"github.com/hasnin090/tariq-sub000/internal/core/domain"
)

// BookingReader defines read operations for booking data
type BookingReader interface {
	// FindBookingByID retrieves a specific booking by its unique identifier.
	FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error)

	// ListBookings retrieves bookings ordered by creation time.
	ListBookings(ctx context.Context, limit int, offset int) ([]domain.Booking, error)
}

// BookingRepositoryFacade combines all booking-related repository interfaces.
// Booking rows are only ever written as part of a ledger unit of work, so
// there is no standalone writer interface.
type BookingRepositoryFacade interface {
	BookingReader
}

// InstallmentReader defines read operations for installment data
type InstallmentReader interface {
	// FindInstallmentByID retrieves a specific installment by its unique identifier.
	FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)

	// FindInstallmentsByBookingID retrieves every installment of a booking,
	// ordered by installment number.
	FindInstallmentsByBookingID(ctx context.Context, bookingID string) ([]domain.Installment, error)
}

// InstallmentRepositoryFacade combines all installment-related repository
// interfaces. Like bookings, installments are mutated only inside a ledger
// unit of work.
type InstallmentRepositoryFacade interface {
	InstallmentReader
}
