package dto

import (
	"time"

	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBookingRequest defines the payload for initiating a sale: the unit,
// the buyer, the initial deposit and the installment plan parameters.
type CreateBookingRequest struct {
	UnitID          string          `json:"unitID" binding:"required"`
	CustomerID      string          `json:"customerID" binding:"required"`
	DownPayment     decimal.Decimal `json:"downPayment"`
	Years           int             `json:"years" binding:"required"`
	FrequencyMonths int             `json:"frequencyMonths" binding:"required"`
	StartDate       time.Time       `json:"startDate" binding:"required"`
	Notes           string          `json:"notes"`
}

// BookingResponse defines the data returned for a booking.
type BookingResponse struct {
	BookingID       string          `json:"bookingID"`
	UnitID          string          `json:"unitID"`
	CustomerID      string          `json:"customerID"`
	Years           int             `json:"years"`
	FrequencyMonths int             `json:"frequencyMonths"`
	StartDate       time.Time       `json:"startDate"`
	PerPeriodAmount decimal.Decimal `json:"perPeriodAmount"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// BookingWithScheduleResponse combines a booking with its installment schedule.
type BookingWithScheduleResponse struct {
	Booking      BookingResponse       `json:"booking"`
	Installments []InstallmentResponse `json:"installments"`
}

// RemainingResponse is the authoritative view of what a booking still owes.
type RemainingResponse struct {
	UnitPrice decimal.Decimal `json:"unitPrice"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ToBookingResponse converts a domain.Booking to BookingResponse DTO.
func ToBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID:       b.BookingID,
		UnitID:          b.UnitID,
		CustomerID:      b.CustomerID,
		Years:           b.Plan.Years,
		FrequencyMonths: b.Plan.FrequencyMonths,
		StartDate:       b.Plan.StartDate,
		PerPeriodAmount: b.Plan.PerPeriodAmount,
		Status:          string(b.Status),
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
	}
}

// ToRemainingResponse converts a domain.RemainingSummary to RemainingResponse DTO.
func ToRemainingResponse(s *domain.RemainingSummary) RemainingResponse {
	return RemainingResponse{
		UnitPrice: s.UnitPrice,
		TotalPaid: s.TotalPaid,
		Remaining: s.Remaining,
	}
}
