package mapping

import (
	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	"github.com/hasnin090/tariq-sub000/internal/models"
)

// ToModelBooking converts a domain Booking to a model Booking
func ToModelBooking(d domain.Booking) models.Booking {
	return models.Booking{
		BookingID:       d.BookingID,
		UnitID:          d.UnitID,
		CustomerID:      d.CustomerID,
		PlanYears:       d.Plan.Years,
		FrequencyMonths: d.Plan.FrequencyMonths,
		StartDate:       d.Plan.StartDate,
		PerPeriodAmount: d.Plan.PerPeriodAmount,
		Status:          models.BookingStatus(d.Status),
		Notes:           d.Notes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBooking converts a model Booking to a domain Booking
func ToDomainBooking(m models.Booking) domain.Booking {
	return domain.Booking{
		BookingID:  m.BookingID,
		UnitID:     m.UnitID,
		CustomerID: m.CustomerID,
		Plan: domain.PlanParams{
			Years:           m.PlanYears,
			FrequencyMonths: m.FrequencyMonths,
			StartDate:       m.StartDate,
			PerPeriodAmount: m.PerPeriodAmount,
		},
		Status:      domain.BookingStatus(m.Status),
		Notes:       m.Notes,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBookingSlice converts a slice of model Bookings to a slice of domain Bookings
func ToDomainBookingSlice(ms []models.Booking) []domain.Booking {
	ds := make([]domain.Booking, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBooking(m)
	}
	return ds
}
