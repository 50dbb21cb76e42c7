package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hasnin090/tariq-sub000/internal/apperrors"
	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	"github.com/hasnin090/tariq-sub000/internal/utils/schedule"
	"github.com/shopspring/decimal"
)

var (
	ErrNoUnpaidInstallments = errors.New("booking has no unpaid installments to redistribute over")
)

// ReschedulePlan is the schedule change a reschedule strategy produces. It is
// applied together with the triggering ledger write in one unit of work.
type ReschedulePlan struct {
	UpdateInstallments   []domain.Installment
	InsertInstallments   []domain.Installment
	DeleteInstallmentIDs []string
	BookingUpdate        *domain.Booking
	ResultingCount       int // Unpaid installments after the plan is applied
}

// Rescheduler recomputes the unpaid portion of a booking's schedule after a
// payment event. Paid installments are never touched.
type Rescheduler struct{}

// Plan builds the schedule change for a remaining balance that is still
// positive after the event, under the chosen strategy.
func (Rescheduler) Plan(booking domain.Booking, installments []domain.Installment, remainingAfter decimal.Decimal, strategy domain.RescheduleStrategy, now time.Time, userID string) (*ReschedulePlan, error) {
	if remainingAfter.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: reschedule requires a positive remaining balance, got %s", apperrors.ErrValidation, remainingAfter.String())
	}

	switch st := strategy.(type) {
	case domain.ReduceAmount:
		return planReduceAmount(installments, remainingAfter, now, userID)
	case domain.NewPlan:
		return planNewPlan(booking, installments, remainingAfter, st, now, userID)
	default:
		return nil, fmt.Errorf("%w: unsupported reschedule strategy %T", apperrors.ErrValidation, strategy)
	}
}

// FullPayoff marks every unpaid installment as covered externally: paid with
// a zero paidAmount and the sentinel linkage, so the amount captured by the
// triggering ledger entry is never counted a second time per installment.
func (Rescheduler) FullPayoff(installments []domain.Installment, now time.Time, userID string) *ReschedulePlan {
	plan := &ReschedulePlan{}
	paidDate := now
	for _, inst := range installments {
		if inst.IsPaid() {
			continue
		}
		inst.Status = domain.InstallmentPaid
		inst.PaidAmount = decimal.Zero
		inst.PaidDate = &paidDate
		inst.Link = domain.ExternallyCovered()
		inst.LastUpdatedAt = now
		inst.LastUpdatedBy = userID
		plan.UpdateInstallments = append(plan.UpdateInstallments, inst)
	}
	return plan
}

// planReduceAmount keeps the unpaid installments (count, numbers, due dates)
// and spreads the remaining balance evenly across them.
func planReduceAmount(installments []domain.Installment, remainingAfter decimal.Decimal, now time.Time, userID string) (*ReschedulePlan, error) {
	unpaid := make([]domain.Installment, 0, len(installments))
	for _, inst := range installments {
		if !inst.IsPaid() {
			unpaid = append(unpaid, inst)
		}
	}
	if len(unpaid) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrIntegrity, ErrNoUnpaidInstallments)
	}

	amounts, err := schedule.SplitEvenly(remainingAfter, len(unpaid))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	plan := &ReschedulePlan{ResultingCount: len(unpaid)}
	for i, inst := range unpaid {
		inst.Amount = amounts[i]
		inst.LastUpdatedAt = now
		inst.LastUpdatedBy = userID
		plan.UpdateInstallments = append(plan.UpdateInstallments, inst)
	}
	return plan, nil
}

// planNewPlan discards the unpaid installments and generates a fresh schedule
// for the remaining balance, numbered after the highest paid installment, and
// updates the booking's plan parameters to match.
func planNewPlan(booking domain.Booking, installments []domain.Installment, remainingAfter decimal.Decimal, st domain.NewPlan, now time.Time, userID string) (*ReschedulePlan, error) {
	params := domain.PlanParams{
		Years:           st.Years,
		FrequencyMonths: st.FrequencyMonths,
		StartDate:       st.StartDate,
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	count := params.InstallmentCount()
	amounts, err := schedule.SplitEvenly(remainingAfter, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	dueDates := schedule.DueDates(st.StartDate, st.FrequencyMonths, count)
	startNumber := schedule.MaxPaidNumber(installments) + 1

	plan := &ReschedulePlan{ResultingCount: count}
	for _, inst := range installments {
		if !inst.IsPaid() {
			plan.DeleteInstallmentIDs = append(plan.DeleteInstallmentIDs, inst.InstallmentID)
		}
	}

	plan.InsertInstallments = buildInstallments(booking.BookingID, startNumber, amounts, dueDates, now, userID)

	params.PerPeriodAmount = amounts[0]
	booking.Plan = params
	booking.LastUpdatedAt = now
	booking.LastUpdatedBy = userID
	plan.BookingUpdate = &booking

	return plan, nil
}

// buildInstallments creates a dense run of pending/overdue installments for a
// booking, numbered from startNumber. Used both for the initial schedule and
// for NEW_PLAN regeneration.
func buildInstallments(bookingID string, startNumber int, amounts []decimal.Decimal, dueDates []time.Time, now time.Time, userID string) []domain.Installment {
	insts := make([]domain.Installment, len(amounts))
	for i := range amounts {
		insts[i] = domain.Installment{
			InstallmentID: uuid.NewString(),
			BookingID:     bookingID,
			Number:        startNumber + i,
			DueDate:       dueDates[i],
			Amount:        amounts[i],
			PaidAmount:    decimal.Zero,
			Status:        schedule.StatusForDueDate(dueDates[i], now),
			Link:          domain.NoLink(),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return insts
}
