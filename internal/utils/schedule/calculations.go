package schedule

import (
	"fmt"
	"time"

	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitEvenly distributes total across count installment amounts, rounded to
// 2 decimal places. Every amount gets round2(total/count) except the last,
// which absorbs the rounding residual so the amounts always sum to total
// exactly. This is used by both reschedule strategies and by initial schedule
// generation.
func SplitEvenly(total decimal.Decimal, count int) ([]decimal.Decimal, error) {
	if count <= 0 {
		return nil, fmt.Errorf("installment count must be positive, got %d", count)
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount to distribute must be positive, got %s", total.String())
	}

	base := total.Div(decimal.NewFromInt(int64(count))).Round(2)
	if count > 1 && base.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount %s is too small to split across %d installments", total.String(), count)
	}
	amounts := make([]decimal.Decimal, count)
	allocated := decimal.Zero
	for i := 0; i < count-1; i++ {
		amounts[i] = base
		allocated = allocated.Add(base)
	}
	// The last installment takes whatever keeps the sum exact.
	amounts[count-1] = total.Sub(allocated)

	if amounts[count-1].LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("distribution of %s across %d installments leaves a non-positive final amount %s",
			total.String(), count, amounts[count-1].String())
	}
	return amounts, nil
}

// DueDates generates count due dates starting at start and advancing by
// frequencyMonths each step.
func DueDates(start time.Time, frequencyMonths, count int) []time.Time {
	dates := make([]time.Time, count)
	for i := 0; i < count; i++ {
		dates[i] = start.AddDate(0, frequencyMonths*i, 0)
	}
	return dates
}

// StatusForDueDate returns the status an unpaid installment should carry given
// its due date: overdue once the due date is strictly in the past (by calendar
// day), pending otherwise.
func StatusForDueDate(dueDate, today time.Time) domain.InstallmentStatus {
	due := dueDate.Truncate(24 * time.Hour)
	now := today.Truncate(24 * time.Hour)
	if due.Before(now) {
		return domain.InstallmentOverdue
	}
	return domain.InstallmentPending
}

// CanSettle decides whether the installment with the given number is eligible
// for settlement under the sequential-payment rule: installment #1 is always
// eligible, #N requires every installment numbered below N to be paid.
// When blocked it returns the lowest blocking installment number so callers
// can render actionable feedback. An already-paid installment is never
// eligible again.
func CanSettle(installments []domain.Installment, number int) (bool, int) {
	blocking := 0
	for _, inst := range installments {
		if inst.Number == number && inst.IsPaid() {
			return false, number
		}
		if inst.Number < number && !inst.IsPaid() {
			if blocking == 0 || inst.Number < blocking {
				blocking = inst.Number
			}
		}
	}
	if blocking != 0 {
		return false, blocking
	}
	return true, 0
}

// UnpaidSum totals the amounts of all unpaid installments.
func UnpaidSum(installments []domain.Installment) decimal.Decimal {
	sum := decimal.Zero
	for _, inst := range installments {
		if !inst.IsPaid() {
			sum = sum.Add(inst.Amount)
		}
	}
	return sum
}

// MaxPaidNumber returns the highest installment number with status paid, or 0.
func MaxPaidNumber(installments []domain.Installment) int {
	max := 0
	for _, inst := range installments {
		if inst.IsPaid() && inst.Number > max {
			max = inst.Number
		}
	}
	return max
}
