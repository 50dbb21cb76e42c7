package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/hasnin090/tariq-sub000/internal/apperrors"
	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	portsrepo "github.com/hasnin090/tariq-sub000/internal/core/ports/repositories"
	"github.com/hasnin090/tariq-sub000/internal/models"
	"github.com/hasnin090/tariq-sub000/internal/utils/mapping"
	"github.com/hasnin090/tariq-sub000/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger data. It owns
// every write to bookings, installments, ledger entries and extra payments:
// all of them happen through Apply, inside one transaction.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

const ledgerEntryColumns = `entry_id, booking_id, amount, payment_date, kind, attachment_ref, note, created_at, created_by, last_updated_at, last_updated_by`

// SumPaidByBooking returns the sum of all ledger entry amounts for a booking.
func (r *PgxLedgerRepository) SumPaidByBooking(ctx context.Context, bookingID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE booking_id = $1;`

	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, bookingID).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum ledger entries for booking "+bookingID, err)
	}
	return total, nil
}

func scanLedgerEntry(row pgx.Row) (*models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.BookingID,
		&m.Amount,
		&m.PaymentDate,
		&m.Kind,
		&m.AttachmentRef,
		&m.Note,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindEntryByID retrieves a ledger entry by its ID.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE entry_id = $1;`

	modelEntry, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger entry by ID "+entryID, err)
	}

	domainEntry := mapping.ToDomainLedgerEntry(*modelEntry)
	return &domainEntry, nil
}

// ListEntriesByBooking retrieves a paginated list of ledger entries for a booking using token-based pagination.
// It returns the entries, a token for the next page, and an error.
func (r *PgxLedgerRepository) ListEntriesByBooking(ctx context.Context, bookingID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	// Default limit handling
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE booking_id = $1`
	// Ordering is crucial and must be stable
	// We use payment_date DESC, and created_at DESC as a tie-breaker.
	orderByClause := `ORDER BY payment_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{bookingID}

	if nextToken != nil && *nextToken != "" {
		lastPaymentDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		// Tuple comparison is concise and efficient in Postgres
		cursorClause := `AND (payment_date, created_at) < ($2, $3)`
		args = append(args, lastPaymentDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries for booking "+bookingID, err)
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row for booking "+bookingID, err)
		}
		entries = append(entries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entry rows for booking "+bookingID, err)
	}

	// Determine the next token
	var nextTokenVal *string
	var results []models.LedgerEntry
	if len(entries) > limit {
		// The token points to the last item included in this response page.
		last := entries[limit-1]
		token := pagination.EncodeToken(last.PaymentDate, last.CreatedAt)
		nextTokenVal = &token
		results = entries[:limit]
	} else {
		results = entries
	}

	return mapping.ToDomainLedgerEntrySlice(results), nextTokenVal, nil
}

// ListExtraPaymentsByBooking retrieves all extra payment records of a booking, newest first.
func (r *PgxLedgerRepository) ListExtraPaymentsByBooking(ctx context.Context, bookingID string) ([]domain.ExtraPayment, error) {
	query := `
		SELECT extra_payment_id, booking_id, ledger_entry_id, amount, payment_date, method, strategy, resulting_installments,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM extra_payments
		WHERE booking_id = $1
		ORDER BY payment_date DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query extra payments for booking "+bookingID, err)
	}
	defer rows.Close()

	records := []models.ExtraPayment{}
	for rows.Next() {
		var m models.ExtraPayment
		err := rows.Scan(
			&m.ExtraPaymentID,
			&m.BookingID,
			&m.LedgerEntryID,
			&m.Amount,
			&m.PaymentDate,
			&m.Method,
			&m.Strategy,
			&m.ResultingInstallments,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan extra payment row for booking "+bookingID, err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating extra payment rows for booking "+bookingID, err)
	}

	return mapping.ToDomainExtraPaymentSlice(records), nil
}

// Apply persists a ledger mutation atomically. It locks the booking row first
// so there is only ever one writer per booking, applies every write through a
// single batch, then re-derives the invariants from what is now in the
// transaction: the ledger total must sit between zero and the unit price, and
// the unpaid installment amounts must sum exactly to price minus total.
// A violation rolls the whole mutation back.
func (r *PgxLedgerRepository) Apply(ctx context.Context, mutation portsrepo.LedgerMutation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	if mutation.InsertBooking != nil {
		if err := insertBookingInTx(ctx, tx, *mutation.InsertBooking); err != nil {
			return err
		}
	}

	// Serialize writers per booking
	if err := lockBookingInTx(ctx, tx, mutation.BookingID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	queueEntryWrites(batch, mutation)
	queueInstallmentWrites(batch, mutation)
	queueExtraPaymentWrites(batch, mutation)
	queueBookingUpdate(batch, mutation)

	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to execute mutation batch for booking "+mutation.BookingID, err)
		}
	}

	if mutation.UnitStatus != nil {
		if err := updateUnitStatusInTx(ctx, tx, *mutation.UnitStatus); err != nil {
			return err
		}
	}

	if err := verifyBookingInvariantsInTx(ctx, tx, mutation.BookingID); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func insertBookingInTx(ctx context.Context, tx pgx.Tx, booking domain.Booking) error {
	m := mapping.ToModelBooking(booking)
	query := `
		INSERT INTO bookings (booking_id, unit_id, customer_id, plan_years, frequency_months, start_date, per_period_amount, status, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.BookingID,
		m.UnitID,
		m.CustomerID,
		m.PlanYears,
		m.FrequencyMonths,
		m.StartDate,
		m.PerPeriodAmount,
		m.Status,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert booking "+m.BookingID, err)
	}
	return nil
}

func lockBookingInTx(ctx context.Context, tx pgx.Tx, bookingID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT booking_id FROM bookings WHERE booking_id = $1 FOR UPDATE;`, bookingID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock booking "+bookingID, err)
	}
	return nil
}

func queueEntryWrites(batch *pgx.Batch, mutation portsrepo.LedgerMutation) {
	insertQuery := `
		INSERT INTO ledger_entries (` + ledgerEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, entry := range mutation.InsertEntries {
		m := mapping.ToModelLedgerEntry(entry)
		batch.Queue(insertQuery,
			m.EntryID,
			m.BookingID,
			m.Amount,
			m.PaymentDate,
			m.Kind,
			m.AttachmentRef,
			m.Note,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	for _, entryID := range mutation.DeleteEntryIDs {
		batch.Queue(`DELETE FROM ledger_entries WHERE entry_id = $1;`, entryID)
	}
}

func queueInstallmentWrites(batch *pgx.Batch, mutation portsrepo.LedgerMutation) {
	insertQuery := `
		INSERT INTO installments (installment_id, booking_id, installment_number, due_date, amount, paid_amount, status, paid_date, linked_ledger_entry_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, inst := range mutation.InsertInstallments {
		m := mapping.ToModelInstallment(inst)
		batch.Queue(insertQuery,
			m.InstallmentID,
			m.BookingID,
			m.InstallmentNumber,
			m.DueDate,
			m.Amount,
			m.PaidAmount,
			m.Status,
			m.PaidDate,
			m.LinkedLedgerEntryID,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	updateQuery := `
		UPDATE installments
		SET amount = $2, paid_amount = $3, status = $4, paid_date = $5, linked_ledger_entry_id = $6, last_updated_at = $7, last_updated_by = $8
		WHERE installment_id = $1;
	`
	for _, inst := range mutation.UpdateInstallments {
		m := mapping.ToModelInstallment(inst)
		batch.Queue(updateQuery,
			m.InstallmentID,
			m.Amount,
			m.PaidAmount,
			m.Status,
			m.PaidDate,
			m.LinkedLedgerEntryID,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	for _, installmentID := range mutation.DeleteInstallmentIDs {
		batch.Queue(`DELETE FROM installments WHERE installment_id = $1;`, installmentID)
	}
}

func queueExtraPaymentWrites(batch *pgx.Batch, mutation portsrepo.LedgerMutation) {
	insertQuery := `
		INSERT INTO extra_payments (extra_payment_id, booking_id, ledger_entry_id, amount, payment_date, method, strategy, resulting_installments, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, record := range mutation.InsertExtraPayments {
		m := mapping.ToModelExtraPayment(record)
		batch.Queue(insertQuery,
			m.ExtraPaymentID,
			m.BookingID,
			m.LedgerEntryID,
			m.Amount,
			m.PaymentDate,
			m.Method,
			m.Strategy,
			m.ResultingInstallments,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
}

func queueBookingUpdate(batch *pgx.Batch, mutation portsrepo.LedgerMutation) {
	if mutation.UpdateBooking == nil {
		return
	}
	m := mapping.ToModelBooking(*mutation.UpdateBooking)
	query := `
		UPDATE bookings
		SET plan_years = $2, frequency_months = $3, start_date = $4, per_period_amount = $5, status = $6, notes = $7, last_updated_at = $8, last_updated_by = $9
		WHERE booking_id = $1;
	`
	batch.Queue(query,
		m.BookingID,
		m.PlanYears,
		m.FrequencyMonths,
		m.StartDate,
		m.PerPeriodAmount,
		m.Status,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
}

// verifyBookingInvariantsInTx re-derives the booking's totals from the rows
// now visible inside the transaction. Installments covered externally carry
// the sentinel marker and a zero paid amount, so they are excluded from the
// unpaid sum without contributing to the ledger total twice.
func verifyBookingInvariantsInTx(ctx context.Context, tx pgx.Tx, bookingID string) error {
	query := `
		SELECT u.price,
		       COALESCE((SELECT SUM(le.amount) FROM ledger_entries le WHERE le.booking_id = b.booking_id), 0),
		       COALESCE((SELECT SUM(i.amount) FROM installments i WHERE i.booking_id = b.booking_id AND i.status != 'PAID'), 0)
		FROM bookings b
		JOIN units u ON u.unit_id = b.unit_id
		WHERE b.booking_id = $1;
	`
	var unitPrice, totalPaid, unpaidSum decimal.Decimal
	if err := tx.QueryRow(ctx, query, bookingID).Scan(&unitPrice, &totalPaid, &unpaidSum); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to verify invariants for booking "+bookingID, err)
	}

	if totalPaid.IsNegative() || totalPaid.GreaterThan(unitPrice) {
		return apperrors.NewAppError(500,
			"ledger total "+totalPaid.String()+" out of range for unit price "+unitPrice.String()+" on booking "+bookingID,
			apperrors.ErrIntegrity)
	}
	remaining := unitPrice.Sub(totalPaid)
	if !unpaidSum.Equal(remaining) {
		return apperrors.NewAppError(500,
			"unpaid installments sum to "+unpaidSum.String()+" but remaining is "+remaining.String()+" on booking "+bookingID,
			apperrors.ErrIntegrity)
	}
	return nil
}
