package pgsql

import (
	"context"
	"errors"

	"github.com/hasnin090/tariq-sub000/internal/apperrors"
	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	portsrepo "github.com/hasnin090/tariq-sub000/internal/core/ports/repositories"
	"github.com/hasnin090/tariq-sub000/internal/models"
	"github.com/hasnin090/tariq-sub000/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInstallmentRepository struct {
	BaseRepository
}

// newPgxInstallmentRepository creates a new repository for installment data.
// Installments are written only through the ledger repository's unit of work,
// so this repository is read-only.
func newPgxInstallmentRepository(pool *pgxpool.Pool) portsrepo.InstallmentRepositoryFacade {
	return &PgxInstallmentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.InstallmentRepositoryFacade = (*PgxInstallmentRepository)(nil)

const installmentColumns = `installment_id, booking_id, installment_number, due_date, amount, paid_amount, status, paid_date, linked_ledger_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanInstallment(row pgx.Row) (*models.Installment, error) {
	var m models.Installment
	err := row.Scan(
		&m.InstallmentID,
		&m.BookingID,
		&m.InstallmentNumber,
		&m.DueDate,
		&m.Amount,
		&m.PaidAmount,
		&m.Status,
		&m.PaidDate,
		&m.LinkedLedgerEntryID,
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

// FindInstallmentByID retrieves an installment by its ID.
func (r *PgxInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE installment_id = $1;`

	modelInstallment, err := scanInstallment(r.Pool.QueryRow(ctx, query, installmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find installment by ID "+installmentID, err)
	}

	domainInstallment := mapping.ToDomainInstallment(*modelInstallment)
	return &domainInstallment, nil
}

// FindInstallmentsByBookingID retrieves every installment of a booking,
// ordered by installment number.
func (r *PgxInstallmentRepository) FindInstallmentsByBookingID(ctx context.Context, bookingID string) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE booking_id = $1 ORDER BY installment_number;`

	rows, err := r.Pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query installments for booking "+bookingID, err)
	}
	defer rows.Close()

	installments := []models.Installment{}
	for rows.Next() {
		m, err := scanInstallment(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan installment row for booking "+bookingID, err)
		}
		installments = append(installments, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating installment rows for booking "+bookingID, err)
	}

	return mapping.ToDomainInstallmentSlice(installments), nil
}
