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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUnitRepository struct {
	BaseRepository
}

// newPgxUnitRepository creates a new repository for unit data.
func newPgxUnitRepository(pool *pgxpool.Pool) portsrepo.UnitRepositoryFacade {
	return &PgxUnitRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.UnitRepositoryFacade = (*PgxUnitRepository)(nil)

// SaveUnit inserts a new unit.
func (r *PgxUnitRepository) SaveUnit(ctx context.Context, unit domain.Unit) error {
	modelUnit := mapping.ToModelUnit(unit)

	query := `
		INSERT INTO units (unit_id, name, description, price, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	_, err := r.Pool.Exec(ctx, query,
		modelUnit.UnitID,
		modelUnit.Name,
		modelUnit.Description,
		modelUnit.Price,
		modelUnit.Status,
		modelUnit.CreatedAt,
		modelUnit.CreatedBy,
		modelUnit.LastUpdatedAt,
		modelUnit.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.ErrDuplicate
			}
		}
		return apperrors.NewAppError(500, "failed to save unit "+modelUnit.UnitID, err)
	}
	return nil
}

// FindUnitByID retrieves a unit by its ID.
func (r *PgxUnitRepository) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	query := `
		SELECT unit_id, name, description, price, status, created_at, created_by, last_updated_at, last_updated_by
		FROM units
		WHERE unit_id = $1;
	`
	var modelUnit models.Unit
	err := r.Pool.QueryRow(ctx, query, unitID).Scan(
		&modelUnit.UnitID,
		&modelUnit.Name,
		&modelUnit.Description,
		&modelUnit.Price,
		&modelUnit.Status,
		&modelUnit.CreatedAt,
		&modelUnit.CreatedBy,
		&modelUnit.LastUpdatedAt,
		&modelUnit.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find unit by ID "+unitID, err)
	}

	domainUnit := mapping.ToDomainUnit(modelUnit)
	return &domainUnit, nil
}

// ListUnits retrieves units ordered by creation time.
func (r *PgxUnitRepository) ListUnits(ctx context.Context, limit int, offset int) ([]domain.Unit, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT unit_id, name, description, price, status, created_at, created_by, last_updated_at, last_updated_by
		FROM units
		ORDER BY created_at DESC, unit_id
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query units", err)
	}
	defer rows.Close()

	units := []models.Unit{}
	for rows.Next() {
		var u models.Unit
		err := rows.Scan(
			&u.UnitID,
			&u.Name,
			&u.Description,
			&u.Price,
			&u.Status,
			&u.CreatedAt,
			&u.CreatedBy,
			&u.LastUpdatedAt,
			&u.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan unit row", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating unit rows", err)
	}

	return mapping.ToDomainUnitSlice(units), nil
}

// updateUnitStatusInTx flips a unit's availability inside an open transaction.
func updateUnitStatusInTx(ctx context.Context, tx pgx.Tx, change portsrepo.UnitStatusChange) error {
	query := `UPDATE units SET status = $1, last_updated_at = now() WHERE unit_id = $2;`
	tag, err := tx.Exec(ctx, query, models.UnitStatus(change.Status), change.UnitID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update unit status "+change.UnitID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
