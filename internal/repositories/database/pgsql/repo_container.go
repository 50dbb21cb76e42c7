package pgsql

import (
	portsrepo "github.com/hasnin090/tariq-sub000/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	unitRepo := newPgxUnitRepository(dbPool)
	customerRepo := newPgxCustomerRepository(dbPool)
	bookingRepo := newPgxBookingRepository(dbPool)
	installmentRepo := newPgxInstallmentRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UnitRepo:        unitRepo,
		CustomerRepo:    customerRepo,
		BookingRepo:     bookingRepo,
		InstallmentRepo: installmentRepo,
		LedgerRepo:      ledgerRepo,
	}
}
