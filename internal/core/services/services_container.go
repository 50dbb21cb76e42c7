package services

import (
	portsrepo "github.com/hasnin090/tariq-sub000/internal/core/ports/repositories"
	portssvc "github.com/hasnin090/tariq-sub000/internal/core/ports/services"
	"github.com/hasnin090/tariq-sub000/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Unit = NewUnitService(repos.UnitRepo)
	container.Customer = NewCustomerService(repos.CustomerRepo)
	container.Events = NewLoggingEventPublisher()

	// Ledger reader first since the write-side services read totals through it
	container.Ledger = NewLedgerReaderService(repos.LedgerRepo, repos.BookingRepo, repos.UnitRepo)

	container.Booking = NewBookingService(
		repos.UnitRepo,
		repos.CustomerRepo,
		repos.BookingRepo,
		repos.InstallmentRepo,
		repos.LedgerRepo,
	)
	container.Settlement = NewSettlementService(
		repos.InstallmentRepo,
		repos.BookingRepo,
		repos.LedgerRepo,
		container.Ledger,
		container.Events,
		WithAttachmentRequired(cfg.RequirePaymentAttachment),
	)
	container.ExtraPayment = NewExtraPaymentService(
		repos.BookingRepo,
		repos.InstallmentRepo,
		repos.LedgerRepo,
		container.Ledger,
		container.Events,
	)

	return container
}
