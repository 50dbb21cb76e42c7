package repositories

import (
	"context"

	"github.com/hasnin090/tariq-sub000/internal/core/domain"
)

// UnitReader defines read operations for unit data
type UnitReader interface {
	// FindUnitByID retrieves a specific unit by its unique identifier.
	FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error)

	// ListUnits retrieves units ordered by creation time.
	ListUnits(ctx context.Context, limit int, offset int) ([]domain.Unit, error)
}

// UnitWriter defines write operations for unit data
type UnitWriter interface {
	// SaveUnit inserts a new unit.
	SaveUnit(ctx context.Context, unit domain.Unit) error
}

// UnitRepositoryFacade combines all unit-related repository interfaces
type UnitRepositoryFacade interface {
	UnitReader
	UnitWriter
}

// CustomerReader defines read operations for customer data
type CustomerReader interface {
	// FindCustomerByID retrieves a specific customer by its unique identifier.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
}

// CustomerWriter defines write operations for customer data
type CustomerWriter interface {
	// SaveCustomer inserts a new customer.
	SaveCustomer(ctx context.Context, customer domain.Customer) error
}

// CustomerRepositoryFacade combines all customer-related repository interfaces
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
}
