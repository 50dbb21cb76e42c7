package services

import (
	"context"

	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	"github.com/hasnin090/tariq-sub000/internal/dto"
)

// UnitSvcFacade defines the operations for managing sellable units.
type UnitSvcFacade interface {
	CreateUnit(ctx context.Context, req dto.CreateUnitRequest, creatorUserID string) (*domain.Unit, error)
	GetUnitByID(ctx context.Context, unitID string) (*domain.Unit, error)
	ListUnits(ctx context.Context, limit int, offset int) ([]domain.Unit, error)
}

// CustomerSvcFacade defines the operations for managing customers.
type CustomerSvcFacade interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, creatorUserID string) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
}
