package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hasnin090/tariq-sub000/internal/apperrors"
	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	portsrepo "github.com/hasnin090/tariq-sub000/internal/core/ports/repositories"
	portssvc "github.com/hasnin090/tariq-sub000/internal/core/ports/services"
	"github.com/hasnin090/tariq-sub000/internal/dto"
	"github.com/hasnin090/tariq-sub000/internal/middleware"
	"github.com/shopspring/decimal"
)

type unitService struct {
	unitRepo portsrepo.UnitRepositoryFacade
}

// NewUnitService creates a new UnitSvcFacade.
func NewUnitService(unitRepo portsrepo.UnitRepositoryFacade) portssvc.UnitSvcFacade {
	return &unitService{unitRepo: unitRepo}
}

var _ portssvc.UnitSvcFacade = (*unitService)(nil)

func (s *unitService) CreateUnit(ctx context.Context, req dto.CreateUnitRequest, creatorUserID string) (*domain.Unit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: unit price must be positive, got %s", apperrors.ErrValidation, req.Price.String())
	}

	now := time.Now().UTC()
	unit := domain.Unit{
		UnitID:      uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Status:      domain.UnitAvailable,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.unitRepo.SaveUnit(ctx, unit); err != nil {
		logger.Error("Failed to save unit", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save unit: %w", err)
	}

	logger.Info("Unit created", slog.String("unit_id", unit.UnitID), slog.String("price", unit.Price.String()))
	return &unit, nil
}

func (s *unitService) GetUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	unit, err := s.unitRepo.FindUnitByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to find unit %s: %w", unitID, err)
	}
	return unit, nil
}

func (s *unitService) ListUnits(ctx context.Context, limit int, offset int) ([]domain.Unit, error) {
	units, err := s.unitRepo.ListUnits(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return units, nil
}

type customerService struct {
	customerRepo portsrepo.CustomerRepositoryFacade
}

// NewCustomerService creates a new CustomerSvcFacade.
func NewCustomerService(customerRepo portsrepo.CustomerRepositoryFacade) portssvc.CustomerSvcFacade {
	return &customerService{customerRepo: customerRepo}
}

var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, creatorUserID string) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID: uuid.NewString(),
		Name:       req.Name,
		Phone:      req.Phone,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		logger.Error("Failed to save customer", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	logger.Info("Customer created", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

func (s *customerService) GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	return customer, nil
}
