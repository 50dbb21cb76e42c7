package dto

import (
	"time"

	"github.com/hasnin090/tariq-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateUnitRequest defines the payload for creating a unit.
type CreateUnitRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// UnitResponse defines the data returned for a unit.
type UnitResponse struct {
	UnitID      string          `json:"unitID"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToUnitResponse converts a domain.Unit to UnitResponse DTO.
func ToUnitResponse(u *domain.Unit) UnitResponse {
	return UnitResponse{
		UnitID:      u.UnitID,
		Name:        u.Name,
		Description: u.Description,
		Price:       u.Price,
		Status:      string(u.Status),
		CreatedAt:   u.CreatedAt,
	}
}

// ToUnitResponses converts a slice of domain.Unit to []UnitResponse.
func ToUnitResponses(units []domain.Unit) []UnitResponse {
	responses := make([]UnitResponse, len(units))
	for i, u := range units {
		responses[i] = ToUnitResponse(&u)
	}
	return responses
}

// CreateCustomerRequest defines the payload for creating a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID string    `json:"customerID"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToCustomerResponse converts a domain.Customer to CustomerResponse DTO.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID: c.CustomerID,
		Name:       c.Name,
		Phone:      c.Phone,
		CreatedAt:  c.CreatedAt,
	}
}
