package domain

import "github.com/shopspring/decimal"

// UnitStatus indicates whether a unit is still for sale.
type UnitStatus string

const (
	UnitAvailable UnitStatus = "AVAILABLE"
	UnitSold      UnitStatus = "SOLD"
)

// Unit represents a sellable unit. Its price is the authoritative unit price
// for every booking that references it.
type Unit struct {
	UnitID      string          `json:"unitID"`
	Name        string          `json:"name"`
	Description string          `json:"description"` // Nullable
	Price       decimal.Decimal `json:"price"`
	Status      UnitStatus      `json:"status"`
	AuditFields
}
