package models

import "github.com/shopspring/decimal"

// UnitStatus mirrors domain.UnitStatus at the persistence layer.
type UnitStatus string

const (
	UnitAvailable UnitStatus = "AVAILABLE"
	UnitSold      UnitStatus = "SOLD"
)

// Unit represents a row in the units table.
type Unit struct {
	UnitID      string          `db:"unit_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"` // Nullable
	Price       decimal.Decimal `db:"price"`
	Status      UnitStatus      `db:"status"`
	AuditFields
}
