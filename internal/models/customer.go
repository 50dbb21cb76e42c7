package models

// Customer represents a row in the customers table.
type Customer struct {
	CustomerID string `db:"customer_id"`
	Name       string `db:"name"`
	Phone      string `db:"phone"` // Nullable
	AuditFields
}
