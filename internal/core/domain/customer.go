package domain

// Customer is the buyer a booking belongs to.
type Customer struct {
	CustomerID string `json:"customerID"`
	Name       string `json:"name"`
	Phone      string `json:"phone"` // Nullable
	AuditFields
}
