package services

import "context"

// LifecycleEventPublisher receives booking lifecycle transitions so external
// collaborators (inventory management, sale records) can react. Publishing
// happens after the unit of work has committed; implementations must not
// assume they run inside the transaction.
type LifecycleEventPublisher interface {
	// BookingCompleted signals that a booking's ledger total reached the unit
	// price ("mark unit sold" downstream).
	BookingCompleted(ctx context.Context, bookingID string)

	// BookingReopened signals that a deletion dropped the ledger total back
	// below the unit price ("mark unit available" downstream).
	BookingReopened(ctx context.Context, bookingID string)
}
