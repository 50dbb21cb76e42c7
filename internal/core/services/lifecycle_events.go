package services

import (
	"context"
	"log/slog"

	portssvc "github.com/hasnin090/tariq-sub000/internal/core/ports/services"
	"github.com/hasnin090/tariq-sub000/internal/middleware"
)

// loggingEventPublisher is the default lifecycle publisher. The unit status
// flip already happens inside the unit of work that triggers the event, so
// the default subscriber only has to announce the transition for downstream
// consumers tailing the structured log.
type loggingEventPublisher struct{}

// NewLoggingEventPublisher creates a LifecycleEventPublisher that writes
// lifecycle transitions to the request logger.
func NewLoggingEventPublisher() portssvc.LifecycleEventPublisher {
	return &loggingEventPublisher{}
}

var _ portssvc.LifecycleEventPublisher = (*loggingEventPublisher)(nil)

func (p *loggingEventPublisher) BookingCompleted(ctx context.Context, bookingID string) {
	middleware.GetLoggerFromCtx(ctx).Info("Booking completed", slog.String("booking_id", bookingID), slog.String("event", "bookingCompleted"))
}

func (p *loggingEventPublisher) BookingReopened(ctx context.Context, bookingID string) {
	middleware.GetLoggerFromCtx(ctx).Info("Booking reopened", slog.String("booking_id", bookingID), slog.String("event", "bookingReopened"))
}
