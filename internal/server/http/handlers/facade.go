package handlers

import (
	"context"

	"github.com/aquafit/pixreminder/internal/domain/model"
)

// EventFacade processes normalized order events.
type EventFacade interface {
	HandleOrderEvent(ctx context.Context, event model.OrderEvent) model.EventResult
}

// InboundFacade handles customer replies arriving from the messaging
// gateway.
type InboundFacade interface {
	HandleInboundMessage(ctx context.Context, sender, text string) error
}

// AdminFacade exposes operator-facing reads and actions.
type AdminFacade interface {
	PendingReminders() []model.PendingReminder
	CancelReminder(orderID string) bool
	Dispatches(ctx context.Context, orderID string, limit int) ([]model.DispatchRecord, error)
	Healthy(ctx context.Context) error
}

// SchedulerFacade aggregates the full set of operations used across handlers.
type SchedulerFacade interface {
	EventFacade
	InboundFacade
	AdminFacade
}
