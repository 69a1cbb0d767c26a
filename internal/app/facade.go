package app

import (
	"context"
	"log/slog"

	"github.com/aquafit/pixreminder/internal/domain/model"
	"github.com/aquafit/pixreminder/internal/domain/repository"
	"github.com/aquafit/pixreminder/internal/scheduler"
)

// HealthChecker reports readiness of a backing dependency.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// autoReply is sent back for every inbound customer message; actual
// conversation happens with a human through the channel itself.
const autoReply = "Olá! Recebemos sua mensagem, em instantes alguém da nossa equipe te responde. 💚"

// SchedulerFacade is the single process-wide owner of the scheduling core.
// It fronts the event router for webhooks and exposes operator reads.
type SchedulerFacade struct {
	router     *scheduler.Router
	channel    scheduler.Channel
	dispatches repository.DispatchLogRepository
	health     HealthChecker
	logger     *slog.Logger
}

// NewSchedulerFacade wires the facade over the scheduling core.
func NewSchedulerFacade(router *scheduler.Router, channel scheduler.Channel, dispatches repository.DispatchLogRepository, health HealthChecker, logger *slog.Logger) *SchedulerFacade {
	return &SchedulerFacade{
		router:     router,
		channel:    channel,
		dispatches: dispatches,
		health:     health,
		logger:     logger,
	}
}

// HandleOrderEvent routes one normalized order event.
func (f *SchedulerFacade) HandleOrderEvent(ctx context.Context, event model.OrderEvent) model.EventResult {
	return f.router.HandleEvent(ctx, event)
}

// HandleInboundMessage acknowledges a customer reply with the static
// auto-reply. The reply goes straight through the channel, bypassing the
// reminder queue and its cooldown.
func (f *SchedulerFacade) HandleInboundMessage(ctx context.Context, sender, text string) error {
	f.logger.Info("inbound message",
		slog.String("sender", sender),
		slog.Int("length", len(text)),
	)
	return f.channel.Send(ctx, sender, autoReply)
}

// PendingReminders lists currently armed reminders.
func (f *SchedulerFacade) PendingReminders() []model.PendingReminder {
	return f.router.PendingReminders()
}

// CancelReminder disarms a reminder on operator request.
func (f *SchedulerFacade) CancelReminder(orderID string) bool {
	return f.router.CancelReminder(orderID)
}

// Dispatches reads the dispatch log, filtered by order when requested.
func (f *SchedulerFacade) Dispatches(ctx context.Context, orderID string, limit int) ([]model.DispatchRecord, error) {
	if orderID != "" {
		return f.dispatches.ListByOrder(ctx, orderID)
	}
	return f.dispatches.ListRecent(ctx, limit)
}

// Healthy checks backing storage connectivity.
func (f *SchedulerFacade) Healthy(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
