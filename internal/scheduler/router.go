package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aquafit/pixreminder/internal/domain/model"
	"github.com/aquafit/pixreminder/internal/domain/repository"
)

// GateRule names the payment-method policy deciding which pending orders
// qualify for a reminder.
type GateRule string

const (
	// GateRulePixOrUnknown schedules when the gateway is Pix or has not been
	// reported yet. Default.
	GateRulePixOrUnknown GateRule = "pix-or-unknown"
	// GateRulePixOnly schedules only when the gateway is explicitly Pix.
	GateRulePixOnly GateRule = "pix-only"
)

// ParseGateRule validates a configured rule name.
func ParseGateRule(raw string) (GateRule, error) {
	switch GateRule(raw) {
	case GateRulePixOrUnknown, GateRulePixOnly:
		return GateRule(raw), nil
	default:
		return "", fmt.Errorf("unknown pix gate rule %q", raw)
	}
}

func (g GateRule) qualifies(method model.PaymentMethod) bool {
	switch method {
	case model.PaymentMethodPix:
		return true
	case model.PaymentMethodUnknown:
		return g == GateRulePixOrUnknown
	default:
		return false
	}
}

// RouterConfig carries the policy knobs of the event router.
type RouterConfig struct {
	GracePeriod time.Duration
	Rule        GateRule
	StoreName   string
	PixKey      string
	PixKeyOwner string
}

// Router classifies inbound order events and drives the registry and the
// dispatch queue. It owns the registry: timer fires come back through
// emitReminder, which templates the recovery message and enqueues it.
type Router struct {
	registry *Registry
	queue    *DispatchQueue
	events   repository.OrderEventRepository
	cfg      RouterConfig
	logger   *slog.Logger
}

// NewRouter wires the router with its own registry on top of the provided
// timer.
func NewRouter(timer Timer, queue *DispatchQueue, events repository.OrderEventRepository, cfg RouterConfig, logger *slog.Logger) *Router {
	r := &Router{
		queue:  queue,
		events: events,
		cfg:    cfg,
		logger: logger,
	}
	r.registry = NewRegistry(timer, r.emitReminder, logger)
	return r
}

// HandleEvent resolves one normalized order event. It never blocks on the
// grace period; scheduling arms a timer and returns immediately.
func (r *Router) HandleEvent(ctx context.Context, event model.OrderEvent) model.EventResult {
	result := r.route(event)

	r.logger.Info("order event",
		slog.String("order", event.OrderID),
		slog.String("status", string(event.Status)),
		slog.String("gateway", event.RawGateway),
		slog.String("customer", event.CustomerName),
		slog.String("phone", event.Phone),
		slog.String("outcome", string(result.Outcome)),
		slog.String("reason", result.Reason),
	)

	if err := r.events.Record(ctx, event, result); err != nil {
		r.logger.Error("order event log write failed",
			slog.String("order", event.OrderID),
			slog.String("error", err.Error()),
		)
	}
	return result
}

func (r *Router) route(event model.OrderEvent) model.EventResult {
	switch event.Status {
	case model.FinancialStatusPending:
		if !r.cfg.Rule.qualifies(event.Method) {
			return ignored("not pix")
		}
		if event.Phone == "" {
			return ignored("no phone")
		}
		snapshot := model.ReminderSnapshot{
			OrderID:      event.OrderID,
			CustomerName: event.CustomerName,
			Phone:        event.Phone,
			TotalAmount:  event.TotalAmount,
		}
		if !r.registry.Schedule(snapshot, r.cfg.GracePeriod) {
			return ignored("duplicate")
		}
		return model.EventResult{Outcome: model.OutcomeScheduled}

	case model.FinancialStatusPaid:
		if !r.registry.Cancel(event.OrderID) {
			return ignored("no pending reminder")
		}
		return model.EventResult{Outcome: model.OutcomeCancelled}

	default:
		return ignored("status " + event.RawStatus)
	}
}

// emitReminder runs when a grace period elapses with the entry still
// pending. Fire-time validation is presence-only: payment state is not
// re-queried, a lost paid webhook still results in a send.
func (r *Router) emitReminder(snapshot model.ReminderSnapshot) {
	r.logger.Info("grace period elapsed, reminder queued",
		slog.String("order", snapshot.OrderID),
		slog.String("phone", snapshot.Phone),
	)
	r.queue.Enqueue(model.QueueItem{
		OrderID: snapshot.OrderID,
		Phone:   snapshot.Phone,
		Message: r.buildMessage(snapshot),
	})
}

// CancelReminder disarms a pending reminder outside the event flow
// (operator action).
func (r *Router) CancelReminder(orderID string) bool {
	return r.registry.Cancel(orderID)
}

// PendingReminders lists currently armed reminders ordered by fire time.
func (r *Router) PendingReminders() []model.PendingReminder {
	return r.registry.Pending()
}

func (r *Router) buildMessage(snapshot model.ReminderSnapshot) string {
	name := snapshot.CustomerName
	if name == "" {
		name = "cliente"
	}
	return fmt.Sprintf(
		"Eiii *%s*, obrigado pela sua compra na *%s*! 💚\n\n"+
			"Percebi que o pagamento via *Pix* do seu pedido ainda não foi confirmado, você teve algum problema?\n\n"+
			"Caso prefira, você pode fazer o Pix no valor de *R$%s* para a chave abaixo e encaminhar o comprovante por aqui mesmo.\n\n"+
			"*Chave Pix:* %s\n*Quem receberá:* %s\n\n"+
			"Qualquer dúvida estou à disposição 😉",
		name, r.cfg.StoreName, snapshot.TotalAmount, r.cfg.PixKey, r.cfg.PixKeyOwner,
	)
}

func ignored(reason string) model.EventResult {
	return model.EventResult{Outcome: model.OutcomeIgnored, Reason: reason}
}
