package test

import (
	"context"
	"sync"

	"github.com/aquafit/pixreminder/internal/domain/model"
)

// SchedulerFacadeStub provides controllable behaviour for HTTP handlers.
type SchedulerFacadeStub struct {
	HandleFn     func(context.Context, model.OrderEvent) model.EventResult
	InboundFn    func(context.Context, string, string) error
	PendingFn    func() []model.PendingReminder
	CancelFn     func(string) bool
	DispatchesFn func(context.Context, string, int) ([]model.DispatchRecord, error)
	HealthyFn    func(context.Context) error
}

// HandleOrderEvent delegates to the provided function or schedules by default.
func (s SchedulerFacadeStub) HandleOrderEvent(ctx context.Context, event model.OrderEvent) model.EventResult {
	if s.HandleFn != nil {
		return s.HandleFn(ctx, event)
	}
	return model.EventResult{Outcome: model.OutcomeScheduled}
}

// HandleInboundMessage delegates to the provided function or succeeds.
func (s SchedulerFacadeStub) HandleInboundMessage(ctx context.Context, sender, text string) error {
	if s.InboundFn != nil {
		return s.InboundFn(ctx, sender, text)
	}
	return nil
}

// PendingReminders returns configured reminders or a single default entry.
func (s SchedulerFacadeStub) PendingReminders() []model.PendingReminder {
	if s.PendingFn != nil {
		return s.PendingFn()
	}
	return []model.PendingReminder{{OrderID: "#1001", Phone: "5511999990000"}}
}

// CancelReminder delegates to the provided function or reports success.
func (s SchedulerFacadeStub) CancelReminder(orderID string) bool {
	if s.CancelFn != nil {
		return s.CancelFn(orderID)
	}
	return true
}

// Dispatches returns configured dispatch records.
func (s SchedulerFacadeStub) Dispatches(ctx context.Context, orderID string, limit int) ([]model.DispatchRecord, error) {
	if s.DispatchesFn != nil {
		return s.DispatchesFn(ctx, orderID, limit)
	}
	return nil, nil
}

// Healthy reports configured health state.
func (s SchedulerFacadeStub) Healthy(ctx context.Context) error {
	if s.HealthyFn != nil {
		return s.HealthyFn(ctx)
	}
	return nil
}

// DispatchLogStub records dispatch log writes in memory.
type DispatchLogStub struct {
	RecordFn func(context.Context, model.DispatchRecord) error

	mu      sync.Mutex
	Records []model.DispatchRecord
}

// Record stores the dispatch record or delegates to RecordFn.
func (s *DispatchLogStub) Record(ctx context.Context, rec model.DispatchRecord) error {
	if s.RecordFn != nil {
		return s.RecordFn(ctx, rec)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records = append(s.Records, rec)
	return nil
}

// ListByOrder filters stored records by order id.
func (s *DispatchLogStub) ListByOrder(ctx context.Context, orderID string) ([]model.DispatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.DispatchRecord
	for _, rec := range s.Records {
		if rec.OrderID == orderID {
			result = append(result, rec)
		}
	}
	return result, nil
}

// ListRecent returns up to limit stored records, newest last.
func (s *DispatchLogStub) ListRecent(ctx context.Context, limit int) ([]model.DispatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Records) <= limit {
		return append([]model.DispatchRecord(nil), s.Records...), nil
	}
	return append([]model.DispatchRecord(nil), s.Records[len(s.Records)-limit:]...), nil
}

// Stored returns a copy of recorded entries for assertions.
func (s *DispatchLogStub) Stored() []model.DispatchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.DispatchRecord(nil), s.Records...)
}

// RecordedEventCall captures one order-event log write.
type RecordedEventCall struct {
	Event  model.OrderEvent
	Result model.EventResult
}

// OrderEventRepoStub records order-event log writes in memory.
type OrderEventRepoStub struct {
	RecordFn func(context.Context, model.OrderEvent, model.EventResult) error

	mu    sync.Mutex
	Calls []RecordedEventCall
}

// Record stores the event or delegates to RecordFn.
func (s *OrderEventRepoStub) Record(ctx context.Context, event model.OrderEvent, result model.EventResult) error {
	if s.RecordFn != nil {
		return s.RecordFn(ctx, event, result)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, RecordedEventCall{Event: event, Result: result})
	return nil
}

// ListByOrder returns stored events for the order.
func (s *OrderEventRepoStub) ListByOrder(ctx context.Context, orderID string) ([]model.OrderEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.OrderEvent
	for _, call := range s.Calls {
		if call.Event.OrderID == orderID {
			result = append(result, call.Event)
		}
	}
	return result, nil
}

// Stored returns a copy of recorded calls for assertions.
func (s *OrderEventRepoStub) Stored() []RecordedEventCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedEventCall(nil), s.Calls...)
}

// SentMessage captures one channel send.
type SentMessage struct {
	Recipient string
	Text      string
}

// ChannelStub simulates the messaging gateway.
type ChannelStub struct {
	ResolveFn func(context.Context, string) (string, error)
	SendFn    func(context.Context, string, string) error

	mu   sync.Mutex
	Sent []SentMessage
}

// ResolveRecipient delegates or derives a deterministic identity.
func (s *ChannelStub) ResolveRecipient(ctx context.Context, phone string) (string, error) {
	if s.ResolveFn != nil {
		return s.ResolveFn(ctx, phone)
	}
	return phone + "@c.us", nil
}

// Send records the message or delegates to SendFn.
func (s *ChannelStub) Send(ctx context.Context, recipient, text string) error {
	if s.SendFn != nil {
		return s.SendFn(ctx, recipient, text)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, SentMessage{Recipient: recipient, Text: text})
	return nil
}

// Messages returns a copy of sent messages for assertions.
func (s *ChannelStub) Messages() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SentMessage(nil), s.Sent...)
}
