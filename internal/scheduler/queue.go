package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/aquafit/pixreminder/internal/domain/errors"
	"github.com/aquafit/pixreminder/internal/domain/model"
	"github.com/aquafit/pixreminder/internal/domain/repository"
)

// Channel is the outbound messaging capability the queue drains into.
// ResolveRecipient maps a digits-only phone number onto an opaque channel
// identity, failing with ErrUnreachableRecipient when the number has no
// presence on the channel.
type Channel interface {
	ResolveRecipient(ctx context.Context, phone string) (string, error)
	Send(ctx context.Context, recipient, text string) error
}

// DispatchQueue serializes outbound sends. A single drainer goroutine pops
// items in FIFO order and enforces the inter-send cooldown between
// consecutive attempts, successful or not. Every attempt is made at most
// once and its outcome is written to the dispatch log.
type DispatchQueue struct {
	channel  Channel
	log      repository.DispatchLogRepository
	cooldown time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	items []model.QueueItem
	busy  bool

	runCtx context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatchQueue constructs an idle queue. Start must be called before
// enqueued items are drained.
func NewDispatchQueue(channel Channel, log repository.DispatchLogRepository, cooldown time.Duration, logger *slog.Logger) *DispatchQueue {
	return &DispatchQueue{
		channel:  channel,
		log:      log,
		cooldown: cooldown,
		logger:   logger,
	}
}

// Start makes the queue runnable and kicks a drain for anything enqueued
// before startup.
func (q *DispatchQueue) Start(ctx context.Context) {
	q.mu.Lock()
	q.runCtx, q.cancel = context.WithCancel(ctx)
	q.mu.Unlock()
	q.maybeDrain()
}

// Stop interrupts the cooldown wait and blocks until the drainer exits.
// Items still queued are dropped; the queue is not durable.
func (q *DispatchQueue) Stop() {
	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.mu.Unlock()
	q.wg.Wait()
}

// Enqueue appends an item and triggers a drain when the queue is idle.
func (q *DispatchQueue) Enqueue(item model.QueueItem) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.maybeDrain()
}

// Len reports the number of items awaiting dispatch.
func (q *DispatchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// maybeDrain launches the drainer unless one is already running or the
// queue has not been started.
func (q *DispatchQueue) maybeDrain() {
	q.mu.Lock()
	if q.busy || q.runCtx == nil || len(q.items) == 0 {
		q.mu.Unlock()
		return
	}
	q.busy = true
	ctx := q.runCtx
	q.mu.Unlock()

	q.wg.Add(1)
	go q.drain(ctx)
}

func (q *DispatchQueue) drain(ctx context.Context) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		if len(q.items) == 0 || ctx.Err() != nil {
			q.busy = false
			q.mu.Unlock()
			return
		}
		item := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()

		q.dispatch(ctx, item)

		select {
		case <-ctx.Done():
			q.mu.Lock()
			q.busy = false
			q.mu.Unlock()
			return
		case <-time.After(q.cooldown):
		}
	}
}

// dispatch delivers one item. Failures are logged and recorded but never
// retried and never stop the drain loop.
func (q *DispatchQueue) dispatch(ctx context.Context, item model.QueueItem) {
	record := model.DispatchRecord{
		ID:      uuid.New(),
		OrderID: item.OrderID,
		Phone:   item.Phone,
		SentAt:  time.Now(),
	}

	recipient, err := q.channel.ResolveRecipient(ctx, item.Phone)
	switch {
	case errors.Is(err, domainErrors.ErrUnreachableRecipient):
		q.logger.Warn("recipient has no channel presence",
			slog.String("order", item.OrderID),
			slog.String("phone", item.Phone),
		)
		record.Status = model.DispatchStatusUnreachable
		record.ErrorText = err.Error()
	case err != nil:
		q.logger.Error("recipient resolution failed",
			slog.String("order", item.OrderID),
			slog.String("error", err.Error()),
		)
		record.Status = model.DispatchStatusFailed
		record.ErrorText = err.Error()
	default:
		if err := q.channel.Send(ctx, recipient, item.Message); err != nil {
			q.logger.Error("message send failed",
				slog.String("order", item.OrderID),
				slog.String("error", err.Error()),
			)
			record.Status = model.DispatchStatusFailed
			record.ErrorText = err.Error()
		} else {
			q.logger.Info("reminder sent",
				slog.String("order", item.OrderID),
				slog.String("phone", item.Phone),
			)
			record.Status = model.DispatchStatusSent
		}
	}

	if err := q.log.Record(ctx, record); err != nil && ctx.Err() == nil {
		q.logger.Error("dispatch log write failed",
			slog.String("order", item.OrderID),
			slog.String("error", err.Error()),
		)
	}
}
