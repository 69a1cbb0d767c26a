package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/aquafit/pixreminder/internal/domain/errors"
	"github.com/aquafit/pixreminder/internal/domain/model"
)

type stubChannel struct {
	resolveFn func(context.Context, string) (string, error)
	sendFn    func(context.Context, string, string) error

	mu    sync.Mutex
	sends []sentCall
}

type sentCall struct {
	recipient string
	text      string
	at        time.Time
}

func (s *stubChannel) ResolveRecipient(ctx context.Context, phone string) (string, error) {
	if s.resolveFn != nil {
		return s.resolveFn(ctx, phone)
	}
	return phone + "@c.us", nil
}

func (s *stubChannel) Send(ctx context.Context, recipient, text string) error {
	if s.sendFn != nil {
		return s.sendFn(ctx, recipient, text)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends = append(s.sends, sentCall{recipient: recipient, text: text, at: time.Now()})
	return nil
}

func (s *stubChannel) sent() []sentCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentCall(nil), s.sends...)
}

type stubDispatchLog struct {
	mu      sync.Mutex
	records []model.DispatchRecord
}

func (s *stubDispatchLog) Record(ctx context.Context, rec model.DispatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *stubDispatchLog) ListByOrder(context.Context, string) ([]model.DispatchRecord, error) {
	return nil, nil
}

func (s *stubDispatchLog) ListRecent(context.Context, int) ([]model.DispatchRecord, error) {
	return nil, nil
}

func (s *stubDispatchLog) stored() []model.DispatchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.DispatchRecord(nil), s.records...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func item(orderID string) model.QueueItem {
	return model.QueueItem{OrderID: orderID, Phone: "5511999990000", Message: "msg " + orderID}
}

func TestQueueDrainsInFIFOOrder(t *testing.T) {
	channel := &stubChannel{}
	log := &stubDispatchLog{}
	queue := NewDispatchQueue(channel, log, time.Millisecond, discardLogger())
	queue.Start(context.Background())
	defer queue.Stop()

	for i := 1; i <= 3; i++ {
		queue.Enqueue(item(fmt.Sprintf("#%d", i)))
	}

	waitFor(t, time.Second, func() bool { return len(channel.sent()) == 3 })
	sent := channel.sent()
	for i, call := range sent {
		want := fmt.Sprintf("msg #%d", i+1)
		if call.text != want {
			t.Fatalf("expected %q at position %d, got %q", want, i, call.text)
		}
	}

	records := log.stored()
	if len(records) != 3 {
		t.Fatalf("expected 3 dispatch records, got %d", len(records))
	}
	for _, rec := range records {
		if rec.Status != model.DispatchStatusSent {
			t.Fatalf("expected sent status, got %q", rec.Status)
		}
		if rec.ID == uuid.Nil {
			t.Fatal("expected record id to be set")
		}
	}
}

func TestQueueEnforcesCooldownBetweenSends(t *testing.T) {
	const cooldown = 60 * time.Millisecond
	channel := &stubChannel{}
	queue := NewDispatchQueue(channel, &stubDispatchLog{}, cooldown, discardLogger())
	queue.Start(context.Background())
	defer queue.Stop()

	queue.Enqueue(item("#1"))
	queue.Enqueue(item("#2"))
	queue.Enqueue(item("#3"))

	waitFor(t, 2*time.Second, func() bool { return len(channel.sent()) == 3 })
	sent := channel.sent()
	for i := 1; i < len(sent); i++ {
		if gap := sent[i].at.Sub(sent[i-1].at); gap < cooldown {
			t.Fatalf("gap between send %d and %d was %v, want >= %v", i-1, i, gap, cooldown)
		}
	}
}

func TestQueueFailuresDoNotStallDrain(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	channel := &stubChannel{
		resolveFn: func(ctx context.Context, phone string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			switch calls {
			case 1:
				return "", domainErrors.ErrUnreachableRecipient
			case 2:
				return "", errors.New("gateway exploded")
			default:
				return phone + "@c.us", nil
			}
		},
	}
	log := &stubDispatchLog{}
	queue := NewDispatchQueue(channel, log, time.Millisecond, discardLogger())
	queue.Start(context.Background())
	defer queue.Stop()

	queue.Enqueue(item("#1"))
	queue.Enqueue(item("#2"))
	queue.Enqueue(item("#3"))

	waitFor(t, time.Second, func() bool { return len(log.stored()) == 3 })
	records := log.stored()
	if records[0].Status != model.DispatchStatusUnreachable {
		t.Fatalf("expected unreachable, got %q", records[0].Status)
	}
	if records[1].Status != model.DispatchStatusFailed {
		t.Fatalf("expected failed, got %q", records[1].Status)
	}
	if records[2].Status != model.DispatchStatusSent {
		t.Fatalf("expected sent, got %q", records[2].Status)
	}
}

func TestQueueSendErrorRecordedAsFailed(t *testing.T) {
	channel := &stubChannel{
		sendFn: func(context.Context, string, string) error { return errors.New("send rejected") },
	}
	log := &stubDispatchLog{}
	queue := NewDispatchQueue(channel, log, time.Millisecond, discardLogger())
	queue.Start(context.Background())
	defer queue.Stop()

	queue.Enqueue(item("#1"))
	waitFor(t, time.Second, func() bool { return len(log.stored()) == 1 })
	rec := log.stored()[0]
	if rec.Status != model.DispatchStatusFailed {
		t.Fatalf("expected failed status, got %q", rec.Status)
	}
	if rec.ErrorText == "" {
		t.Fatal("expected error text to be recorded")
	}
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	channel := &stubChannel{}
	queue := NewDispatchQueue(channel, &stubDispatchLog{}, time.Millisecond, discardLogger())

	queue.Enqueue(item("#1"))
	if got := queue.Len(); got != 1 {
		t.Fatalf("expected queued item before start, got %d", got)
	}
	if len(channel.sent()) != 0 {
		t.Fatal("nothing should be sent before start")
	}

	queue.Start(context.Background())
	defer queue.Stop()
	waitFor(t, time.Second, func() bool { return len(channel.sent()) == 1 })
}

func TestQueueStopInterruptsCooldown(t *testing.T) {
	channel := &stubChannel{}
	queue := NewDispatchQueue(channel, &stubDispatchLog{}, time.Hour, discardLogger())
	queue.Start(context.Background())

	queue.Enqueue(item("#1"))
	queue.Enqueue(item("#2"))
	waitFor(t, time.Second, func() bool { return len(channel.sent()) == 1 })

	done := make(chan struct{})
	go func() {
		queue.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop must not wait out the cooldown")
	}
	if len(channel.sent()) != 1 {
		t.Fatalf("expected second item to be dropped on stop, got %d sends", len(channel.sent()))
	}
}

func TestQueueConcurrentEnqueueSingleDrainer(t *testing.T) {
	channel := &stubChannel{}
	log := &stubDispatchLog{}
	queue := NewDispatchQueue(channel, log, time.Millisecond, discardLogger())
	queue.Start(context.Background())
	defer queue.Stop()

	const items = 16
	var wg sync.WaitGroup
	for i := 0; i < items; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			queue.Enqueue(item(fmt.Sprintf("#%d", i)))
		}(i)
	}
	wg.Wait()

	waitFor(t, 5*time.Second, func() bool { return len(log.stored()) == items })
	if queue.Len() != 0 {
		t.Fatalf("expected drained queue, got %d items", queue.Len())
	}
}
