package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquafit/pixreminder/internal/domain/model"
	"github.com/aquafit/pixreminder/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool the storage uses. Kept narrow so the
// pgxmock pool satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type orderEventRepository struct {
	storage *Storage
}

type dispatchLogRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) OrderEvents() repository.OrderEventRepository {
	return &orderEventRepository{storage: s}
}

func (s *Storage) DispatchLog() repository.DispatchLogRepository {
	return &dispatchLogRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS order_events (
            id BIGSERIAL PRIMARY KEY,
            order_id TEXT NOT NULL,
            customer_name TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            total_amount TEXT NOT NULL DEFAULT '',
            financial_status TEXT NOT NULL,
            raw_status TEXT NOT NULL DEFAULT '',
            payment_method TEXT NOT NULL,
            raw_gateway TEXT NOT NULL DEFAULT '',
            outcome TEXT NOT NULL,
            reason TEXT NOT NULL DEFAULT '',
            received_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS dispatch_log (
            id UUID PRIMARY KEY,
            order_id TEXT NOT NULL,
            phone TEXT NOT NULL,
            status TEXT NOT NULL,
            error_text TEXT NOT NULL DEFAULT '',
            sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_order_events_order ON order_events(order_id, received_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_dispatch_log_order ON dispatch_log(order_id, sent_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- OrderEventRepository implementation ---

func (r *orderEventRepository) Record(ctx context.Context, event model.OrderEvent, result model.EventResult) error {
	const query = `INSERT INTO order_events
                   (order_id, customer_name, phone, total_amount, financial_status, raw_status, payment_method, raw_gateway, outcome, reason, received_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.storage.pool.Exec(ctx, query,
		event.OrderID,
		event.CustomerName,
		event.Phone,
		event.TotalAmount,
		string(event.Status),
		event.RawStatus,
		string(event.Method),
		event.RawGateway,
		string(result.Outcome),
		result.Reason,
		event.ReceivedAt,
	)
	return err
}

func (r *orderEventRepository) ListByOrder(ctx context.Context, orderID string) ([]model.OrderEvent, error) {
	const query = `SELECT order_id, customer_name, phone, total_amount, financial_status, raw_status, payment_method, raw_gateway, received_at
                   FROM order_events WHERE order_id=$1 ORDER BY received_at`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderEvent
	for rows.Next() {
		var e model.OrderEvent
		var status, method string
		if err := rows.Scan(&e.OrderID, &e.CustomerName, &e.Phone, &e.TotalAmount, &status, &e.RawStatus, &method, &e.RawGateway, &e.ReceivedAt); err != nil {
			return nil, err
		}
		e.Status = model.FinancialStatus(status)
		e.Method = model.PaymentMethod(method)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- DispatchLogRepository implementation ---

func (r *dispatchLogRepository) Record(ctx context.Context, rec model.DispatchRecord) error {
	const query = `INSERT INTO dispatch_log (id, order_id, phone, status, error_text, sent_at)
                   VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.storage.pool.Exec(ctx, query,
		rec.ID,
		rec.OrderID,
		rec.Phone,
		string(rec.Status),
		rec.ErrorText,
		rec.SentAt,
	)
	return err
}

func (r *dispatchLogRepository) ListByOrder(ctx context.Context, orderID string) ([]model.DispatchRecord, error) {
	const query = `SELECT id, order_id, phone, status, error_text, sent_at
                   FROM dispatch_log WHERE order_id=$1 ORDER BY sent_at DESC`
	return r.list(ctx, query, orderID)
}

func (r *dispatchLogRepository) ListRecent(ctx context.Context, limit int) ([]model.DispatchRecord, error) {
	const query = `SELECT id, order_id, phone, status, error_text, sent_at
                   FROM dispatch_log ORDER BY sent_at DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *dispatchLogRepository) list(ctx context.Context, query string, arg any) ([]model.DispatchRecord, error) {
	rows, err := r.storage.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.DispatchRecord
	for rows.Next() {
		var rec model.DispatchRecord
		var status string
		if err := rows.Scan(&rec.ID, &rec.OrderID, &rec.Phone, &status, &rec.ErrorText, &rec.SentAt); err != nil {
			return nil, err
		}
		rec.Status = model.DispatchStatus(status)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
