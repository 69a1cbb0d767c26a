package repository

import (
	"context"

	"github.com/aquafit/pixreminder/internal/domain/model"
)

// DispatchLogRepository persists the outcome of every dispatch attempt.
type DispatchLogRepository interface {
	Record(ctx context.Context, rec model.DispatchRecord) error
	ListByOrder(ctx context.Context, orderID string) ([]model.DispatchRecord, error)
	ListRecent(ctx context.Context, limit int) ([]model.DispatchRecord, error)
}
