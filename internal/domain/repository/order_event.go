package repository

import (
	"context"

	"github.com/aquafit/pixreminder/internal/domain/model"
)

// OrderEventRepository records every understood inbound event together with
// the outcome the router resolved for it.
type OrderEventRepository interface {
	Record(ctx context.Context, event model.OrderEvent, result model.EventResult) error
	ListByOrder(ctx context.Context, orderID string) ([]model.OrderEvent, error)
}
