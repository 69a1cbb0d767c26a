package scheduler

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/aquafit/pixreminder/internal/config"
	"github.com/aquafit/pixreminder/internal/domain/repository"
)

// Module wires the scheduling core: timer, dispatch queue, and event router.
var Module = fx.Options(
	fx.Provide(
		NewWallTimer,
		newQueue,
		newRouter,
	),
)

type queueParams struct {
	fx.In

	Channel Channel
	Log     repository.DispatchLogRepository
	Config  *config.Config
	Logger  *slog.Logger
}

func newQueue(p queueParams) *DispatchQueue {
	return NewDispatchQueue(p.Channel, p.Log, p.Config.SendCooldown, p.Logger)
}

type routerParams struct {
	fx.In

	Timer  Timer
	Queue  *DispatchQueue
	Events repository.OrderEventRepository
	Config *config.Config
	Logger *slog.Logger
}

func newRouter(p routerParams) (*Router, error) {
	rule, err := ParseGateRule(p.Config.PixGateRule)
	if err != nil {
		return nil, err
	}
	cfg := RouterConfig{
		GracePeriod: p.Config.GracePeriod,
		Rule:        rule,
		StoreName:   p.Config.StoreName,
		PixKey:      p.Config.PixKey,
		PixKeyOwner: p.Config.PixKeyOwner,
	}
	return NewRouter(p.Timer, p.Queue, p.Events, cfg, p.Logger), nil
}
