package channel

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/aquafit/pixreminder/internal/config"
)

// Module exposes the messaging gateway client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.GatewayAddress, p.Logger)
}
