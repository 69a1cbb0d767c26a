package sig

import (
	"go.uber.org/fx"

	"github.com/aquafit/pixreminder/internal/config"
)

// Module provides webhook signature verification via fx.
var Module = fx.Provide(newVerifier)

type verifierParams struct {
	fx.In

	Config *config.Config
}

func newVerifier(p verifierParams) Verifier {
	return NewHMACVerifier(p.Config.WebhookSecret)
}
