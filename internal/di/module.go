package di

import (
	"go.uber.org/fx"

	"github.com/aquafit/pixreminder/internal/adapter/channel"
	"github.com/aquafit/pixreminder/internal/app"
	"github.com/aquafit/pixreminder/internal/config"
	"github.com/aquafit/pixreminder/internal/logger"
	"github.com/aquafit/pixreminder/internal/pkg/sig"
	"github.com/aquafit/pixreminder/internal/scheduler"
	"github.com/aquafit/pixreminder/internal/server/http/handlers"
	"github.com/aquafit/pixreminder/internal/server/http/router"
	"github.com/aquafit/pixreminder/internal/storage/postgres"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		sig.Module,
		postgres.Module,
		channel.Module,
		scheduler.Module,
		fx.Provide(func(client channel.Client) scheduler.Channel { return client }),
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		fx.Provide(func(f *app.SchedulerFacade) handlers.SchedulerFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
