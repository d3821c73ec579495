package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/printdesk/internal/adapter/gateway"
	"github.com/polkiloo/printdesk/internal/adapter/notify"
	"github.com/polkiloo/printdesk/internal/app"
	"github.com/polkiloo/printdesk/internal/config"
	"github.com/polkiloo/printdesk/internal/logger"
	"github.com/polkiloo/printdesk/internal/pkg/auth"
	"github.com/polkiloo/printdesk/internal/pkg/payment"
	"github.com/polkiloo/printdesk/internal/server/http/handlers"
	"github.com/polkiloo/printdesk/internal/server/http/router"
	"github.com/polkiloo/printdesk/internal/storage/postgres"
	"github.com/polkiloo/printdesk/internal/telemetry"
	"github.com/polkiloo/printdesk/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		telemetry.Module,
		auth.Module,
		payment.Module,
		postgres.Module,
		gateway.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		fx.Provide(func(f *app.PrintdeskFacade) handlers.PrintdeskFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
