package di

import (
	"go.uber.org/fx"

	"github.com/gridbill/gridbill/internal/adapter/payment"
	"github.com/gridbill/gridbill/internal/adapter/revocation"
	"github.com/gridbill/gridbill/internal/app"
	"github.com/gridbill/gridbill/internal/config"
	"github.com/gridbill/gridbill/internal/logger"
	"github.com/gridbill/gridbill/internal/pkg/auth"
	"github.com/gridbill/gridbill/internal/server/http/handlers"
	"github.com/gridbill/gridbill/internal/server/http/router"
	"github.com/gridbill/gridbill/internal/storage/postgres"
	"github.com/gridbill/gridbill/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		revocation.Module,
		payment.Module,
		usecase.Module,
		fx.Provide(
			func(s *postgres.Storage) app.HealthChecker { return s },
			func(f *app.PortalFacade) handlers.PortalFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
