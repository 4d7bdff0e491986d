package payment

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/gridbill/gridbill/internal/config"
)

// Module exposes payment provider implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Provider, error) {
	return NewHTTPClient(p.Config.PaymentSystemAddress, p.Logger)
}
