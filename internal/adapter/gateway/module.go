package gateway

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/printdesk/internal/config"
)

// Module exposes the gateway client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.GatewayAddress, Options{
		KeyID:     p.Config.GatewayKeyID,
		KeySecret: p.Config.GatewayKeySecret,
		Timeout:   p.Config.GatewayTimeout,
		RPS:       p.Config.GatewayRPS,
		Burst:     int(p.Config.GatewayRPS) + 1,
	}, p.Logger)
}
