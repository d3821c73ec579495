package payment

import (
	"github.com/polkiloo/printdesk/internal/config"
	"go.uber.org/fx"
)

// Module provides the callback signature verifier.
var Module = fx.Provide(func(cfg *config.Config) *Verifier {
	return NewVerifier(cfg.GatewayKeySecret)
})
