package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/printdesk/internal/pkg/payment"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewOrderUseCase,
	NewStatusFetcher,
	NewPrintJobEffect,
	NewNotificationEffect,
	func(v *payment.Verifier) SignatureVerifier { return v },
	NewReconcileUseCase,
)
