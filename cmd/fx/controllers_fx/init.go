package controllers_fx

import (
	"go.uber.org/fx"

	"musicjam/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewContactController),
	fx.Provide(controllers.NewCheckInController),
)
