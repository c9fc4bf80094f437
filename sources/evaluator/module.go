package evaluator

import "go.uber.org/fx"

var Module = fx.Module("evaluator",
	fx.Provide(NewRunner),
)
