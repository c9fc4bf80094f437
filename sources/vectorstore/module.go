package vectorstore

import "go.uber.org/fx"

var Module = fx.Module("vectorstore", fx.Provide(NewStore))
