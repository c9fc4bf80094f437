package indexer

import "go.uber.org/fx"

var Module = fx.Module("indexer",
	fx.Provide(NewIndexer),
)
