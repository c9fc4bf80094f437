package artificial

import "go.uber.org/fx"

var Module = fx.Module("artificial",
	fx.Provide(NewAIConfig),
	fx.Provide(NewChatModel),
	fx.Provide(NewToolbox),
	fx.Provide(NewArchitect),
)
