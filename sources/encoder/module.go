package encoder

import "go.uber.org/fx"

var Module = fx.Module("encoder", fx.Provide(NewBedrockRuntime, NewOpenAIClient, NewEncoders))
