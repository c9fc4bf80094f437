package dashboard

import (
	"context"

	"jiraiya/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("dashboard",
	fx.Provide(
		NewDashboardConfig,
		NewDashboard,
	),

	fx.Invoke(func(dashboard *Dashboard, lc fx.Lifecycle) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				dashboard.log.I("Starting dashboard service")
				go dashboard.run()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				dashboard.log.I("Stopping dashboard service")
				if err := dashboard.shutdown(ctx); err != nil {
					dashboard.log.F("Failed to shutdown dashboard server", tracing.InnerError, err)
				}
				return nil
			},
		})
	}),
)
