package dashboard

import "jiraiya/sources/platform"

type DashboardConfig struct {
	Port int

	HistoryTokenBudget int
}

func NewDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		Port: platform.GetAsInt("DASHBOARD_PORT", 8080),

		HistoryTokenBudget: platform.GetAsInt("DASHBOARD_HISTORY_TOKEN_BUDGET", 8000),
	}
}
