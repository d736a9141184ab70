package grafana

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"

	"telreport/config"
	"telreport/logger"
	"telreport/types"
	"telreport/utils"
)

var GrafanaURL string

func GetGrafanaURL() string {
	if GrafanaURL != "" {
		return GrafanaURL
	}

	GrafanaURL = viper.GetString("grafana.url")
	if GrafanaURL == "" {
		// AutomaticEnv maps this onto the GRAFANA_URL environment variable
		GrafanaURL = viper.GetString("grafana_url")
	}
	if GrafanaURL == "" {
		GrafanaURL = config.DefaultGrafanaURL
		logger.GrafanaLogger.Warn("Grafana URL not set in config, using default", "url", GrafanaURL)
	}

	return GrafanaURL
}

type panelQuery struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type panelField struct {
	Labels map[string]string `json:"labels"`
}

type panelFrame struct {
	Schema struct {
		Fields []panelField `json:"fields"`
	} `json:"schema"`
}

type panelQueryResponse struct {
	Results struct {
		A struct {
			Frames []panelFrame `json:"frames"`
		} `json:"A"`
	} `json:"results"`
}

// QueryPanelValidators queries one public-dashboard panel over the
// window [timeFrom, now] and collects every distinct validator_name
// label across the returned frames. The result is deduplicated and
// sorted.
func QueryPanelValidators(dashboardToken string, panelID int, timeFrom string) ([]string, error) {
	url := fmt.Sprintf("%s/api/public/dashboards/%s/panels/%d/query", GetGrafanaURL(), dashboardToken, panelID)

	var resp panelQueryResponse
	if err := utils.PostUrlResponse(url, panelQuery{From: timeFrom, To: "now"}, &resp, logger.GrafanaLogger); err != nil {
		return nil, fmt.Errorf("panel %d query failed: %w", panelID, err)
	}

	seen := make(map[string]struct{})
	for _, frame := range resp.Results.A.Frames {
		for _, field := range frame.Schema.Fields {
			if name, ok := field.Labels["validator_name"]; ok {
				seen[name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// FetchTelemetry queries the metrics and logs panels of the public
// dashboard. A failed panel query degrades to an empty set: telemetry
// absence must never abort report generation.
func FetchTelemetry() *types.TelemetryPresence {
	logger.GrafanaLogger.Info("Fetching telemetry data from public dashboard...")

	presence := &types.TelemetryPresence{}

	metrics, err := QueryPanelValidators(config.PublicDashboardToken, config.MetricsPanelID, config.MetricsTimeFrom)
	if err != nil {
		logger.GrafanaLogger.Warn("Failed to query metrics panel", "err", err)
	} else {
		presence.Metrics = metrics
		logger.GrafanaLogger.Info("Queried metrics panel", "validators", len(metrics))
	}

	logs, err := QueryPanelValidators(config.PublicDashboardToken, config.LogsPanelID, config.LogsTimeFrom)
	if err != nil {
		logger.GrafanaLogger.Warn("Failed to query logs panel", "err", err)
	} else {
		presence.Logs = logs
		logger.GrafanaLogger.Info("Queried logs panel", "validators", len(logs))
	}

	return presence
}
