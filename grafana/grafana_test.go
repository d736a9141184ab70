package grafana

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"telreport/config"
	"telreport/logger"
)

func init() {
	logger.InitLogs("grafana_test")
}

func frameWith(names ...string) map[string]interface{} {
	fields := make([]interface{}, 0, len(names))
	for _, n := range names {
		fields = append(fields, map[string]interface{}{
			"labels": map[string]string{"validator_name": n},
		})
	}
	return map[string]interface{}{
		"schema": map[string]interface{}{"fields": fields},
	}
}

func panelResponse(frames ...map[string]interface{}) map[string]interface{} {
	fs := make([]interface{}, 0, len(frames))
	for _, f := range frames {
		fs = append(fs, f)
	}
	return map[string]interface{}{
		"results": map[string]interface{}{
			"A": map[string]interface{}{"frames": fs},
		},
	}
}

func TestQueryPanelValidators(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := fmt.Sprintf("/api/public/dashboards/%s/panels/%d/query", config.PublicDashboardToken, config.MetricsPanelID)
		if r.URL.Path != wantPath {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var q panelQuery
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			t.Errorf("failed to decode panel query: %v", err)
		}
		if q.From != "now-15m" || q.To != "now" {
			t.Errorf("unexpected time range: %+v", q)
		}

		// carol appears twice across frames, the last frame carries no
		// validator_name label at all
		unlabeled := map[string]interface{}{
			"schema": map[string]interface{}{"fields": []interface{}{
				map[string]interface{}{"labels": map[string]string{"instance": "delta"}},
			}},
		}
		resp := panelResponse(frameWith("carol", "alice"), frameWith("carol", "bob"), unlabeled)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()
	GrafanaURL = ts.URL

	names, err := QueryPanelValidators(config.PublicDashboardToken, config.MetricsPanelID, "now-15m")
	if err != nil {
		t.Fatalf("QueryPanelValidators failed: %v", err)
	}
	if want := []string{"alice", "bob", "carol"}; !reflect.DeepEqual(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestQueryPanelValidatorsEmptyBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"results": map[string]interface{}{}})
	}))
	defer ts.Close()
	GrafanaURL = ts.URL

	names, err := QueryPanelValidators(config.PublicDashboardToken, config.LogsPanelID, "now-1h")
	if err != nil {
		t.Fatalf("QueryPanelValidators failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected no names, got %v", names)
	}
}

func TestFetchTelemetryPartialFailure(t *testing.T) {
	metricsPath := fmt.Sprintf("/panels/%d/query", config.MetricsPanelID)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, metricsPath) {
			_ = json.NewEncoder(w).Encode(panelResponse(frameWith("alice")))
			return
		}
		http.Error(w, "panel unavailable", http.StatusInternalServerError)
	}))
	defer ts.Close()
	GrafanaURL = ts.URL

	presence := FetchTelemetry()
	if want := []string{"alice"}; !reflect.DeepEqual(presence.Metrics, want) {
		t.Errorf("got metrics %v, want %v", presence.Metrics, want)
	}
	if len(presence.Logs) != 0 {
		t.Errorf("expected empty logs set after panel failure, got %v", presence.Logs)
	}
}

func TestFetchTelemetryTotalFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service down", http.StatusBadGateway)
	}))
	defer ts.Close()
	GrafanaURL = ts.URL

	presence := FetchTelemetry()
	if len(presence.Metrics) != 0 || len(presence.Logs) != 0 {
		t.Errorf("expected empty presence, got %+v", presence)
	}
}
