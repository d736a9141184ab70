package report

import (
	"fmt"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"telreport/config"
	"telreport/types"
)

// Sources carries the endpoints the data was fetched from, recorded in
// the report metadata.
type Sources struct {
	RpcURL     string
	GrafanaURL string
}

type OnchainSource struct {
	Contract string `json:"contract"`
	Factory  string `json:"factory"`
	Rpc      string `json:"rpc"`
	ChainID  int    `json:"chain_id"`
}

type TelemetrySource struct {
	GrafanaURL      string `json:"grafana_url"`
	Dashboard       string `json:"dashboard"`
	PublicDashboard string `json:"public_dashboard"`
}

type Metadata struct {
	GeneratedAt string `json:"generated_at"`
	Description string `json:"description"`
	Sources     struct {
		OnChain   OnchainSource   `json:"on_chain"`
		Telemetry TelemetrySource `json:"telemetry"`
	} `json:"sources"`
}

type TelemetryStatusSummary struct {
	FullyConfigured       int `json:"fully_configured"`
	MetricsOnly           int `json:"metrics_only"`
	LogsOnly              int `json:"logs_only"`
	NoTelemetry           int `json:"no_telemetry"`
	TotalWithAnyTelemetry int `json:"total_with_any_telemetry"`
}

type Summary struct {
	OnChainValidators types.OnchainSummary   `json:"on_chain_validators"`
	TelemetryStatus   TelemetryStatusSummary `json:"telemetry_status"`
}

// NameCategory is one telemetry partition listed by validator name.
type NameCategory struct {
	Description    string   `json:"description"`
	Count          int      `json:"count"`
	Names          []string `json:"names"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// NoTelemetryEntry is an on-chain-active validator with no matching
// telemetry. Moniker is null when the validator has no resolvable name
// and so cannot be matched against the telemetry sets at all.
type NoTelemetryEntry struct {
	Moniker *string `json:"moniker"`
	Address string  `json:"address"`
}

type NoTelemetryCategory struct {
	Description    string             `json:"description"`
	Count          int                `json:"count"`
	Validators     []NoTelemetryEntry `json:"validators"`
	Recommendation string             `json:"recommendation"`
}

type Categories struct {
	FullyConfigured NameCategory        `json:"fully_configured"`
	MetricsOnly     NameCategory        `json:"metrics_only"`
	LogsOnly        NameCategory        `json:"logs_only"`
	NoTelemetry     NoTelemetryCategory `json:"no_telemetry"`
}

type ValidatorRef struct {
	Address string  `json:"address"`
	Moniker *string `json:"moniker"`
}

type OnchainBreakdown struct {
	ActiveAndHealthy []ValidatorRef `json:"active_and_healthy"`
	ActiveButBanned  []ValidatorRef `json:"active_but_banned"`
	BannedOnly       []ValidatorRef `json:"banned_only"`
}

type Analysis struct {
	TelemetryAdoptionRate string `json:"telemetry_adoption_rate"`
	FullObservabilityRate string `json:"full_observability_rate"`
}

type Report struct {
	Metadata          Metadata         `json:"metadata"`
	Summary           Summary          `json:"summary"`
	Validators        Categories       `json:"validators"`
	OnchainValidators OnchainBreakdown `json:"on_chain_validators"`
	Analysis          Analysis         `json:"analysis"`
}

// Reconcile combines the on-chain snapshot with the telemetry presence
// sets into the report document. Pure except for the generation
// timestamp: identical inputs yield identical output everywhere else.
func Reconcile(onchain *types.OnchainSnapshot, telemetry *types.TelemetryPresence, sources Sources) *Report {
	metricsSet := mapset.NewSet(telemetry.Metrics...)
	logsSet := mapset.NewSet(telemetry.Logs...)

	fullyConfigured := metricsSet.Intersect(logsSet)
	metricsOnly := metricsSet.Difference(logsSet)
	logsOnly := logsSet.Difference(metricsSet)
	anyTelemetry := metricsSet.Union(logsSet)

	// Active validators split by whether their moniker resolved: named
	// ones are matched against the telemetry union, nameless ones are
	// always reported as no-telemetry since they cannot be matched.
	activeMonikers := mapset.NewSet[string]()
	var monikerless []*types.ValidatorRecord
	for _, v := range onchain.Validators {
		if !v.IsActive {
			continue
		}
		if v.Moniker != nil {
			activeMonikers.Add(*v.Moniker)
		} else {
			monikerless = append(monikerless, v)
		}
	}
	noTelemetryMonikers := activeMonikers.Difference(anyTelemetry)

	noTelemetry := make([]NoTelemetryEntry, 0, noTelemetryMonikers.Cardinality()+len(monikerless))
	for _, moniker := range sortedSlice(noTelemetryMonikers) {
		addr, ok := onchain.MonikerToAddress[moniker]
		if !ok {
			addr = "unknown"
		}
		m := moniker
		noTelemetry = append(noTelemetry, NoTelemetryEntry{Moniker: &m, Address: addr})
	}
	for _, v := range monikerless {
		noTelemetry = append(noTelemetry, NoTelemetryEntry{Moniker: nil, Address: v.Address})
	}

	activeCount := onchain.Summary.ActiveCount

	r := &Report{
		Metadata: Metadata{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			Description: "Validator telemetry status report",
		},
		Summary: Summary{
			OnChainValidators: onchain.Summary,
			TelemetryStatus: TelemetryStatusSummary{
				FullyConfigured:       fullyConfigured.Cardinality(),
				MetricsOnly:           metricsOnly.Cardinality(),
				LogsOnly:              logsOnly.Cardinality(),
				NoTelemetry:           len(noTelemetry),
				TotalWithAnyTelemetry: anyTelemetry.Cardinality(),
			},
		},
		Validators: Categories{
			FullyConfigured: NameCategory{
				Description: "Validators pushing both metrics AND logs",
				Count:       fullyConfigured.Cardinality(),
				Names:       sortedSlice(fullyConfigured),
			},
			MetricsOnly: NameCategory{
				Description:    "Validators pushing metrics but NOT logs",
				Count:          metricsOnly.Cardinality(),
				Names:          sortedSlice(metricsOnly),
				Recommendation: "Configure Grafana Alloy to push logs",
			},
			LogsOnly: NameCategory{
				Description:    "Validators pushing logs but NOT metrics",
				Count:          logsOnly.Cardinality(),
				Names:          sortedSlice(logsOnly),
				Recommendation: "Configure Prometheus metrics forwarding",
			},
			NoTelemetry: NoTelemetryCategory{
				Description:    "On-chain validators with no telemetry data",
				Count:          len(noTelemetry),
				Validators:     noTelemetry,
				Recommendation: "Configure Grafana Alloy for metrics and logs",
			},
		},
		OnchainValidators: OnchainBreakdown{
			ActiveAndHealthy: refsByStatus(onchain.Validators, types.StatusActive),
			ActiveButBanned:  refsByStatus(onchain.Validators, types.StatusActiveAndBanned),
			BannedOnly:       refsByStatus(onchain.Validators, types.StatusBanned),
		},
		Analysis: Analysis{
			TelemetryAdoptionRate: rate(anyTelemetry.Cardinality(), activeCount),
			FullObservabilityRate: rate(fullyConfigured.Cardinality(), activeCount),
		},
	}

	r.Metadata.Sources.OnChain = OnchainSource{
		Contract: config.StakingContract,
		Factory:  config.ValidatorWalletFactory,
		Rpc:      sources.RpcURL,
		ChainID:  config.ChainID,
	}
	r.Metadata.Sources.Telemetry = TelemetrySource{
		GrafanaURL:      sources.GrafanaURL,
		Dashboard:       sources.GrafanaURL + "/" + config.DashboardSlug,
		PublicDashboard: sources.GrafanaURL + "/public-dashboards/" + config.PublicDashboardToken,
	}

	return r
}

func sortedSlice(s mapset.Set[string]) []string {
	names := s.ToSlice()
	sort.Strings(names)
	return names
}

func refsByStatus(validators []*types.ValidatorRecord, status types.ValidatorStatus) []ValidatorRef {
	refs := make([]ValidatorRef, 0)
	for _, v := range validators {
		if v.Status == status {
			refs = append(refs, ValidatorRef{Address: v.Address, Moniker: v.Moniker})
		}
	}
	return refs
}

// rate formats n out of total as a percentage with one decimal digit.
// A zero total is clamped to one so an empty validator set reports
// 0.0% instead of dividing by zero.
func rate(n, total int) string {
	if total < 1 {
		total = 1
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}
