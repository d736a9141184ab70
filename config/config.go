package config

import "time"

// Path config
const (
	LogPath    = "./logs/"
	ConfigPath = "./"
)

// Endpoint defaults, overridable via flags, config.yaml or env
const (
	DefaultRpcURL     = "https://genlayer-testnet.rpc.caldera.xyz/http"
	DefaultGrafanaURL = "https://genlayerfoundation.grafana.net"
)

// On-chain config
const (
	ChainID                = 4221
	StakingContract        = "0x10eCB157734c8152f1d84D00040c8AA46052CB27"
	ValidatorWalletFactory = "0x2e198119E639D1063180f281617f64Dd788D78d2"
)

// Function selectors
const (
	GetValidatorsSelector         = "0x16e7d513" // getValidatorsAtCurrentEpoch()
	GetBannedSelector             = "0x1972f9ce" // getAllBannedValidators()
	GetWalletsForOperatorSelector = "0xf31fa988" // getWalletsForOperator(address)
	GetIdentitySelector           = "0x36afc6fa" // getIdentity()
)

// Telemetry config
const (
	// Public dashboard, no auth required
	PublicDashboardToken = "66a372d856ea44e78cf9ac21a344f792"
	DashboardSlug        = "d/agfnnmw/who-is-pushing"

	MetricsPanelID = 2
	LogsPanelID    = 1

	// Per-panel query windows; metrics are scraped frequently, logs
	// arrive in larger batches so the window is wider
	MetricsTimeFrom = "now-15m"
	LogsTimeFrom    = "now-1h"
)

// Network config
const (
	DefaultTimeout = 30 * time.Second
)

// Decoding bounds
const (
	// Upper bound on a declared moniker length, guards against
	// malformed or malicious identity payloads
	MaxMonikerLength = 1000
)

// Output config
const (
	DefaultOutputPath = "validator-telemetry-report.json"
)
