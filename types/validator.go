package types

// ValidatorStatus is the on-chain status derived from membership in the
// active and banned validator sets.
type ValidatorStatus string

const (
	StatusActive          ValidatorStatus = "active"
	StatusBanned          ValidatorStatus = "banned"
	StatusActiveAndBanned ValidatorStatus = "active_and_banned"
	StatusUnknown         ValidatorStatus = "unknown"
)

// DeriveStatus maps the (isActive, isBanned) pair to a status. The
// mapping is total: every combination yields exactly one status.
// StatusUnknown only occurs for an address in neither source set, which
// cannot happen when the record universe is the union of the two sets.
func DeriveStatus(isActive, isBanned bool) ValidatorStatus {
	switch {
	case isActive && !isBanned:
		return StatusActive
	case isBanned && !isActive:
		return StatusBanned
	case isActive && isBanned:
		return StatusActiveAndBanned
	default:
		return StatusUnknown
	}
}

// ValidatorRecord is one on-chain validator. Address is the canonical
// lowercase hex form, used for all set membership and lookups. Moniker
// is nil when the wallet or identity lookup chain failed or returned
// empty.
type ValidatorRecord struct {
	Address  string          `json:"address"`
	Moniker  *string         `json:"moniker"`
	Status   ValidatorStatus `json:"status"`
	IsActive bool            `json:"is_active"`
	IsBanned bool            `json:"is_banned"`
}

// OnchainSummary holds the counters over one validator snapshot.
type OnchainSummary struct {
	TotalUnique     int `json:"total_unique"`
	ActiveCount     int `json:"active_count"`
	BannedCount     int `json:"banned_count"`
	ActiveOnly      int `json:"active_only"`
	BannedOnly      int `json:"banned_only"`
	ActiveAndBanned int `json:"active_and_banned"`
	WithMoniker     int `json:"with_moniker"`
}

// OnchainSnapshot is the full on-chain validator state fetched in one
// run: records sorted by address plus the moniker indexes used to match
// against telemetry names.
type OnchainSnapshot struct {
	Validators       []*ValidatorRecord
	AddressToMoniker map[string]string
	MonikerToAddress map[string]string
	Summary          OnchainSummary
}

// TelemetryPresence holds the validator display names seen pushing
// metrics and logs within the queried windows. Both slices are
// deduplicated and sorted.
type TelemetryPresence struct {
	Metrics []string
	Logs    []string
}
