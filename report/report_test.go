package report

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"telreport/types"
)

func strPtr(s string) *string {
	return &s
}

func activeRecord(addr string, moniker *string) *types.ValidatorRecord {
	return &types.ValidatorRecord{
		Address:  addr,
		Moniker:  moniker,
		Status:   types.StatusActive,
		IsActive: true,
	}
}

func snapshotOf(records ...*types.ValidatorRecord) *types.OnchainSnapshot {
	snap := &types.OnchainSnapshot{
		Validators:       records,
		AddressToMoniker: make(map[string]string),
		MonikerToAddress: make(map[string]string),
	}
	for _, v := range records {
		snap.Summary.TotalUnique++
		if v.IsActive {
			snap.Summary.ActiveCount++
		}
		if v.IsBanned {
			snap.Summary.BannedCount++
		}
		if v.Moniker != nil {
			snap.Summary.WithMoniker++
			snap.AddressToMoniker[v.Address] = *v.Moniker
			snap.MonikerToAddress[*v.Moniker] = v.Address
		}
	}
	return snap
}

func TestReconcilePartitions(t *testing.T) {
	rep := Reconcile(snapshotOf(), &types.TelemetryPresence{
		Metrics: []string{"alice", "bob"},
		Logs:    []string{"bob", "carol"},
	}, Sources{})

	if want := []string{"bob"}; !reflect.DeepEqual(rep.Validators.FullyConfigured.Names, want) {
		t.Errorf("fully_configured = %v, want %v", rep.Validators.FullyConfigured.Names, want)
	}
	if want := []string{"alice"}; !reflect.DeepEqual(rep.Validators.MetricsOnly.Names, want) {
		t.Errorf("metrics_only = %v, want %v", rep.Validators.MetricsOnly.Names, want)
	}
	if want := []string{"carol"}; !reflect.DeepEqual(rep.Validators.LogsOnly.Names, want) {
		t.Errorf("logs_only = %v, want %v", rep.Validators.LogsOnly.Names, want)
	}
	if rep.Summary.TelemetryStatus.TotalWithAnyTelemetry != 3 {
		t.Errorf("union size = %d, want 3", rep.Summary.TelemetryStatus.TotalWithAnyTelemetry)
	}
}

// The three partitions must cover the telemetry union exactly and be
// pairwise disjoint.
func TestReconcilePartitionCompleteness(t *testing.T) {
	metrics := []string{"a", "b", "c", "d"}
	logs := []string{"c", "d", "e"}

	rep := Reconcile(snapshotOf(), &types.TelemetryPresence{Metrics: metrics, Logs: logs}, Sources{})

	seen := make(map[string]int)
	for _, names := range [][]string{
		rep.Validators.FullyConfigured.Names,
		rep.Validators.MetricsOnly.Names,
		rep.Validators.LogsOnly.Names,
	} {
		for _, n := range names {
			seen[n]++
		}
	}

	union := make(map[string]struct{})
	for _, n := range append(append([]string{}, metrics...), logs...) {
		union[n] = struct{}{}
	}

	if len(seen) != len(union) {
		t.Fatalf("partitions cover %d names, union has %d", len(seen), len(union))
	}
	for n, count := range seen {
		if count != 1 {
			t.Errorf("%q appears in %d partitions, want exactly 1", n, count)
		}
		if _, ok := union[n]; !ok {
			t.Errorf("%q not in the telemetry union", n)
		}
	}
}

func TestReconcileNoTelemetry(t *testing.T) {
	snap := snapshotOf(
		activeRecord("0x1111111111111111111111111111111111111111", strPtr("alice")),
		activeRecord("0x2222222222222222222222222222222222222222", strPtr("bob")),
		activeRecord("0x3333333333333333333333333333333333333333", nil),
	)
	telemetry := &types.TelemetryPresence{
		Metrics: []string{"bob"},
		Logs:    []string{"bob"},
	}

	rep := Reconcile(snap, telemetry, Sources{})

	entries := rep.Validators.NoTelemetry.Validators
	if len(entries) != 2 {
		t.Fatalf("expected 2 no-telemetry entries, got %d", len(entries))
	}

	// alice is active with a moniker but absent from the union; her
	// address comes along from the moniker index.
	if entries[0].Moniker == nil || *entries[0].Moniker != "alice" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[0].Address != "0x1111111111111111111111111111111111111111" {
		t.Errorf("unexpected address for alice: %s", entries[0].Address)
	}

	// The monikerless active validator is always reported, with a null
	// name placeholder.
	if entries[1].Moniker != nil {
		t.Errorf("expected null moniker placeholder, got %q", *entries[1].Moniker)
	}
	if entries[1].Address != "0x3333333333333333333333333333333333333333" {
		t.Errorf("unexpected monikerless address: %s", entries[1].Address)
	}

	if rep.Summary.TelemetryStatus.NoTelemetry != 2 {
		t.Errorf("no_telemetry count = %d, want 2", rep.Summary.TelemetryStatus.NoTelemetry)
	}
}

func TestReconcileRates(t *testing.T) {
	snap := snapshotOf(
		activeRecord("0x1111111111111111111111111111111111111111", strPtr("alice")),
		activeRecord("0x2222222222222222222222222222222222222222", strPtr("bob")),
		activeRecord("0x3333333333333333333333333333333333333333", strPtr("carol")),
		activeRecord("0x4444444444444444444444444444444444444444", strPtr("dave")),
	)
	telemetry := &types.TelemetryPresence{
		Metrics: []string{"alice", "bob"},
		Logs:    []string{"alice"},
	}

	rep := Reconcile(snap, telemetry, Sources{})
	if rep.Analysis.TelemetryAdoptionRate != "50.0%" {
		t.Errorf("adoption rate = %s, want 50.0%%", rep.Analysis.TelemetryAdoptionRate)
	}
	if rep.Analysis.FullObservabilityRate != "25.0%" {
		t.Errorf("observability rate = %s, want 25.0%%", rep.Analysis.FullObservabilityRate)
	}
}

func TestReconcileRatesNoActiveValidators(t *testing.T) {
	rep := Reconcile(snapshotOf(), &types.TelemetryPresence{}, Sources{})
	if rep.Analysis.TelemetryAdoptionRate != "0.0%" {
		t.Errorf("adoption rate = %s, want 0.0%%", rep.Analysis.TelemetryAdoptionRate)
	}
	if rep.Analysis.FullObservabilityRate != "0.0%" {
		t.Errorf("observability rate = %s, want 0.0%%", rep.Analysis.FullObservabilityRate)
	}
}

// Identical inputs must produce identical output everywhere but the
// generation timestamp.
func TestReconcileDeterministic(t *testing.T) {
	snap := snapshotOf(
		activeRecord("0x2222222222222222222222222222222222222222", strPtr("bob")),
		activeRecord("0x1111111111111111111111111111111111111111", strPtr("alice")),
		activeRecord("0x3333333333333333333333333333333333333333", nil),
	)
	telemetry := &types.TelemetryPresence{
		Metrics: []string{"zoe", "alice", "mallory"},
		Logs:    []string{"mallory", "alice"},
	}

	a := Reconcile(snap, telemetry, Sources{RpcURL: "http://rpc", GrafanaURL: "http://grafana"})
	b := Reconcile(snap, telemetry, Sources{RpcURL: "http://rpc", GrafanaURL: "http://grafana"})
	a.Metadata.GeneratedAt = ""
	b.Metadata.GeneratedAt = ""

	if !reflect.DeepEqual(a, b) {
		t.Error("two runs over identical inputs diverged")
	}

	for _, names := range [][]string{
		a.Validators.FullyConfigured.Names,
		a.Validators.MetricsOnly.Names,
		a.Validators.LogsOnly.Names,
	} {
		if !sort.StringsAreSorted(names) {
			t.Errorf("emitted names not sorted: %v", names)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	snap := snapshotOf(
		activeRecord("0x1111111111111111111111111111111111111111", strPtr("alice")),
		activeRecord("0x3333333333333333333333333333333333333333", nil),
	)
	telemetry := &types.TelemetryPresence{
		Metrics: []string{"bob"},
		Logs:    []string{"bob", "carol"},
	}

	md := RenderMarkdown(Reconcile(snap, telemetry, Sources{GrafanaURL: "http://grafana"}))

	for _, want := range []string{
		"# Validator Telemetry Report",
		"## Executive Summary",
		"## 1. Fully Configured (Metrics + Logs) - 1 validators",
		"## 2. Metrics Only (Missing Logs) - 0 validators",
		"_None_",
		"## 3. Logs Only (Missing Metrics) - 1 validators",
		"- carol",
		"## 4. No Telemetry - 2 validators",
		"- alice (`0x11111111...111111`)",
		"- Unknown (`0x33333333...333333`)",
		"## On-Chain Status",
		"## Data Sources",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}
