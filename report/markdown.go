package report

import (
	"fmt"
	"strings"

	"telreport/utils"
)

// RenderMarkdown renders the report as Markdown with fixed section
// ordering: executive summary, the four telemetry categories, on-chain
// status breakdown, data sources. Pure formatting, no decision logic.
func RenderMarkdown(r *Report) string {
	var b strings.Builder

	telemetry := r.Summary.TelemetryStatus
	onchain := r.Summary.OnChainValidators
	validators := r.Validators

	b.WriteString("# Validator Telemetry Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", r.Metadata.GeneratedAt)

	b.WriteString("## Executive Summary\n\n")
	b.WriteString("| Category | Count |\n")
	b.WriteString("|----------|-------|\n")
	fmt.Fprintf(&b, "| On-chain active validators | %d |\n", onchain.ActiveCount)
	fmt.Fprintf(&b, "| **Fully configured** (metrics + logs) | %d |\n", telemetry.FullyConfigured)
	fmt.Fprintf(&b, "| **Metrics only** (missing logs) | %d |\n", telemetry.MetricsOnly)
	fmt.Fprintf(&b, "| **Logs only** (missing metrics) | %d |\n", telemetry.LogsOnly)
	fmt.Fprintf(&b, "| **No telemetry** | %d |\n\n", telemetry.NoTelemetry)

	fmt.Fprintf(&b, "**Telemetry adoption rate:** %s\n", r.Analysis.TelemetryAdoptionRate)
	fmt.Fprintf(&b, "**Full observability rate:** %s\n\n", r.Analysis.FullObservabilityRate)
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "## 1. Fully Configured (Metrics + Logs) - %d validators\n\n", validators.FullyConfigured.Count)
	writeNameList(&b, validators.FullyConfigured.Names)
	b.WriteString("\n---\n\n")

	fmt.Fprintf(&b, "## 2. Metrics Only (Missing Logs) - %d validators\n\n", validators.MetricsOnly.Count)
	fmt.Fprintf(&b, "> **Recommendation:** %s\n\n", validators.MetricsOnly.Recommendation)
	writeNameList(&b, validators.MetricsOnly.Names)
	b.WriteString("\n---\n\n")

	fmt.Fprintf(&b, "## 3. Logs Only (Missing Metrics) - %d validators\n\n", validators.LogsOnly.Count)
	fmt.Fprintf(&b, "> **Recommendation:** %s\n\n", validators.LogsOnly.Recommendation)
	writeNameList(&b, validators.LogsOnly.Names)
	b.WriteString("\n---\n\n")

	fmt.Fprintf(&b, "## 4. No Telemetry - %d validators\n\n", validators.NoTelemetry.Count)
	fmt.Fprintf(&b, "> **Recommendation:** %s\n\n", validators.NoTelemetry.Recommendation)
	if len(validators.NoTelemetry.Validators) == 0 {
		b.WriteString("_None_\n")
	} else {
		for _, v := range validators.NoTelemetry.Validators {
			name := "Unknown"
			if v.Moniker != nil {
				name = *v.Moniker
			}
			fmt.Fprintf(&b, "- %s (`%s`)\n", name, utils.ShortAddr(v.Address))
		}
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## On-Chain Status\n\n")
	fmt.Fprintf(&b, "- **Active only:** %d\n", onchain.ActiveOnly)
	fmt.Fprintf(&b, "- **Active + Banned:** %d\n", onchain.ActiveAndBanned)
	fmt.Fprintf(&b, "- **Banned only:** %d\n\n", onchain.BannedOnly)
	b.WriteString("---\n\n")

	b.WriteString("## Data Sources\n\n")
	fmt.Fprintf(&b, "- **On-chain:** `%s`\n", r.Metadata.Sources.OnChain.Contract)
	fmt.Fprintf(&b, "- **Dashboard:** %s\n", r.Metadata.Sources.Telemetry.Dashboard)

	return b.String()
}

func writeNameList(b *strings.Builder, names []string) {
	if len(names) == 0 {
		b.WriteString("_None_\n")
		return
	}
	for _, name := range names {
		fmt.Fprintf(b, "- %s\n", name)
	}
}
