package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"telreport/chain"
	"telreport/config"
	"telreport/grafana"
	"telreport/logger"
	"telreport/report"
	"telreport/types"
)

var (
	reportOutput  string
	reportFormat  string
	reportRpcURL  string
	reportGrafana string
	skipTelemetry bool
)

var reportCmd = cobra.Command{
	Use:   "report",
	Short: "Generate the validator telemetry status report",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.InitLogs("report")

		if reportFormat != "json" && reportFormat != "markdown" && reportFormat != "both" {
			return fmt.Errorf("invalid format %q: must be json, markdown or both", reportFormat)
		}
		if reportRpcURL != "" {
			chain.ChainRpcURL = reportRpcURL
		}
		if reportGrafana != "" {
			grafana.GrafanaURL = reportGrafana
		}

		logger.GlobalLogger.Info("Running cmd report, generating validator telemetry report...")

		// The two bulk enumerations are the only fatal calls: without
		// them there is no validator universe to report on.
		snapshot, err := chain.FetchOnchainValidators()
		if err != nil {
			return fmt.Errorf("fetching on-chain validator sets: %w", err)
		}

		var telemetry *types.TelemetryPresence
		if skipTelemetry {
			logger.GrafanaLogger.Info("Skipping telemetry queries (on-chain only mode)")
			telemetry = &types.TelemetryPresence{}
		} else {
			telemetry = grafana.FetchTelemetry()
		}

		rep := report.Reconcile(snapshot, telemetry, report.Sources{
			RpcURL:     chain.GetChainRpcURL(),
			GrafanaURL: grafana.GetGrafanaURL(),
		})

		if reportFormat == "json" || reportFormat == "both" {
			data, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling report: %w", err)
			}
			if err := os.WriteFile(reportOutput, data, 0o644); err != nil {
				return fmt.Errorf("writing JSON report: %w", err)
			}
			fmt.Printf("\nJSON report saved to: %s\n", reportOutput)
		}

		if reportFormat == "markdown" || reportFormat == "both" {
			mdOutput := reportOutput
			if reportFormat == "both" {
				mdOutput = strings.TrimSuffix(reportOutput, ".json") + ".md"
			}
			if err := os.WriteFile(mdOutput, []byte(report.RenderMarkdown(rep)), 0o644); err != nil {
				return fmt.Errorf("writing Markdown report: %w", err)
			}
			fmt.Printf("Markdown report saved to: %s\n", mdOutput)
		}

		printSummary(rep, skipTelemetry)
		return nil
	},
}

func printSummary(rep *report.Report, skippedTelemetry bool) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("SUMMARY")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("On-chain active validators: %d\n", rep.Summary.OnChainValidators.ActiveCount)

	if skippedTelemetry {
		return
	}

	ts := rep.Summary.TelemetryStatus
	fmt.Println("\nTelemetry Status:")
	fmt.Printf("  1. Fully configured (metrics + logs): %d\n", ts.FullyConfigured)
	fmt.Printf("  2. Metrics only (missing logs):       %d\n", ts.MetricsOnly)
	fmt.Printf("  3. Logs only (missing metrics):       %d\n", ts.LogsOnly)
	fmt.Printf("  4. No telemetry:                      %d\n", ts.NoTelemetry)
	fmt.Printf("\nTelemetry adoption: %s\n", rep.Analysis.TelemetryAdoptionRate)
	fmt.Printf("Full observability: %s\n", rep.Analysis.FullObservabilityRate)
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", config.DefaultOutputPath, "output file path")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "json", "output format: json, markdown or both")
	reportCmd.Flags().StringVar(&reportRpcURL, "rpc-url", "", "chain RPC URL (overrides config and RPC_URL)")
	reportCmd.Flags().StringVar(&reportGrafana, "grafana-url", "", "Grafana URL (overrides config and GRAFANA_URL)")
	reportCmd.Flags().BoolVar(&skipTelemetry, "skip-telemetry", false, "skip Grafana telemetry queries (on-chain data only)")
	RootCmd.AddCommand(&reportCmd)
}
