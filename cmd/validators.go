package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"telreport/chain"
	"telreport/logger"
)

var validatorsRpcURL string

var validatorsCmd = cobra.Command{
	Use:   "validators",
	Short: "List on-chain validators and their status",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.InitLogs("validators")

		if validatorsRpcURL != "" {
			chain.ChainRpcURL = validatorsRpcURL
		}

		snapshot, err := chain.FetchOnchainValidators()
		if err != nil {
			return fmt.Errorf("fetching on-chain validator sets: %w", err)
		}

		fmt.Printf("%-44s %-18s %s\n", "ADDRESS", "STATUS", "MONIKER")
		for _, v := range snapshot.Validators {
			moniker := "-"
			if v.Moniker != nil {
				moniker = *v.Moniker
			}
			fmt.Printf("%-44s %-18s %s\n", v.Address, v.Status, moniker)
		}

		s := snapshot.Summary
		fmt.Printf("\n%d validators (%d active, %d banned, %d with moniker)\n",
			s.TotalUnique, s.ActiveCount, s.BannedCount, s.WithMoniker)
		return nil
	},
}

func init() {
	validatorsCmd.Flags().StringVar(&validatorsRpcURL, "rpc-url", "", "chain RPC URL (overrides config and RPC_URL)")
	RootCmd.AddCommand(&validatorsCmd)
}
