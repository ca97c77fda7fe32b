package cmd

import (
	"encoding/json"

	"moneymarket/internal/simulation"

	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "replay a liquidation on in memory stores and print every step",
	Run: func(cmd *cobra.Command, args []string) {
		opt := simulation.Options{}
		opt.Blocks, _ = cmd.Flags().GetInt64("blocks")
		opt.CollateralPrice, _ = cmd.Flags().GetString("price")

		if name, _ := cmd.Flags().GetString("rate-model"); name != "" {
			for idx := range cfg.RateModels {
				if cfg.RateModels[idx].Name == name {
					opt.RateModel = &cfg.RateModels[idx]
				}
			}

			if opt.RateModel == nil {
				cmd.PrintErrln("rate model not configured:", name)
				return
			}
		}

		steps, err := simulation.Run(cmd.Context(), opt)
		if err != nil {
			cmd.PrintErrln("simulate:", err)
			return
		}

		data, _ := json.MarshalIndent(steps, "", "  ")
		cmd.Println(string(data))
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Int64("blocks", 0, "blocks passing before the price drop")
	simulateCmd.Flags().String("price", "0.9", "usd price after the drop")
	simulateCmd.Flags().String("rate-model", "", "configured rate model of the markets")
}
