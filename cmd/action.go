package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

// newActionCmd posts asset and amount to /api/actions/{path} as the account flag
func newActionCmd(use, short, path string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			account, _ := cmd.Flags().GetString("account")
			body := map[string]string{}
			for _, f := range []string{"asset", "amount", "target", "asset_borrow", "asset_collateral"} {
				if v, _ := cmd.Flags().GetString(f); v != "" {
					body[f] = v
				}
			}

			printAPI(cmd, http.MethodPost, "/api/actions/"+path, account, body)
		},
	}

	cmd.Flags().String("account", "", "caller account")
	cmd.Flags().String("amount", "", `amount in base units, "all" when allowed`)
	if path == "liquidate" {
		cmd.Flags().String("target", "", "account in shortfall")
		cmd.Flags().String("asset_borrow", "", "borrowed asset to repay")
		cmd.Flags().String("asset_collateral", "", "collateral asset to seize")
	} else {
		cmd.Flags().String("asset", "", "asset")
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(
		newActionCmd("supply", "supply an asset", "supply"),
		newActionCmd("withdraw", "withdraw a supplied asset", "withdraw"),
		newActionCmd("borrow", "borrow an asset", "borrow"),
		newActionCmd("repay", "repay a borrowed asset", "repay"),
		newActionCmd("liquidate", "liquidate an account in shortfall", "liquidate"),
	)
}
