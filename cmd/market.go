package cmd

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var marketsCmd = &cobra.Command{
	Use:     "markets",
	Aliases: []string{"ms"},
	Short:   "list markets, or show one by the flag 'asset'",
	Run: func(cmd *cobra.Command, args []string) {
		path := "/api/markets"
		if asset, _ := cmd.Flags().GetString("asset"); asset != "" {
			path += "/" + url.PathEscape(asset)
		}

		printAPI(cmd, http.MethodGet, path, "", nil)
	},
}

var accountCmd = &cobra.Command{
	Use:   "account <account>",
	Short: "show liquidity, balances and recent events of an account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		account := url.PathEscape(args[0])

		for _, path := range []string{
			fmt.Sprintf("/api/accounts/%s/liquidity", account),
			fmt.Sprintf("/api/accounts/%s/balances", account),
			fmt.Sprintf("/api/accounts/%s/events?limit=20", account),
		} {
			printAPI(cmd, http.MethodGet, path, "", nil)
		}
	},
}

func init() {
	rootCmd.AddCommand(marketsCmd)
	marketsCmd.Flags().String("asset", "", "asset of the market")

	rootCmd.AddCommand(accountCmd)
}
