package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "admin operations through the api server",
}

// adminAction posts the flags of cmd to /api/admin/{path} as the admin
func adminAction(path string, fields ...string) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		body := map[string]interface{}{}
		for _, f := range fields {
			if f == "paused" {
				body[f], _ = cmd.Flags().GetBool(f)
				continue
			}

			v, _ := cmd.Flags().GetString(f)
			body[f] = v
		}

		as, _ := cmd.Flags().GetString("as")
		if as == "" {
			as = cfg.Params.Admin
		}

		printAPI(cmd, http.MethodPost, "/api/admin/"+path, as, body)
	}
}

func newAdminCmd(use, short string, fields ...string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Run:   adminAction(use, fields...),
	}

	for _, f := range fields {
		if f == "paused" {
			cmd.Flags().Bool(f, true, "pause or unpause")
			continue
		}

		cmd.Flags().String(f, "", f)
	}

	cmd.Flags().String("as", "", "caller account, the configured admin by default")
	return cmd
}

func init() {
	rootCmd.AddCommand(adminCmd)

	adminCmd.AddCommand(
		newAdminCmd("support-market", "support or resume a market", "asset", "rate_model"),
		newAdminCmd("suspend-market", "suspend a market", "asset"),
		newAdminCmd("set-market-rate-model", "switch the rate model of a market", "asset", "rate_model"),
		newAdminCmd("set-risk-parameters", "set collateral ratio and liquidation discount", "collateral_ratio", "liquidation_discount"),
		newAdminCmd("set-origination-fee", "set the borrow origination fee", "origination_fee"),
		newAdminCmd("set-oracle", "switch the price oracle", "oracle"),
		newAdminCmd("set-paused", "pause or unpause the ledger", "paused"),
		newAdminCmd("set-pending-admin", "propose a new admin", "pending_admin"),
		newAdminCmd("accept-admin", "accept the admin role as the pending admin"),
		newAdminCmd("withdraw-equity", "withdraw protocol equity", "asset", "amount"),
	)
}
