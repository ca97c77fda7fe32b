package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

// maintain command
var tokenCmd = &cobra.Command{
	Use:   "token <account>",
	Short: "sign an api access token for account with auth.secret",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := issueToken(args[0], ttl)
		if err != nil {
			cmd.PrintErrln("sign token:", err)
			return
		}

		cmd.Println(token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
}
