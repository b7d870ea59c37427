package cmd

import (
	"github.com/spf13/cobra"

	"boscoin.io/tokenpoll/cmd/tokenpoll/cmd/wallet"
)

var (
	walletCmd *cobra.Command
)

func init() {
	walletCmd = &cobra.Command{
		Use:   "wallet",
		Short: "Send transactions to a node",
		Run: func(c *cobra.Command, args []string) {
			if len(args) < 1 {
				c.Usage()
			}
		},
	}

	walletCmd.AddCommand(wallet.CreatePollCmd)
	walletCmd.AddCommand(wallet.VoteCmd)
	walletCmd.AddCommand(wallet.ResetPollCmd)
	walletCmd.AddCommand(wallet.CreateHoldingCmd)
	walletCmd.AddCommand(wallet.TransferCmd)
	rootCmd.AddCommand(walletCmd)
}
