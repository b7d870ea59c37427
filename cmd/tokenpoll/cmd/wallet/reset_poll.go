package wallet

import (
	"os"

	"github.com/spf13/cobra"

	"boscoin.io/tokenpoll/cmd/tokenpoll/common"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

var (
	ResetPollCmd *cobra.Command
)

func init() {
	ResetPollCmd = &cobra.Command{
		Use:   "reset-poll <owner secret seed> <poll>",
		Short: "Close <poll>; only its owner can",
		Args:  cobra.ExactArgs(2),
		Run: func(c *cobra.Command, args []string) {
			owner := parseSeed(c, "<owner secret seed>", args[0])
			pollAddress := parseAddress(c, "<poll>", args[1])

			cl := connect(c)
			defer cl.Close()

			receipt, err := Submit(cl, []byte(flagNetworkID), owner, operation.NewResetPoll(pollAddress))
			if err != nil {
				common.PrintError(c, err)
			}

			printReceipt(c, os.Stdout, receipt)
		},
	}

	addCommonFlags(ResetPollCmd)
}
