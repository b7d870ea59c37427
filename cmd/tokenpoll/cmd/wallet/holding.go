package wallet

import (
	"os"

	"github.com/spf13/cobra"

	"boscoin.io/tokenpoll/cmd/tokenpoll/common"
	tpcommon "boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/token"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

var (
	CreateHoldingCmd *cobra.Command
	TransferCmd      *cobra.Command

	flagCreateHolding bool
)

func init() {
	CreateHoldingCmd = &cobra.Command{
		Use:   "create-holding <payer secret seed> <mint> [<owner>]",
		Short: "Create the associated holding of <owner> for <mint>",
		Long:  "Create the associated holding of <owner> for <mint>. Without <owner>, the payer owns it.",
		Args:  cobra.RangeArgs(2, 3),
		Run: func(c *cobra.Command, args []string) {
			payer := parseSeed(c, "<payer secret seed>", args[0])
			mint := parseAddress(c, "<mint>", args[1])

			owner := payer.Address()
			if len(args) > 2 {
				owner = parseAddress(c, "<owner>", args[2])
			}

			cl := connect(c)
			defer cl.Close()

			receipt, err := Submit(cl, []byte(flagNetworkID), payer, operation.NewCreateHolding(mint, owner))
			if err != nil {
				common.PrintError(c, err)
			}

			printReceipt(c, os.Stdout, receipt)
		},
	}

	TransferCmd = &cobra.Command{
		Use:   "transfer <sender secret seed> <mint> <receiver> <amount>",
		Short: "Transfer tokens between the associated holdings of sender and receiver",
		Args:  cobra.ExactArgs(4),
		Run: func(c *cobra.Command, args []string) {
			sender := parseSeed(c, "<sender secret seed>", args[0])
			mint := parseAddress(c, "<mint>", args[1])
			receiver := parseAddress(c, "<receiver>", args[2])

			amount, err := common.ParseAmountFromString(args[3])
			if err != nil {
				common.PrintFlagsError(c, "<amount>", err)
			}

			cl := connect(c)
			defer cl.Close()

			receipt, err := Submit(cl, []byte(flagNetworkID), sender, MakeTransfer(sender.Address(), mint, receiver, amount, flagCreateHolding)...)
			if err != nil {
				common.PrintError(c, err)
			}

			printReceipt(c, os.Stdout, receipt)
		},
	}

	TransferCmd.Flags().BoolVar(&flagCreateHolding, "create-holding", false, "create the holding of receiver first")

	addCommonFlags(CreateHoldingCmd)
	addCommonFlags(TransferCmd)
}

// MakeTransfer moves amount from the associated holding of sender to the
// one of receiver.
func MakeTransfer(sender, mint, receiver string, amount tpcommon.Amount, createHolding bool) (bodies []operation.Body) {
	to := token.AssociatedHoldingAddress(receiver, mint)
	if createHolding {
		bodies = append(bodies, operation.NewCreateHolding(mint, receiver))
	}

	return append(
		bodies,
		operation.NewTransfer(token.AssociatedHoldingAddress(sender, mint), to, amount),
	)
}
