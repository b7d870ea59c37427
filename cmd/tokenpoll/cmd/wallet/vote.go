package wallet

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"boscoin.io/tokenpoll/cmd/tokenpoll/common"
	"boscoin.io/tokenpoll/lib/client"
	tpcommon "boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/token"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

var (
	VoteCmd     *cobra.Command
	flagHolding string
)

func init() {
	VoteCmd = &cobra.Command{
		Use:   "vote <voter secret seed> <poll> <candidate index> <amount>",
		Short: "Stake <amount> tokens on a candidate of <poll>",
		Args:  cobra.ExactArgs(4),
		Run: func(c *cobra.Command, args []string) {
			voter := parseSeed(c, "<voter secret seed>", args[0])
			pollAddress := parseAddress(c, "<poll>", args[1])

			index, err := strconv.ParseUint(args[2], 10, 8)
			if err != nil {
				common.PrintFlagsError(c, "<candidate index>", err)
			}

			amount, err := common.ParseAmountFromString(args[3])
			if err != nil {
				common.PrintFlagsError(c, "<amount>", err)
			}

			if len(flagHolding) > 0 {
				parseAddress(c, "--holding", flagHolding)
			}

			cl := connect(c)
			defer cl.Close()

			body, err := MakeVote(cl, voter.Address(), pollAddress, uint8(index), amount, flagHolding)
			if err != nil {
				common.PrintError(c, err)
			}

			receipt, err := Submit(cl, []byte(flagNetworkID), voter, body)
			if err != nil {
				common.PrintError(c, err)
			}

			printReceipt(c, os.Stdout, receipt)
		},
	}

	VoteCmd.Flags().StringVar(&flagHolding, "holding", "", "holding to stake from; defaults to the associated holding of the voter")
	addCommonFlags(VoteCmd)
}

// MakeVote loads the poll to find its vault and required mint, then builds
// the vote. Without a holding, the associated holding of the voter is used.
func MakeVote(cl *client.Client, voter, pollAddress string, index uint8, amount tpcommon.Amount, holding string) (operation.Vote, error) {
	p, err := cl.LoadPoll(pollAddress)
	if err != nil {
		return operation.Vote{}, err
	}

	if int(index) >= len(p.Candidates) {
		return operation.Vote{}, fmt.Errorf("poll has %d candidates, index %d is out of range", len(p.Candidates), index)
	}

	if len(holding) < 1 {
		holding = token.AssociatedHoldingAddress(voter, p.RequiredMint)
	}

	return operation.NewVote(p.Address, index, amount, holding, p.Vault), nil
}
