package wallet

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"boscoin.io/tokenpoll/cmd/tokenpoll/common"
	tpcommon "boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/poll"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

var (
	CreatePollCmd *cobra.Command
)

func init() {
	CreatePollCmd = &cobra.Command{
		Use:   "create-poll <creator secret seed> <required mint> <deadline> <title> <candidate> <candidate> [<candidate>...]",
		Short: "Create a poll voted with the tokens of <required mint>",
		Long:  "Create a poll voted with the tokens of <required mint>. <deadline> is unix seconds or ISO8601 time.",
		Args:  cobra.MinimumNArgs(6),
		Run: func(c *cobra.Command, args []string) {
			creator := parseSeed(c, "<creator secret seed>", args[0])
			mint := parseAddress(c, "<required mint>", args[1])

			deadline, err := ParseDeadline(args[2])
			if err != nil {
				common.PrintFlagsError(c, "<deadline>", err)
			}

			title, candidates := args[3], args[4:]
			if err := poll.CheckTitle(title); err != nil {
				common.PrintFlagsError(c, "<title>", err)
			}
			if err := poll.CheckCandidates(candidates); err != nil {
				common.PrintFlagsError(c, "<candidate>", err)
			}

			cl := connect(c)
			defer cl.Close()

			receipt, err := Submit(
				cl,
				[]byte(flagNetworkID),
				creator,
				operation.NewCreatePoll(title, candidates, deadline, mint),
			)
			if err != nil {
				common.PrintError(c, err)
			}

			printReceipt(c, os.Stdout, receipt)
		},
	}

	addCommonFlags(CreatePollCmd)
}

// ParseDeadline reads unix seconds or an ISO8601 time.
func ParseDeadline(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}

	t, err := tpcommon.ParseISO8601(s)
	if err != nil {
		return 0, fmt.Errorf("deadline must be unix seconds or ISO8601 time: %q", s)
	}

	return t.Unix(), nil
}
