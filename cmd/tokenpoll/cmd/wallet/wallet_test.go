package wallet

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/tokenpoll/lib/client"
	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/node/runner"
	"boscoin.io/tokenpoll/lib/program"
	"boscoin.io/tokenpoll/lib/token"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

func prepare(t *testing.T) (*runner.TestNodeRunner, *client.Client) {
	nr := runner.NewTestNodeRunner(common.NewTestConfig())

	cl, err := client.NewClient(nr.HTTP.URL)
	require.NoError(t, err)

	return nr, cl
}

func TestParseDeadline(t *testing.T) {
	{
		deadline, err := ParseDeadline("1700000000")
		require.NoError(t, err)
		require.Equal(t, int64(1700000000), deadline)
	}

	{
		deadline, err := ParseDeadline("2023-11-14T22:13:20.000000000Z")
		require.NoError(t, err)
		require.Equal(t, int64(1700000000), deadline)
	}

	{
		_, err := ParseDeadline("tomorrow")
		require.Error(t, err)
	}
}

func TestWalletCreatePollAndVote(t *testing.T) {
	nr, cl := prepare(t)
	defer nr.Close()
	defer cl.Close()

	creator := keypair.Random()
	receipt, err := Submit(
		cl,
		nr.Ledger.NetworkID,
		creator,
		operation.NewCreatePoll("lunch", []string{"noodle", "rice"}, program.TestLedgerNow+60, nr.Ledger.Mint),
	)
	require.NoError(t, err)
	pollAddress := receipt.Target(0)
	require.NotEmpty(t, pollAddress)

	voter := keypair.Random()
	nr.Ledger.Fund(voter.Address(), 100)

	vote, err := MakeVote(cl, voter.Address(), pollAddress, 1, 30, "")
	require.NoError(t, err)
	require.Equal(t, token.AssociatedHoldingAddress(voter.Address(), nr.Ledger.Mint), vote.Holding)
	require.Equal(t, nr.Ledger.Vault(pollAddress), vote.Vault)

	_, err = Submit(cl, nr.Ledger.NetworkID, voter, vote)
	require.NoError(t, err)

	p, err := cl.LoadPoll(pollAddress)
	require.NoError(t, err)
	require.Equal(t, []common.Amount{0, 30}, p.Votes)

	// index out of candidates is caught before submitting
	_, err = MakeVote(cl, voter.Address(), pollAddress, 2, 30, "")
	require.Error(t, err)

	// only the owner resets
	_, err = Submit(cl, nr.Ledger.NetworkID, voter, operation.NewResetPoll(pollAddress))
	require.Error(t, err)

	_, err = Submit(cl, nr.Ledger.NetworkID, creator, operation.NewResetPoll(pollAddress))
	require.NoError(t, err)

	p, err = cl.LoadPoll(pollAddress)
	require.NoError(t, err)
	require.True(t, p.IsClosed)
}

func TestWalletTransfer(t *testing.T) {
	nr, cl := prepare(t)
	defer nr.Close()
	defer cl.Close()

	sender := keypair.Random()
	nr.Ledger.Fund(sender.Address(), 100)

	receiver := keypair.Random()

	// without the holding of receiver
	_, err := Submit(cl, nr.Ledger.NetworkID, sender, MakeTransfer(sender.Address(), nr.Ledger.Mint, receiver.Address(), 40, false)...)
	require.Error(t, err)

	_, err = Submit(cl, nr.Ledger.NetworkID, sender, MakeTransfer(sender.Address(), nr.Ledger.Mint, receiver.Address(), 40, true)...)
	require.NoError(t, err)

	h, err := cl.LoadHolding(token.AssociatedHoldingAddress(receiver.Address(), nr.Ledger.Mint))
	require.NoError(t, err)
	require.Equal(t, common.Amount(40), h.Amount)
	require.Equal(t, receiver.Address(), h.Owner)

	h, err = cl.LoadHolding(token.AssociatedHoldingAddress(sender.Address(), nr.Ledger.Mint))
	require.NoError(t, err)
	require.Equal(t, common.Amount(60), h.Amount)
}

func TestPrintReceipt(t *testing.T) {
	r := client.Receipt{
		Hash:     "8Gza",
		Source:   "GSOURCE",
		Executed: "2018-01-01T00:00:00.000000000Z",
		Operations: []program.ReceiptOperation{
			{Index: 0, Type: operation.TypeCreatePoll, Target: "GPOLL"},
		},
	}

	{
		var b bytes.Buffer
		require.NoError(t, defaultEncode(r, &b))
		require.True(t, strings.Contains(b.String(), "hash: 8Gza"))
		require.True(t, strings.Contains(b.String(), "operation#0: create-poll GPOLL"))
	}

	{
		flagFormat = "json"
		defer func() { flagFormat = "default" }()

		var b bytes.Buffer
		printReceipt(nil, &b, r)

		var decoded client.Receipt
		require.NoError(t, json.Unmarshal(b.Bytes(), &decoded))
		require.Equal(t, "GPOLL", decoded.Target(0))
	}
}
