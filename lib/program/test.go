package program

import (
	"time"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/storage"
	"boscoin.io/tokenpoll/lib/token"
	"boscoin.io/tokenpoll/lib/transaction"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

// TestLedgerNow is the unix time of the `TestLedger` clock.
const TestLedgerNow int64 = 1000

// TestLedger is a program on a memory storage with a fixed clock and one
// mint, whose authority is `Authority`.
type TestLedger struct {
	Program   *Program
	Clock     *common.FixedClock
	NetworkID []byte
	Authority *keypair.Full
	Mint      string
}

func NewTestLedger() *TestLedger {
	conf := common.NewTestConfig()
	clock := common.NewFixedClock(time.Unix(TestLedgerNow, 0))

	l := &TestLedger{
		Program:   NewProgram(storage.NewTestStorage(), conf, clock),
		Clock:     clock,
		NetworkID: conf.NetworkID,
		Authority: keypair.Random(),
	}

	r := l.MustExecute(l.Authority, operation.MustNewOperation(operation.NewCreateMint(common.DefaultTokenDecimals)))
	l.Mint = r.Operations[0].Target

	return l
}

func (l *TestLedger) Execute(kp *keypair.Full, ops ...operation.Operation) (*Receipt, error) {
	return l.Program.Execute(transaction.TestMakeTransaction(l.NetworkID, kp, ops...))
}

func (l *TestLedger) MustExecute(kp *keypair.Full, ops ...operation.Operation) *Receipt {
	r, err := l.Execute(kp, ops...)
	if err != nil {
		panic(err)
	}

	return r
}

// Fund creates the associated holding of owner and mints amount into it.
func (l *TestLedger) Fund(owner string, amount common.Amount) string {
	address := token.AssociatedHoldingAddress(owner, l.Mint)

	ops := []operation.Operation{
		operation.MustNewOperation(operation.NewCreateHolding(l.Mint, owner)),
	}
	if amount > 0 {
		ops = append(ops, operation.MustNewOperation(operation.NewMintTo(l.Mint, address, amount)))
	}
	l.MustExecute(l.Authority, ops...)

	return address
}

// CreatePoll creates a poll of the ledger mint owned by owner.
func (l *TestLedger) CreatePoll(owner *keypair.Full, deadline int64, candidates ...string) string {
	r := l.MustExecute(owner, operation.MakeTestCreatePoll(l.Mint, deadline, candidates...))
	return r.Operations[0].Target
}

func (l *TestLedger) Vault(pollAddress string) string {
	return token.AssociatedHoldingAddress(pollAddress, l.Mint)
}

// Vote stakes amount of holding on candidate, sending it to the poll vault.
func (l *TestLedger) Vote(kp *keypair.Full, pollAddress string, candidate uint8, amount common.Amount, holding string) (*Receipt, error) {
	return l.Execute(kp, operation.MakeTestVote(pollAddress, candidate, amount, holding, l.Vault(pollAddress)))
}
