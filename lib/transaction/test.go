package transaction

import (
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/poll"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

// TestMakeTransaction signs a transaction of ops with kp.
func TestMakeTransaction(networkID []byte, kp *keypair.Full, ops ...operation.Operation) Transaction {
	tx, err := NewTransaction(kp.Address(), ops...)
	if err != nil {
		panic(err)
	}
	if err := tx.Sign(kp, networkID); err != nil {
		panic(err)
	}

	return tx
}

// TestMakeTransactionCreatePoll returns a signed create-poll transaction and
// the address of the poll it creates.
func TestMakeTransactionCreatePoll(networkID []byte, kp *keypair.Full, mint string, deadline int64, candidates ...string) (Transaction, string) {
	tx := TestMakeTransaction(networkID, kp, operation.MakeTestCreatePoll(mint, deadline, candidates...))
	return tx, poll.MakeAddress(tx.GetHash(), 0)
}
