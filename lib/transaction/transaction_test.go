package transaction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

var networkID = []byte("tokenpoll-unittest")

func TestTransactionWellFormed(t *testing.T) {
	conf := common.NewTestConfig()
	kp := keypair.Random()
	mint := common.DeriveAddress("mint", "0")

	tx, pollAddress := TestMakeTransactionCreatePoll(conf.NetworkID, kp, mint, 100)
	require.NoError(t, tx.IsWellFormed(conf))
	require.Equal(t, kp.Address(), tx.Source())
	require.True(t, common.IsValidAddress(pollAddress))
}

func TestTransactionEmptyOperations(t *testing.T) {
	_, err := NewTransaction(keypair.Random().Address())
	require.Equal(t, errors.TransactionEmptyOperations, err)

	conf := common.NewTestConfig()
	kp := keypair.Random()
	tx := TestMakeTransaction(conf.NetworkID, kp, operation.MakeTestResetPoll(common.DeriveAddress("poll", "0")))
	tx.B.Operations = nil
	require.NoError(t, tx.Sign(kp, conf.NetworkID))
	require.Equal(t, errors.TransactionEmptyOperations, tx.IsWellFormed(conf))
}

func TestTransactionSignature(t *testing.T) {
	conf := common.NewTestConfig()
	kp := keypair.Random()

	tx := TestMakeTransaction(conf.NetworkID, kp, operation.MakeTestResetPoll(common.DeriveAddress("poll", "0")))

	{ // signed for another network
		other := tx
		require.NoError(t, other.Sign(kp, []byte("other-network")))
		require.Equal(t, errors.InvalidSignature, other.IsWellFormed(conf))
	}

	{ // signed by another key
		other := tx
		require.NoError(t, other.Sign(keypair.Random(), conf.NetworkID))
		require.Equal(t, errors.InvalidSignature, other.IsWellFormed(conf))
	}

	{ // body changed after signing
		other := tx
		other.B.Created = common.NowISO8601() + "x"
		require.Equal(t, errors.HashDoesNotMatch, other.IsWellFormed(conf))
	}
}

func TestTransactionEmptyHash(t *testing.T) {
	conf := common.NewTestConfig()
	kp := keypair.Random()

	tx := TestMakeTransaction(conf.NetworkID, kp, operation.MakeTestResetPoll(common.DeriveAddress("poll", "0")))
	tx.H.Hash = ""
	require.Equal(t, errors.HashDoesNotMatch, tx.IsWellFormed(conf))
}

func TestTransactionCreatePollHash(t *testing.T) {
	conf := common.NewTestConfig()
	mint := common.DeriveAddress("mint", "0")

	a, pollA := TestMakeTransactionCreatePoll(conf.NetworkID, keypair.Random(), mint, 100, "A", "B")
	b, pollB := TestMakeTransactionCreatePoll(conf.NetworkID, keypair.Random(), mint, 100, "A", "B")

	require.NotEmpty(t, a.GetHash())
	require.NotEmpty(t, b.GetHash())
	require.NotEqual(t, a.GetHash(), b.GetHash())
	require.NotEqual(t, pollA, pollB)
	require.NoError(t, a.IsWellFormed(conf))
	require.NoError(t, b.IsWellFormed(conf))

	// the deadline is covered by the signed hash
	other := a
	other.B.Operations = []operation.Operation{operation.MakeTestCreatePoll(mint, 101, "A", "B")}
	require.Equal(t, errors.HashDoesNotMatch, other.IsWellFormed(conf))
}

func TestTransactionBadSource(t *testing.T) {
	conf := common.NewTestConfig()
	kp := keypair.Random()

	tx := TestMakeTransaction(conf.NetworkID, kp, operation.MakeTestResetPoll(common.DeriveAddress("poll", "0")))
	tx.B.Source = "bad"
	require.True(t, errors.BadPublicAddress.Is(tx.IsWellFormed(conf)))
}

func TestTransactionVersion(t *testing.T) {
	conf := common.NewTestConfig()
	kp := keypair.Random()

	tx := TestMakeTransaction(conf.NetworkID, kp, operation.MakeTestResetPoll(common.DeriveAddress("poll", "0")))
	tx.H.Version = "0"
	require.True(t, errors.TransactionInvalidVersion.Is(tx.IsWellFormed(conf)))
}

func TestTransactionOperationsLimit(t *testing.T) {
	conf := common.NewTestConfig()
	conf.OpsLimit = 2
	kp := keypair.Random()

	var ops []operation.Operation
	for i := 0; i < 3; i++ {
		ops = append(ops, operation.MakeTestResetPoll(common.DeriveAddress("poll", string(rune('a'+i)))))
	}

	tx := TestMakeTransaction(conf.NetworkID, kp, ops...)
	require.True(t, errors.TransactionTooManyOperations.Is(tx.IsWellFormed(conf)))

	tx = TestMakeTransaction(conf.NetworkID, kp, ops[:2]...)
	require.NoError(t, tx.IsWellFormed(conf))
}

func TestTransactionDuplicatedOperation(t *testing.T) {
	conf := common.NewTestConfig()
	kp := keypair.Random()
	pollAddress := common.DeriveAddress("poll", "0")

	tx := TestMakeTransaction(
		conf.NetworkID,
		kp,
		operation.MakeTestResetPoll(pollAddress),
		operation.MakeTestResetPoll(pollAddress),
	)
	require.True(t, errors.DuplicatedOperation.Is(tx.IsWellFormed(conf)))

	// repeated votes on the same poll are allowed
	holding := common.DeriveAddress("holding", "0")
	vault := common.DeriveAddress("holding", "1")
	tx = TestMakeTransaction(
		conf.NetworkID,
		kp,
		operation.MakeTestVote(pollAddress, 0, 1, holding, vault),
		operation.MakeTestVote(pollAddress, 0, 1, holding, vault),
	)
	require.NoError(t, tx.IsWellFormed(conf))
}

func TestTransactionJSON(t *testing.T) {
	conf := common.NewTestConfig()
	kp := keypair.Random()
	mint := common.DeriveAddress("mint", "0")

	tx := TestMakeTransaction(
		conf.NetworkID,
		kp,
		operation.MakeTestCreatePoll(mint, -5, "A", "B", "C"),
		operation.MakeTestVote(common.DeriveAddress("poll", "0"), 2, 10, common.DeriveAddress("holding", "0"), common.DeriveAddress("holding", "1")),
	)

	b, err := tx.Serialize()
	require.NoError(t, err)

	decoded, err := NewTransactionFromJSON(b)
	require.NoError(t, err)
	require.Equal(t, tx, decoded)
	hash, err := decoded.B.MakeHashString()
	require.NoError(t, err)
	require.Equal(t, tx.GetHash(), hash)
	require.NoError(t, decoded.IsWellFormed(conf))

	_, err = NewTransactionFromJSON([]byte(`{"H":{},"B":{"operations":[{"H":{"type":"unknown"},"B":{}}]}}`))
	require.True(t, errors.UnknownOperationType.Is(err))

	_, err = NewTransactionFromJSON([]byte(`{`))
	require.True(t, errors.BadRequestParameter.Is(err))

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	require.Contains(t, m, "H")
	require.Contains(t, m, "B")
}
