package token

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/storage"
)

func TestMintCreate(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	authority := keypair.Random().Address()
	m := TestMakeMint(st, authority)

	fetched, err := GetMint(st, m.Address)
	require.NoError(t, err)
	require.Equal(t, m, fetched)

	require.True(t, errors.MintAlreadyExists.Is(m.Create(st)))

	_, err = GetMint(st, common.DeriveAddress("mint", "missing"))
	require.True(t, errors.MintDoesNotExist.Is(err))

	_, err = NewMint(m.Address, authority, MaxDecimals+1)
	require.True(t, errors.InvalidDecimals.Is(err))
}

func TestAssociatedHoldingAddress(t *testing.T) {
	owner := keypair.Random().Address()
	mint := common.DeriveAddress("mint", "0")

	require.Equal(t, AssociatedHoldingAddress(owner, mint), AssociatedHoldingAddress(owner, mint))
	require.NotEqual(t, AssociatedHoldingAddress(owner, mint), AssociatedHoldingAddress(owner, common.DeriveAddress("mint", "1")))
	require.True(t, common.IsValidAddress(AssociatedHoldingAddress(owner, mint)))
}

func TestHoldingDepositWithdraw(t *testing.T) {
	h := NewAssociatedHolding(keypair.Random().Address(), common.DeriveAddress("mint", "0"))

	require.NoError(t, h.Deposit(100))
	require.NoError(t, h.Withdraw(40))
	require.Equal(t, common.Amount(60), h.Amount)

	require.True(t, errors.TokenInsufficientFunds.Is(h.Withdraw(61)))
	require.Equal(t, common.Amount(60), h.Amount)

	require.True(t, errors.AmountOverflow.Is(h.Deposit(math.MaxUint64)))
	require.Equal(t, common.Amount(60), h.Amount)
}

func TestHoldingCreateAndList(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	owner := keypair.Random().Address()
	m0 := TestMakeMint(st, owner)
	m1 := TestMakeMint(st, owner)

	h0 := TestMakeHolding(st, owner, m0.Address, 10)
	h1 := TestMakeHolding(st, owner, m1.Address, 20)
	TestMakeHolding(st, keypair.Random().Address(), m0.Address, 30)

	require.True(t, errors.HoldingAlreadyExists.Is(NewAssociatedHolding(owner, m0.Address).Create(st)))

	var fetched []*Holding
	iterFunc, closeFunc := GetHoldingsByOwner(st, owner, nil)
	for {
		h, hasNext, _ := iterFunc()
		if !hasNext {
			break
		}
		fetched = append(fetched, h)
	}
	closeFunc()

	require.Equal(t, []*Holding{h0, h1}, fetched)
}

func TestCustodyTransfer(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	owner := keypair.Random().Address()
	m := TestMakeMint(st, owner)
	from := TestMakeHolding(st, owner, m.Address, 100)
	to := TestMakeHolding(st, keypair.Random().Address(), m.Address, 0)

	var custody DefaultCustody
	require.NoError(t, custody.Transfer(st, from.Address, to.Address, owner, 10))

	from, _ = GetHolding(st, from.Address)
	to, _ = GetHolding(st, to.Address)
	require.Equal(t, common.Amount(90), from.Amount)
	require.Equal(t, common.Amount(10), to.Amount)
}

func TestCustodyTransferFailures(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	owner := keypair.Random().Address()
	m := TestMakeMint(st, owner)
	other := TestMakeMint(st, owner)
	from := TestMakeHolding(st, owner, m.Address, 100)
	to := TestMakeHolding(st, keypair.Random().Address(), m.Address, 0)
	foreign := TestMakeHolding(st, keypair.Random().Address(), other.Address, 0)

	var custody DefaultCustody

	err := custody.Transfer(st, from.Address, to.Address, keypair.Random().Address(), 10)
	require.True(t, errors.TokenOwnerMismatch.Is(err))

	err = custody.Transfer(st, from.Address, foreign.Address, owner, 10)
	require.True(t, errors.TokenMintMismatch.Is(err))

	err = custody.Transfer(st, from.Address, to.Address, owner, 101)
	require.True(t, errors.TokenInsufficientFunds.Is(err))

	err = custody.Transfer(st, from.Address, common.DeriveAddress("holding", "missing"), owner, 1)
	require.True(t, errors.HoldingDoesNotExist.Is(err))

	from, _ = GetHolding(st, from.Address)
	to, _ = GetHolding(st, to.Address)
	require.Equal(t, common.Amount(100), from.Amount)
	require.Equal(t, common.Amount(0), to.Amount)
}

func TestCustodyTransferToSelf(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	owner := keypair.Random().Address()
	m := TestMakeMint(st, owner)
	h := TestMakeHolding(st, owner, m.Address, 5)

	var custody DefaultCustody
	require.NoError(t, custody.Transfer(st, h.Address, h.Address, owner, 5))
	require.True(t, errors.TokenInsufficientFunds.Is(custody.Transfer(st, h.Address, h.Address, owner, 6)))

	h, _ = GetHolding(st, h.Address)
	require.Equal(t, common.Amount(5), h.Amount)
}

func TestCustodyMintTo(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	authority := keypair.Random().Address()
	m := TestMakeMint(st, authority)
	h := TestMakeHolding(st, keypair.Random().Address(), m.Address, 0)

	var custody DefaultCustody
	require.NoError(t, custody.MintTo(st, m.Address, h.Address, authority, 1000))

	err := custody.MintTo(st, m.Address, h.Address, keypair.Random().Address(), 1)
	require.True(t, errors.MintAuthorityMismatch.Is(err))

	err = custody.MintTo(st, m.Address, h.Address, authority, math.MaxUint64)
	require.True(t, errors.AmountOverflow.Is(err))

	m, _ = GetMint(st, m.Address)
	h, _ = GetHolding(st, h.Address)
	require.Equal(t, common.Amount(1000), m.Supply)
	require.Equal(t, common.Amount(1000), h.Amount)
}
