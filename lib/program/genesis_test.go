package program

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/storage"
	"boscoin.io/tokenpoll/lib/token"
)

func TestMakeGenesis(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	p := NewProgram(st, common.NewTestConfig(), common.NewFixedClock(time.Unix(TestLedgerNow, 0)))

	_, err := GetGenesis(st)
	requireErrorCode(t, errors.GenesisNotFound, err)

	authority := keypair.Random()
	g, err := MakeGenesis(p, authority, 6, 1000)
	require.NoError(t, err)
	require.Equal(t, authority.Address(), g.Authority)
	require.Equal(t, token.AssociatedHoldingAddress(authority.Address(), g.Mint), g.Treasury)

	m, err := token.GetMint(st, g.Mint)
	require.NoError(t, err)
	require.Equal(t, uint8(6), m.Decimals)
	require.Equal(t, authority.Address(), m.Authority)
	require.Equal(t, common.Amount(1000), m.Supply)

	h, err := token.GetHolding(st, g.Treasury)
	require.NoError(t, err)
	require.Equal(t, common.Amount(1000), h.Amount)

	loaded, err := GetGenesis(st)
	require.NoError(t, err)
	require.Equal(t, *g, *loaded)

	_, err = MakeGenesis(p, authority, 6, 1000)
	requireErrorCode(t, errors.GenesisExists, err)
}

func TestMakeGenesisWithoutSupply(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	p := NewProgram(st, common.NewTestConfig(), common.NewFixedClock(time.Unix(TestLedgerNow, 0)))

	g, err := MakeGenesis(p, keypair.Random(), common.DefaultTokenDecimals, 0)
	require.NoError(t, err)

	h, err := token.GetHolding(st, g.Treasury)
	require.NoError(t, err)
	require.Equal(t, common.Amount(0), h.Amount)
}
