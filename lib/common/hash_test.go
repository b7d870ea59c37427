package common

import (
	"testing"

	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/require"
)

type hashable struct {
	Title string
	Votes []uint64
}

func TestMakeObjectHashStable(t *testing.T) {
	a := hashable{Title: "lunch", Votes: []uint64{1, 2}}
	b := hashable{Title: "lunch", Votes: []uint64{1, 2}}
	c := hashable{Title: "lunch", Votes: []uint64{2, 1}}

	require.Equal(t, MustMakeObjectHash(a), MustMakeObjectHash(b))
	require.NotEqual(t, MustMakeObjectHash(a), MustMakeObjectHash(c))
	require.Equal(t, 32, len(MustMakeObjectHash(a)))
}

func TestMakeObjectHashString(t *testing.T) {
	a := hashable{Title: "lunch"}
	s, err := MakeObjectHashString(a)
	require.NoError(t, err)
	require.Equal(t, MustMakeObjectHash(a), base58.Decode(s))
}

func TestMakeObjectHashSignedInteger(t *testing.T) {
	_, err := MakeObjectHash(struct{ I int64 }{I: -1})
	require.Error(t, err)
}

func TestMustMakeObjectHashPanics(t *testing.T) {
	v := struct{ I int64 }{I: -1}
	require.Panics(t, func() { MustMakeObjectHash(v) })
	require.Panics(t, func() { MustMakeObjectHashString(v) })
}
