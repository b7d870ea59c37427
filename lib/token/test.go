package token

import (
	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/storage"
)

// TestMakeMint stores a mint with 9 decimals under the given authority.
func TestMakeMint(st *storage.LevelDBBackend, authority string) *Mint {
	m, err := NewMint(common.DeriveAddress("mint", common.GetUniqueIDFromUUID()), authority, 9)
	if err != nil {
		panic(err)
	}
	if err = m.Create(st); err != nil {
		panic(err)
	}

	return m
}

// TestMakeHolding stores the associated holding of owner for mint, funded
// with amount. The mint supply is not updated.
func TestMakeHolding(st *storage.LevelDBBackend, owner, mint string, amount common.Amount) *Holding {
	h := NewAssociatedHolding(owner, mint)
	h.Amount = amount
	if err := h.Create(st); err != nil {
		panic(err)
	}

	return h
}
