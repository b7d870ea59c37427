package token

import (
	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/storage"
)

// Custody moves tokens between holdings. Every method either applies all of
// its writes to st or returns an error; callers run it inside a storage
// transaction so a later failure discards the writes too.
type Custody interface {
	Transfer(st *storage.LevelDBBackend, from, to, authority string, amount common.Amount) error
	MintTo(st *storage.LevelDBBackend, mint, to, authority string, amount common.Amount) error
}

type DefaultCustody struct{}

func (DefaultCustody) Transfer(st *storage.LevelDBBackend, from, to, authority string, amount common.Amount) error {
	source, err := GetHolding(st, from)
	if err != nil {
		return err
	}
	target, err := GetHolding(st, to)
	if err != nil {
		return err
	}

	if source.Owner != authority {
		return errors.TokenOwnerMismatch.Clone().SetData("holding", from).SetData("authority", authority)
	}
	if source.Mint != target.Mint {
		return errors.TokenMintMismatch.Clone().SetData("from", source.Mint).SetData("to", target.Mint)
	}

	if from == to {
		if source.Amount < amount {
			return errors.TokenInsufficientFunds.Clone().SetData("holding", from)
		}
		return nil
	}

	if err = source.Withdraw(amount); err != nil {
		return err
	}
	if err = target.Deposit(amount); err != nil {
		return err
	}

	if err = source.Save(st); err != nil {
		return err
	}

	return target.Save(st)
}

func (DefaultCustody) MintTo(st *storage.LevelDBBackend, mintAddress, to, authority string, amount common.Amount) error {
	mint, err := GetMint(st, mintAddress)
	if err != nil {
		return err
	}
	if mint.Authority != authority {
		return errors.MintAuthorityMismatch.Clone().SetData("mint", mintAddress).SetData("authority", authority)
	}

	target, err := GetHolding(st, to)
	if err != nil {
		return err
	}
	if target.Mint != mintAddress {
		return errors.TokenMintMismatch.Clone().SetData("from", mintAddress).SetData("to", target.Mint)
	}

	if mint.Supply, err = mint.Supply.Add(amount); err != nil {
		return errors.AmountOverflow.Clone().SetData("mint", mintAddress)
	}
	if err = target.Deposit(amount); err != nil {
		return err
	}

	if err = mint.Save(st); err != nil {
		return err
	}

	return target.Save(st)
}
