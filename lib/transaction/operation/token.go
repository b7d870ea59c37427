package operation

import (
	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/token"
)

// CreateMint makes a mint whose authority is the transaction source. The mint
// is stored at `token.MakeMintAddress(<tx hash>, <operation index>)`.
type CreateMint struct {
	Decimals uint8 `json:"decimals"`
}

func NewCreateMint(decimals uint8) CreateMint {
	return CreateMint{Decimals: decimals}
}

func (o CreateMint) IsWellFormed(common.Config) error {
	if o.Decimals > token.MaxDecimals {
		return errors.InvalidDecimals.Clone().SetData("decimals", o.Decimals)
	}

	return nil
}

// MintTo issues new units into `Target`; only the mint authority can sign it.
type MintTo struct {
	Mint   string        `json:"mint"`
	Target string        `json:"target"`
	Amount common.Amount `json:"amount"`
}

func NewMintTo(mint, target string, amount common.Amount) MintTo {
	return MintTo{Mint: mint, Target: target, Amount: amount}
}

func (o MintTo) IsWellFormed(common.Config) error {
	if o.Amount < 1 {
		return errors.InvalidAmount.Clone().SetData("amount", o.Amount)
	}

	return checkAddresses(o.Mint, o.Target)
}

func (o MintTo) TargetAddress() string {
	return o.Target
}

// CreateHolding creates the associated holding of `Owner` for `Mint`. Anyone
// can create it for anyone.
type CreateHolding struct {
	Mint  string `json:"mint"`
	Owner string `json:"owner"`
}

func NewCreateHolding(mint, owner string) CreateHolding {
	return CreateHolding{Mint: mint, Owner: owner}
}

func (o CreateHolding) IsWellFormed(common.Config) error {
	return checkAddresses(o.Mint, o.Owner)
}

func (o CreateHolding) TargetAddress() string {
	return token.AssociatedHoldingAddress(o.Owner, o.Mint)
}

// Transfer moves tokens from a holding owned by the transaction source.
type Transfer struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	Amount common.Amount `json:"amount"`
}

func NewTransfer(from, to string, amount common.Amount) Transfer {
	return Transfer{From: from, To: to, Amount: amount}
}

func (o Transfer) IsWellFormed(common.Config) error {
	if o.Amount < 1 {
		return errors.InvalidAmount.Clone().SetData("amount", o.Amount)
	}
	if o.From == o.To {
		return errors.InvalidOperation.Clone().SetData("reason", "same holding")
	}

	return checkAddresses(o.From, o.To)
}

func (o Transfer) TargetAddress() string {
	return o.To
}
