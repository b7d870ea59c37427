package program

import (
	"boscoin.io/tokenpoll/lib/common/observer"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/token"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

func finishCreateMint(ctx *Context, op operation.CreateMint) (string, error) {
	m, err := token.NewMint(token.MakeMintAddress(ctx.TxHash, ctx.Index), ctx.Source, op.Decimals)
	if err != nil {
		return "", err
	}
	if err = m.Create(ctx.Storage); err != nil {
		return "", err
	}
	ctx.touch(observer.ResourceMint, m.Address)

	return m.Address, nil
}

func finishMintTo(ctx *Context, op operation.MintTo) (string, error) {
	if err := ctx.Custody.MintTo(ctx.Storage, op.Mint, op.Target, ctx.Source, op.Amount); err != nil {
		return "", err
	}
	ctx.touch(observer.ResourceMint, op.Mint)
	ctx.touch(observer.ResourceHolding, op.Target)

	return op.Target, nil
}

func finishCreateHolding(ctx *Context, op operation.CreateHolding) (string, error) {
	if exists, err := token.ExistsMint(ctx.Storage, op.Mint); err != nil {
		return "", err
	} else if !exists {
		return "", errors.MintDoesNotExist.Clone().SetData("address", op.Mint)
	}

	h := token.NewAssociatedHolding(op.Owner, op.Mint)
	if err := h.Create(ctx.Storage); err != nil {
		return "", err
	}
	ctx.touch(observer.ResourceHolding, h.Address)

	return h.Address, nil
}

func finishTransfer(ctx *Context, op operation.Transfer) (string, error) {
	if err := ctx.Custody.Transfer(ctx.Storage, op.From, op.To, ctx.Source, op.Amount); err != nil {
		return "", err
	}
	ctx.touch(observer.ResourceHolding, op.From, op.To)

	return op.To, nil
}
