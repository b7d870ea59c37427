package program

import (
	"boscoin.io/tokenpoll/lib/common/observer"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/poll"
	"boscoin.io/tokenpoll/lib/token"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

// finishCreatePoll stores a new open poll owned by the transaction source and
// the empty vault that will hold the staked tokens. The deadline may already
// be in the past.
func finishCreatePoll(ctx *Context, op operation.CreatePoll) (address string, err error) {
	address = poll.MakeAddress(ctx.TxHash, ctx.Index)

	var exists bool
	if exists, err = poll.ExistsPoll(ctx.Storage, address); err != nil {
		return
	} else if exists {
		err = errors.PollAlreadyExists.Clone().SetData("address", address)
		return
	}

	var p *poll.Poll
	if p, err = poll.NewPoll(address, ctx.Source, op.Title, op.Candidates, op.Deadline, op.RequiredMint); err != nil {
		return
	}
	if err = p.Save(ctx.Storage); err != nil {
		return
	}

	vault := token.NewAssociatedHolding(address, op.RequiredMint)
	if exists, err = token.ExistsHolding(ctx.Storage, vault.Address); err != nil {
		return
	} else if !exists {
		if err = vault.Create(ctx.Storage); err != nil {
			return
		}
	}

	ctx.touch(observer.ResourcePoll, address)
	ctx.touch(observer.ResourceHolding, vault.Address)

	log.Debug("poll created", "poll", address, "owner", ctx.Source, "candidates", p.CandidateCount())

	return
}
