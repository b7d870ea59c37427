package program

import (
	"boscoin.io/tokenpoll/lib/common/observer"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/poll"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

// finishResetPoll closes the poll. Only the owner can do it; closing a closed
// poll succeeds and changes nothing.
func finishResetPoll(ctx *Context, op operation.ResetPoll) (string, error) {
	p, err := poll.GetPoll(ctx.Storage, op.Poll)
	if err != nil {
		return "", err
	}

	if p.Owner != ctx.Source {
		return "", errors.PollOwnerMismatch.Clone().SetData("poll", p.Address).SetData("signer", ctx.Source)
	}

	if p.IsClosed {
		return p.Address, nil
	}

	p.Close()
	if err = p.Save(ctx.Storage); err != nil {
		return "", err
	}
	ctx.touch(observer.ResourcePoll, p.Address)

	return p.Address, nil
}
