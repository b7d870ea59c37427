package program

import (
	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/observer"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/poll"
	"boscoin.io/tokenpoll/lib/token"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

// VoteChecker validates a vote before any token moves. The funcs run in
// order and the first failure is returned.
type VoteChecker struct {
	common.DefaultChecker

	Context   *Context
	Operation operation.Vote

	Poll    *poll.Poll
	Holding *token.Holding
}

var VoteCheckerFuncs = []common.CheckerFunc{
	VoteLoadPoll,
	VoteLoadHolding,
	CheckVoteDeadline,
	CheckVoteCandidate,
	CheckVoteMint,
	CheckVoteOwner,
	CheckVoteFunds,
	CheckVoteVault,
}

func VoteLoadPoll(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*VoteChecker)
	checker.Poll, err = poll.GetPoll(checker.Context.Storage, checker.Operation.Poll)

	return
}

func VoteLoadHolding(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*VoteChecker)
	checker.Holding, err = token.GetHolding(checker.Context.Storage, checker.Operation.Holding)

	return
}

// CheckVoteDeadline only looks at the deadline; a poll closed by its owner
// still accepts votes until then.
func CheckVoteDeadline(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*VoteChecker)

	if !checker.Poll.IsOpen(checker.Context.Now.Unix()) {
		err = errors.PollClosed.Clone().
			SetData("poll", checker.Poll.Address).
			SetData("deadline", checker.Poll.Deadline)
	}

	return
}

func CheckVoteCandidate(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*VoteChecker)

	if int(checker.Operation.Candidate) >= checker.Poll.CandidateCount() {
		err = errors.InvalidCandidate.Clone().SetData("index", checker.Operation.Candidate)
	}

	return
}

func CheckVoteMint(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*VoteChecker)

	if checker.Holding.Mint != checker.Poll.RequiredMint {
		err = errors.WrongMint.Clone().
			SetData("required", checker.Poll.RequiredMint).
			SetData("mint", checker.Holding.Mint)
	}

	return
}

func CheckVoteOwner(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*VoteChecker)

	if checker.Holding.Owner != checker.Context.Source {
		err = errors.NoTokenAccount.Clone().SetData("holding", checker.Holding.Address)
	}

	return
}

func CheckVoteFunds(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*VoteChecker)

	if checker.Holding.Amount < checker.Operation.Amount {
		err = errors.InsufficientToken.Clone().
			SetData("amount", checker.Holding.Amount).
			SetData("requested", checker.Operation.Amount)
	}

	return
}

// CheckVoteVault requires the destination to be the custody holding of the
// poll, so staked tokens can not be sent back to the voter.
func CheckVoteVault(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*VoteChecker)

	vault := token.AssociatedHoldingAddress(checker.Poll.Address, checker.Poll.RequiredMint)
	if checker.Operation.Vault != vault {
		err = errors.InvalidVault.Clone().SetData("vault", checker.Operation.Vault).SetData("expected", vault)
	}

	return
}

// finishVote moves the staked tokens into the poll vault, then adds them to
// the tally. The tally is not touched when the transfer fails.
func finishVote(ctx *Context, op operation.Vote) (string, error) {
	checker := &VoteChecker{
		DefaultChecker: common.DefaultChecker{Funcs: VoteCheckerFuncs},
		Context:        ctx,
		Operation:      op,
	}
	if err := common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return "", err
	}

	p := checker.Poll
	if err := ctx.Custody.Transfer(ctx.Storage, op.Holding, op.Vault, ctx.Source, op.Amount); err != nil {
		log.Debug("vote transfer failed", "poll", p.Address, "holding", op.Holding, "error", err)
		return "", err
	}

	if err := p.AddVote(int(op.Candidate), op.Amount); err != nil {
		return "", err
	}
	if err := p.Save(ctx.Storage); err != nil {
		return "", err
	}

	ctx.stake(op.Amount)
	ctx.touch(observer.ResourcePoll, p.Address)
	ctx.touch(observer.ResourceHolding, op.Holding, op.Vault)

	log.Debug(
		"vote cast",
		"poll", p.Address,
		"candidate", op.Candidate,
		"amount", op.Amount,
		"voter", ctx.Source,
	)

	return p.Address, nil
}
