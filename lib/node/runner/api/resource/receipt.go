package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/tokenpoll/lib/program"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

type Receipt struct {
	r *program.Receipt
}

func NewReceipt(r *program.Receipt) *Receipt {
	return &Receipt{r: r}
}

func (r Receipt) GetMap() hal.Entry {
	return hal.Entry{
		"hash":       r.r.Hash,
		"source":     r.r.Source,
		"executed":   r.r.Executed,
		"operations": r.r.Operations,
		"signature":  r.r.Transaction.H.Signature,
		"created":    r.r.Transaction.B.Created,
	}
}

func (r Receipt) Resource() *hal.Resource {
	res := hal.NewResource(r, r.LinkSelf())

	linked := map[string]bool{}
	for _, op := range r.r.Operations {
		if linked[op.Target] {
			continue
		}
		switch op.Type {
		case operation.TypeCreatePoll, operation.TypeVote, operation.TypeResetPoll:
			res.AddLink("poll", hal.NewLink(link(URLPoll, op.Target)))
		case operation.TypeCreateHolding, operation.TypeTransfer, operation.TypeMintTo:
			res.AddLink("holding", hal.NewLink(link(URLHolding, op.Target)))
		case operation.TypeCreateMint:
			res.AddLink("mint", hal.NewLink(link(URLMint, op.Target)))
		}
		linked[op.Target] = true
	}

	return res
}

func (r Receipt) LinkSelf() string {
	return link(URLTransactionByHash, r.r.Hash)
}

// Points is the off-ledger points balance of a wallet.
type Points struct {
	Wallet  string
	Balance uint64
}

func NewPoints(wallet string, balance uint64) *Points {
	return &Points{Wallet: wallet, Balance: balance}
}

func (p Points) GetMap() hal.Entry {
	return hal.Entry{
		"wallet":  p.Wallet,
		"balance": p.Balance,
	}
}

func (p Points) Resource() *hal.Resource {
	return hal.NewResource(p, p.LinkSelf())
}

func (p Points) LinkSelf() string {
	return link(URLPoints, p.Wallet)
}

// Exchange is the result of exchanging points for tokens.
type Exchange struct {
	receipt *program.Receipt
	Wallet  string
	Points  uint64
	Balance uint64
}

func NewExchange(receipt *program.Receipt, wallet string, points, balance uint64) *Exchange {
	return &Exchange{receipt: receipt, Wallet: wallet, Points: points, Balance: balance}
}

func (e Exchange) GetMap() hal.Entry {
	return hal.Entry{
		"wallet":  e.Wallet,
		"points":  e.Points,
		"balance": e.Balance,
	}
}

func (e Exchange) Resource() *hal.Resource {
	r := hal.NewResource(e, e.LinkSelf())
	r.Embed("receipt", NewReceipt(e.receipt).Resource())
	return r
}

func (e Exchange) LinkSelf() string {
	return link(URLTransactionByHash, e.receipt.Hash)
}
