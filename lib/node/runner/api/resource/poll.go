package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/tokenpoll/lib/poll"
	"boscoin.io/tokenpoll/lib/token"
)

// Poll renders a poll with the tally of each candidate. `now` decides
// `is_open`.
type Poll struct {
	p   *poll.Poll
	now int64
}

func NewPoll(p *poll.Poll, now int64) *Poll {
	return &Poll{p: p, now: now}
}

func (p Poll) Vault() string {
	return token.AssociatedHoldingAddress(p.p.Address, p.p.RequiredMint)
}

func (p Poll) GetMap() hal.Entry {
	return hal.Entry{
		"address":       p.p.Address,
		"title":         p.p.Title,
		"candidates":    p.p.Candidates(),
		"votes":         p.p.Votes(),
		"owner":         p.p.Owner,
		"deadline":      p.p.Deadline,
		"required_mint": p.p.RequiredMint,
		"is_closed":     p.p.IsClosed,
		"is_open":       p.p.IsOpen(p.now),
		"vault":         p.Vault(),
	}
}

func (p Poll) Resource() *hal.Resource {
	r := hal.NewResource(p, p.LinkSelf())
	r.AddLink("stream", hal.NewLink(link(URLPollStream, p.p.Address)))
	r.AddLink("vault", hal.NewLink(link(URLHolding, p.Vault())))
	r.AddLink("mint", hal.NewLink(link(URLMint, p.p.RequiredMint)))
	return r
}

func (p Poll) LinkSelf() string {
	return link(URLPoll, p.p.Address)
}
