package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/tokenpoll/lib/token"
)

type Holding struct {
	h *token.Holding
}

func NewHolding(h *token.Holding) *Holding {
	return &Holding{h: h}
}

func (h Holding) GetMap() hal.Entry {
	return hal.Entry{
		"address": h.h.Address,
		"mint":    h.h.Mint,
		"owner":   h.h.Owner,
		"amount":  h.h.Amount,
	}
}

func (h Holding) Resource() *hal.Resource {
	r := hal.NewResource(h, h.LinkSelf())
	r.AddLink("mint", hal.NewLink(link(URLMint, h.h.Mint)))
	return r
}

func (h Holding) LinkSelf() string {
	return link(URLHolding, h.h.Address)
}

type Mint struct {
	m *token.Mint
}

func NewMint(m *token.Mint) *Mint {
	return &Mint{m: m}
}

func (m Mint) GetMap() hal.Entry {
	return hal.Entry{
		"address":   m.m.Address,
		"authority": m.m.Authority,
		"decimals":  m.m.Decimals,
		"supply":    m.m.Supply,
	}
}

func (m Mint) Resource() *hal.Resource {
	return hal.NewResource(m, m.LinkSelf())
}

func (m Mint) LinkSelf() string {
	return link(URLMint, m.m.Address)
}
