package points

import (
	"sync"

	"boscoin.io/tokenpoll/lib/errors"
)

// Store keeps the off-ledger point balance of wallets. A wallet never seen
// before holds the initial balance of the store.
type Store interface {
	Balance(wallet string) (uint64, error)
	Debit(wallet string, amount uint64) (uint64, error)
	Credit(wallet string, amount uint64) (uint64, error)
}

type MemoryStore struct {
	sync.Mutex

	initial  uint64
	balances map[string]uint64
}

func NewMemoryStore(initial uint64) *MemoryStore {
	return &MemoryStore{
		initial:  initial,
		balances: map[string]uint64{},
	}
}

func (s *MemoryStore) balance(wallet string) uint64 {
	if b, found := s.balances[wallet]; found {
		return b
	}
	return s.initial
}

func (s *MemoryStore) Balance(wallet string) (uint64, error) {
	s.Lock()
	defer s.Unlock()

	return s.balance(wallet), nil
}

func (s *MemoryStore) Debit(wallet string, amount uint64) (uint64, error) {
	s.Lock()
	defer s.Unlock()

	b := s.balance(wallet)
	if b < amount {
		return b, errors.InsufficientPoints.Clone().SetData("balance", b).SetData("requested", amount)
	}
	s.balances[wallet] = b - amount

	return b - amount, nil
}

func (s *MemoryStore) Credit(wallet string, amount uint64) (uint64, error) {
	s.Lock()
	defer s.Unlock()

	b := s.balance(wallet)
	if b+amount < b {
		return b, errors.AmountOverflow.Clone().SetData("wallet", wallet)
	}
	s.balances[wallet] = b + amount

	return b + amount, nil
}
