package token

import (
	"fmt"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/storage"
)

// Holding is a balance of one mint controlled by `Owner`. A poll vault is a
// holding owned by the poll address, which has no private key.
//
// models
//  * 'holding-address-<Holding.Address>': `Holding`
//  * 'holding-owner-<Holding.Owner>-<sequential uuid1>': `Holding.Address`

const (
	HoldingPrefixAddress string = "holding-address-"
	HoldingPrefixOwner   string = "holding-owner-"
)

type Holding struct {
	Address string        `json:"address"`
	Mint    string        `json:"mint"`
	Owner   string        `json:"owner"`
	Amount  common.Amount `json:"amount"`
}

// AssociatedHoldingAddress is the address of the default holding of owner
// for mint.
func AssociatedHoldingAddress(owner, mint string) string {
	return common.DeriveAddress("holding", owner, mint)
}

func NewHolding(address, mint, owner string) *Holding {
	return &Holding{
		Address: address,
		Mint:    mint,
		Owner:   owner,
	}
}

func NewAssociatedHolding(owner, mint string) *Holding {
	return NewHolding(AssociatedHoldingAddress(owner, mint), mint, owner)
}

func (h *Holding) String() string {
	return string(common.MustMarshalJSON(h))
}

func (h *Holding) Deposit(amount common.Amount) error {
	n, err := h.Amount.Add(amount)
	if err != nil {
		return errors.AmountOverflow.Clone().SetData("holding", h.Address)
	}
	h.Amount = n

	return nil
}

func (h *Holding) Withdraw(amount common.Amount) error {
	n, err := h.Amount.Sub(amount)
	if err != nil {
		return errors.TokenInsufficientFunds.Clone().
			SetData("holding", h.Address).
			SetData("amount", h.Amount).
			SetData("requested", amount)
	}
	h.Amount = n

	return nil
}

// Create stores a new holding with its owner index entry.
func (h *Holding) Create(st *storage.LevelDBBackend) error {
	err := st.News(
		storage.Item{Key: GetHoldingKey(h.Address), Value: h},
		storage.Item{Key: GetHoldingOwnerKey(h.Owner, common.GetUniqueIDFromUUID()), Value: h.Address},
	)
	if errors.StorageRecordAlreadyExists.Is(err) {
		return errors.HoldingAlreadyExists.Clone().SetData("address", h.Address)
	}

	return err
}

func (h *Holding) Save(st *storage.LevelDBBackend) error {
	return st.Set(GetHoldingKey(h.Address), h)
}

func GetHoldingKey(address string) string {
	return fmt.Sprintf("%s%s", HoldingPrefixAddress, address)
}

func GetHoldingOwnerKey(owner, created string) string {
	return fmt.Sprintf("%s%s-%s", HoldingPrefixOwner, owner, created)
}

func ExistsHolding(st *storage.LevelDBBackend, address string) (bool, error) {
	return st.Has(GetHoldingKey(address))
}

func GetHolding(st *storage.LevelDBBackend, address string) (h *Holding, err error) {
	h = &Holding{}
	if err = st.Get(GetHoldingKey(address), h); err != nil {
		if errors.StorageRecordDoesNotExist.Is(err) {
			err = errors.HoldingDoesNotExist.Clone().SetData("address", address)
		}
		return nil, err
	}

	return
}

func GetHoldingsByOwner(st *storage.LevelDBBackend, owner string, options storage.ListOptions) (func() (*Holding, bool, []byte), func()) {
	iterFunc, closeFunc := st.GetIterator(GetHoldingOwnerKey(owner, ""), options)

	return (func() (*Holding, bool, []byte) {
			item, hasNext := iterFunc()
			if !hasNext {
				return nil, false, item.Key
			}

			var address string
			common.MustUnmarshalJSON(item.Value, &address)

			h, err := GetHolding(st, address)
			if err != nil {
				return nil, false, item.Key
			}

			return h, hasNext, item.Key
		}), (func() {
			closeFunc()
		})
}
