package token

import (
	"fmt"
	"strconv"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/storage"
)

// models
//  * 'mint-address-<Mint.Address>': `Mint`

const MintPrefixAddress string = "mint-address-"

const MaxDecimals uint8 = 18

// Mint is a token denomination. Only `Authority` can issue new units.
type Mint struct {
	Address   string        `json:"address"`
	Authority string        `json:"authority"`
	Decimals  uint8         `json:"decimals"`
	Supply    common.Amount `json:"supply"`
}

func NewMint(address, authority string, decimals uint8) (*Mint, error) {
	if decimals > MaxDecimals {
		return nil, errors.InvalidDecimals.Clone().SetData("decimals", decimals)
	}

	return &Mint{
		Address:   address,
		Authority: authority,
		Decimals:  decimals,
	}, nil
}

func (m *Mint) String() string {
	return string(common.MustMarshalJSON(m))
}

// Create stores a new mint; it fails when the address is taken.
func (m *Mint) Create(st *storage.LevelDBBackend) error {
	err := st.New(GetMintKey(m.Address), m)
	if errors.StorageRecordAlreadyExists.Is(err) {
		return errors.MintAlreadyExists.Clone().SetData("address", m.Address)
	}

	return err
}

func (m *Mint) Save(st *storage.LevelDBBackend) error {
	return st.Set(GetMintKey(m.Address), m)
}

// MakeMintAddress derives the address of the mint created by the operation
// at index of the transaction txHash.
func MakeMintAddress(txHash string, index int) string {
	return common.DeriveAddress("mint", txHash, strconv.Itoa(index))
}

func GetMintKey(address string) string {
	return fmt.Sprintf("%s%s", MintPrefixAddress, address)
}

func ExistsMint(st *storage.LevelDBBackend, address string) (bool, error) {
	return st.Has(GetMintKey(address))
}

func GetMint(st *storage.LevelDBBackend, address string) (m *Mint, err error) {
	m = &Mint{}
	if err = st.Get(GetMintKey(address), m); err != nil {
		if errors.StorageRecordDoesNotExist.Is(err) {
			err = errors.MintDoesNotExist.Clone().SetData("address", address)
		}
		return nil, err
	}

	return
}
