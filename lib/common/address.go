package common

import (
	"strings"

	"github.com/stellar/go/strkey"

	"boscoin.io/tokenpoll/lib/errors"
)

// AddressLength is the size of a decoded account address.
const AddressLength = 32

// DeriveAddress makes a deterministic address from the given seeds. Derived
// addresses have no private key, so only the ledger can act for them.
func DeriveAddress(seeds ...string) string {
	h := MakeHash([]byte(strings.Join(seeds, "\x00")))
	address, err := strkey.Encode(strkey.VersionByteAccountID, h)
	if err != nil {
		panic(err)
	}

	return address
}

// DecodeAddress returns the raw 32 bytes of an address.
func DecodeAddress(address string) ([]byte, error) {
	b, err := strkey.Decode(strkey.VersionByteAccountID, address)
	if err != nil {
		return nil, errors.BadPublicAddress.Clone().SetData("address", address)
	}

	return b, nil
}

func EncodeAddress(b []byte) (string, error) {
	if len(b) != AddressLength {
		return "", errors.BadPublicAddress.Clone().SetData("length", len(b))
	}

	return strkey.Encode(strkey.VersionByteAccountID, b)
}

func IsValidAddress(address string) bool {
	_, err := DecodeAddress(address)
	return err == nil
}
