package common

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

func MakeHash(b []byte) []byte {
	h := sha3.Sum256(b)
	return h[:]
}

// MakeObjectHash hashes the rlp encoding of i.
func MakeObjectHash(i interface{}) (b []byte, err error) {
	var e []byte
	if e, err = rlp.EncodeToBytes(i); err != nil {
		return
	}

	b = MakeHash(e)

	return
}

func MustMakeObjectHash(i interface{}) []byte {
	b, err := MakeObjectHash(i)
	if err != nil {
		panic(err)
	}

	return b
}

func MakeObjectHashString(i interface{}) (string, error) {
	b, err := MakeObjectHash(i)
	if err != nil {
		return "", err
	}

	return base58.Encode(b), nil
}

func MustMakeObjectHashString(i interface{}) string {
	s, err := MakeObjectHashString(i)
	if err != nil {
		panic(err)
	}

	return s
}
