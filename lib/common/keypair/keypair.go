//
// Encapsulate Stellar's keypair package
//
// Account addresses, signatures and seeds all follow stellar's strkey
// encoding.
//
package keypair

import (
	stellar "github.com/stellar/go/keypair"
)

// Aliases to stellar types
type Full = stellar.Full
type KP = stellar.KP

// Aliases to stellar functions
var Master = stellar.Master
var Parse = stellar.Parse
var RandomCanFail = stellar.Random

// MakeSignature makes signature from given hash string
func MakeSignature(kp KP, networkID []byte, hash string) ([]byte, error) {
	return kp.Sign(append(append([]byte{}, networkID...), []byte(hash)...))
}

// VerifySignature checks a signature made by `MakeSignature`.
func VerifySignature(address string, networkID []byte, hash string, signature []byte) error {
	kp, err := Parse(address)
	if err != nil {
		return err
	}

	return kp.Verify(append(append([]byte{}, networkID...), []byte(hash)...), signature)
}
