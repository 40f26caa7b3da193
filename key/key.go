// Package key holds private and public key material and the codecs
// that move keys between memory, wallet-import-format text, raw bytes
// and the structured public key encoding.
//
//	// generate a new random key
//	priv, err := key.NewPrivateKey(key.FromRandom{}, key.WithNetwork(network.Testnet))
//
//	// encode into wallet import format
//	wif := priv.WIF()
//
//	// import the saved key
//	imported, err := key.PrivateKeyFromWIF(wif)
//
//	// get the associated address
//	addr, err := imported.Address(nil)
package key

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

const (
	// ScalarSize is the fixed width of a scalar in the WIF layout.
	ScalarSize = 32
	// compressed marker appended after the scalar in the WIF layout
	compressedMarker byte = 0x01

	uncompressedLength = 1 + ScalarSize
	compressedLength   = 1 + ScalarSize + 1
)

// Hash160 will compute ripemd160(sha256(b)), the identifier used for
// public key hash addresses.
func Hash160(b []byte) []byte {
	pubhash := sha256.Sum256(b)
	ripemd := ripemd160.New()
	ripemd.Write(pubhash[:])
	return ripemd.Sum(nil)
}
