package key

import (
	"fmt"

	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
)

// Deriver turns a secret seed into public key bytes. Implementations
// must be deterministic.
type Deriver interface {
	DeriveKeyPair(seed []byte) ([]byte, error)
}

// DeriverFunc is a function that implements Deriver.
type DeriverFunc func(seed []byte) ([]byte, error)

// DeriveKeyPair calls the function.
func (fn DeriverFunc) DeriveKeyPair(seed []byte) ([]byte, error) { return fn(seed) }

// MLDSA44 derives a packed ML-DSA-44 public key from a 32 byte seed.
var MLDSA44 Deriver = DeriverFunc(deriveMLDSA44)

func deriveMLDSA44(seed []byte) ([]byte, error) {
	var s [mldsa44.SeedSize]byte
	if len(seed) != len(s) {
		return nil, fmt.Errorf("ml-dsa-44 seed must be %d bytes, got %d", len(s), len(seed))
	}
	copy(s[:], seed)
	pub, _ := mldsa44.NewKeyFromSeed(&s)
	return pub.Bytes(), nil
}
