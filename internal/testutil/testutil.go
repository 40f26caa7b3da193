// Package testutil has helpers for building deterministic keys in
// tests.
package testutil

import (
	"crypto/sha256"
	mathrand "math/rand"
	"testing"

	"github.com/harrybrwn/pqkey/key"
	"github.com/harrybrwn/pqkey/network"
)

// Deriver is a cheap deterministic stand-in for the real key pair
// derivation.
var Deriver = key.DeriverFunc(func(seed []byte) ([]byte, error) {
	h := sha256.Sum256(seed)
	return h[:], nil
})

// PrivateKey returns a key generated from a seeded source on the given
// network. The same seed always gives the same key.
func PrivateKey(t testing.TB, seed int64, net *network.Network, opts ...key.Option) *key.PrivateKey {
	t.Helper()
	opts = append([]key.Option{
		key.WithNetwork(net),
		key.WithRand(mathrand.New(mathrand.NewSource(seed))),
		key.WithDeriver(Deriver),
	}, opts...)
	k, err := key.GeneratePrivateKey(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return k
}
