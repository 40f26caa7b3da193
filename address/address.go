// Package address builds public key hash addresses from a key
// identifier and a network.
package address

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/harrybrwn/pqkey/encoding/base58check"
	"github.com/harrybrwn/pqkey/network"
)

const (
	// HashLength is the length of a public key hash.
	HashLength = 20

	versionLength = 1
	// | version | pubkey hash | checksum |
	// |    1    |     20      |    4     |
	encodedLength = versionLength + HashLength + base58check.ChecksumLength
)

var (
	// ErrHashLength is returned for hashes that are not 20 bytes.
	ErrHashLength = errors.New("address: public key hash must be 20 bytes")
	// ErrNoNetwork is returned when an address has no network.
	ErrNoNetwork = errors.New("address: no network")
	// ErrUnknownVersion is returned when decoding an address whose
	// version byte matches no known network.
	ErrUnknownVersion = errors.New("address: unknown version byte")
)

// Address is a public key hash scoped to a network.
type Address struct {
	hash    [HashLength]byte
	network *network.Network
}

// FromHash creates an address from a public key hash.
func FromHash(hash []byte, net *network.Network) (*Address, error) {
	if len(hash) != HashLength {
		return nil, ErrHashLength
	}
	if net == nil {
		return nil, ErrNoNetwork
	}
	a := &Address{network: net}
	copy(a.hash[:], hash)
	return a, nil
}

// Decode parses an encoded address and resolves its network with
// the registry. A nil registry uses the default one.
func Decode(s string, reg *network.Registry) (*Address, error) {
	if reg == nil {
		reg = network.Default()
	}
	payload, err := base58check.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(payload)+base58check.ChecksumLength != encodedLength {
		return nil, fmt.Errorf("address: wrong length %d", len(payload)+base58check.ChecksumLength)
	}
	net := reg.ByPubKeyHashAddrID(payload[0])
	if net == nil {
		return nil, fmt.Errorf("%w 0x%02x", ErrUnknownVersion, payload[0])
	}
	return FromHash(payload[versionLength:], net)
}

// Valid will return true if the string is a well formed address
// with a correct checksum and a version byte of a known network.
func Valid(s string) bool {
	_, err := Decode(s, nil)
	return err == nil
}

// Hash returns the public key hash.
func (a *Address) Hash() []byte {
	h := a.hash
	return h[:]
}

// Network returns the address network.
func (a *Address) Network() *network.Network { return a.network }

// String encodes the address.
func (a *Address) String() string {
	addr, err := btcutil.NewAddressPubKeyHash(a.hash[:], a.network.Params)
	if err != nil {
		// only fails for hashes of the wrong length
		return ""
	}
	return addr.EncodeAddress()
}

// Equal reports whether two addresses have the same hash and network.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.hash == other.hash && a.network == other.network
}
