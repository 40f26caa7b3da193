package key

import "math/big"

// PrivInput is one of the shapes a private key can be built from:
// FromRandom, FromScalar, FromBytes, FromDescriptor, FromNetworkName
// or FromText.
type PrivInput interface {
	privInput()
}

// FromRandom generates a fresh scalar.
type FromRandom struct{}

// FromScalar wraps an existing scalar.
type FromScalar struct {
	Scalar *big.Int
}

// FromBytes is a raw 32 byte scalar or a decoded wallet import payload
// (version byte, 32 byte scalar, optional compression marker).
type FromBytes struct {
	Data []byte
}

// FromDescriptor rebuilds a key from its persisted descriptor.
type FromDescriptor struct {
	Descriptor PrivateDescriptor
}

// FromNetworkName generates a fresh scalar on the named network.
type FromNetworkName struct {
	Name string
}

// FromText is hex encoded scalar bytes or a wallet import format string.
type FromText struct {
	Text string
}

func (FromRandom) privInput()      {}
func (FromScalar) privInput()      {}
func (FromBytes) privInput()       {}
func (FromDescriptor) privInput()  {}
func (FromNetworkName) privInput() {}
func (FromText) privInput()        {}

// PrivateDescriptor is the plain object form of a private key.
type PrivateDescriptor struct {
	// Scalar is hex encoded.
	Scalar     string `json:"scalar"`
	Network    string `json:"network"`
	Compressed bool   `json:"compressed"`
}

// PubInput is one of the shapes a public key can be built from:
// PublicFromDescriptor, PublicFromText, PublicFromBytes or
// PublicFromPrivateKey.
type PubInput interface {
	pubInput()
}

// PublicFromDescriptor copies an already decoded public key.
type PublicFromDescriptor struct {
	Descriptor PublicDescriptor
}

// PublicFromText is the hex form of the structured encoding.
type PublicFromText struct {
	Text string
}

// PublicFromBytes is the structured encoding.
type PublicFromBytes struct {
	Data []byte
}

// PublicFromPrivateKey derives the public key of a private key.
type PublicFromPrivateKey struct {
	Key *PrivateKey
}

func (PublicFromDescriptor) pubInput() {}
func (PublicFromText) pubInput()       {}
func (PublicFromBytes) pubInput()      {}
func (PublicFromPrivateKey) pubInput() {}

// PublicDescriptor is the plain object form of a public key.
type PublicDescriptor struct {
	Bytes      []byte `json:"bytes"`
	Network    string `json:"network,omitempty"`
	Compressed bool   `json:"compressed"`
}
