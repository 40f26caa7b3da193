package key

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/harrybrwn/pqkey/address"
	"github.com/harrybrwn/pqkey/encoding/keyder"
	"github.com/harrybrwn/pqkey/network"
)

// PublicKey holds raw public key bytes. The network is only set when
// it came with the data or was given explicitly.
type PublicKey struct {
	bytes      []byte
	network    *network.Network
	compressed bool
}

type publicDescriptor struct {
	bytes      []byte
	network    *network.Network
	compressed bool
}

// NewPublicKey builds a public key from one of the PubInput shapes.
func NewPublicKey(in PubInput, opts ...Option) (*PublicKey, error) {
	o := newOptions(opts)
	var (
		info *publicDescriptor
		err  error
	)
	switch v := in.(type) {
	case nil:
		return nil, newError(MissingData, "public key data is required")
	case PublicFromDescriptor:
		info, err = transformPublicDescriptor(v.Descriptor, o)
	case PublicFromText:
		info, err = transformPublicText(v.Text, o)
	case PublicFromBytes:
		if v.Data == nil {
			return nil, newError(MissingData, "public key buffer is required")
		}
		info, err = transformDER(v.Data, o)
	case PublicFromPrivateKey:
		if v.Key == nil {
			return nil, newError(MissingData, "private key is required")
		}
		if o.deriver == nil {
			// share the private key's cached derivation
			return v.Key.PublicKey()
		}
		return derivePublicKey(v.Key, o.deriver)
	default:
		return nil, newError(UnrecognizedInput, "unrecognized public key input %T", in)
	}
	if err != nil {
		return nil, err
	}
	if info.network == nil {
		if info.network, err = o.explicit(); err != nil {
			return nil, err
		}
	}
	return &PublicKey{
		bytes:      info.bytes,
		network:    info.network,
		compressed: info.compressed,
	}, nil
}

// PublicKeyFromDER decodes the structured public key encoding.
func PublicKeyFromDER(der []byte, opts ...Option) (*PublicKey, error) {
	return NewPublicKey(PublicFromBytes{Data: der}, opts...)
}

// PublicKeyFromHex decodes the hex form of the structured encoding.
func PublicKeyFromHex(s string, opts ...Option) (*PublicKey, error) {
	return NewPublicKey(PublicFromText{Text: s}, opts...)
}

// ValidatePublicKey returns the error NewPublicKey would return for
// the same arguments, or nil.
func ValidatePublicKey(in PubInput, opts ...Option) error {
	_, err := NewPublicKey(in, opts...)
	return err
}

// IsValidPublicKey reports whether a public key could be built from
// the input.
func IsValidPublicKey(in PubInput, opts ...Option) bool {
	return ValidatePublicKey(in, opts...) == nil
}

func transformPublicDescriptor(d PublicDescriptor, o *options) (*publicDescriptor, error) {
	if len(d.Bytes) == 0 {
		return nil, newError(MissingData, "public key descriptor has no bytes")
	}
	info := &publicDescriptor{
		bytes:      append([]byte{}, d.Bytes...),
		compressed: d.Compressed,
	}
	if d.Network != "" {
		if info.network = o.registry.Get(d.Network); info.network == nil {
			return nil, newError(UnresolvedNetwork, "unknown network %q", d.Network)
		}
	}
	return info, nil
}

func transformPublicText(text string, o *options) (*publicDescriptor, error) {
	if text == "" {
		return nil, newError(MissingData, "empty public key text")
	}
	der, err := hex.DecodeString(text)
	if err != nil {
		return nil, wrapError(InvalidEncoding, err, "public key is not hex")
	}
	return transformDER(der, o)
}

func transformDER(der []byte, o *options) (*publicDescriptor, error) {
	raw, err := keyder.Decode(der)
	if err != nil {
		return nil, wrapError(InvalidEncoding, err, "could not decode public key")
	}
	if len(raw) == 0 {
		return nil, newError(InvalidEncoding, "public key field is empty")
	}
	compressed := true
	if o.compressed != nil {
		compressed = *o.compressed
	}
	return &publicDescriptor{bytes: raw, compressed: compressed}, nil
}

func derivePublicKey(k *PrivateKey, d Deriver) (*PublicKey, error) {
	raw, err := d.DeriveKeyPair(k.paddedScalar())
	if err != nil {
		return nil, wrapError(MissingData, err, "could not derive public key")
	}
	if len(raw) == 0 {
		return nil, newError(MissingData, "derived public key is empty")
	}
	return &PublicKey{
		bytes:      append([]byte{}, raw...),
		network:    k.network,
		compressed: k.compressed,
	}, nil
}

// Bytes returns the raw public key bytes.
func (pk *PublicKey) Bytes() []byte {
	return append([]byte{}, pk.bytes...)
}

// DER returns the structured encoding of the key.
func (pk *PublicKey) DER() ([]byte, error) {
	der, err := keyder.Encode(pk.bytes)
	if err != nil {
		return nil, wrapError(InvalidEncoding, err, "could not encode public key")
	}
	return der, nil
}

// String returns the hex of the structured encoding.
func (pk *PublicKey) String() string {
	der, err := pk.DER()
	if err != nil {
		return ""
	}
	return hex.EncodeToString(der)
}

// Inspect returns a human readable summary of the key.
func (pk *PublicKey) Inspect() string {
	s := "<PublicKey: " + pk.String()
	if !pk.compressed {
		s += ", uncompressed"
	}
	return s + ">"
}

// Network returns the key's network, which may be nil.
func (pk *PublicKey) Network() *network.Network { return pk.network }

// Compressed returns the compressed flag.
func (pk *PublicKey) Compressed() bool { return pk.compressed }

// id is the address identifier. It is only for building addresses and
// plays no part in equality.
func (pk *PublicKey) id() []byte {
	return Hash160(pk.bytes)
}

// Address returns the address for the key on the given network, or
// the key's own network when net is nil.
func (pk *PublicKey) Address(net *network.Network) (*address.Address, error) {
	if net == nil {
		net = pk.network
	}
	if net == nil {
		return nil, newError(UnresolvedNetwork, "public key has no network")
	}
	return address.FromHash(pk.id(), net)
}

// Descriptor returns the plain object form of the key.
func (pk *PublicKey) Descriptor() PublicDescriptor {
	d := PublicDescriptor{
		Bytes:      pk.Bytes(),
		Compressed: pk.compressed,
	}
	if pk.network != nil {
		d.Network = pk.network.Name
	}
	return d
}

// MarshalJSON encodes the key's descriptor.
func (pk *PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(pk.Descriptor())
}

// Equal reports whether two public keys hold the same bytes, network
// and compressed flag.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil {
		return pk == other
	}
	return bytes.Equal(pk.bytes, other.bytes) &&
		pk.network == other.network &&
		pk.compressed == other.compressed
}
