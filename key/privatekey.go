package key

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"math/big"
	"sync"

	"github.com/harrybrwn/pqkey/address"
	"github.com/harrybrwn/pqkey/encoding/base58check"
	"github.com/harrybrwn/pqkey/network"
)

// PrivateKey is an immutable secret scalar bound to a network.
type PrivateKey struct {
	scalar     *big.Int
	network    *network.Network
	compressed bool

	deriver Deriver
	pub     *publicKeyCell
}

// publicKeyCell holds the derived public key. The derivation is pure
// so computing it once under sync.Once is safe for concurrent callers.
type publicKeyCell struct {
	once sync.Once
	key  *PublicKey
	err  error
}

// descriptor is the normalized result of classifying an input.
type descriptor struct {
	scalar     *big.Int
	network    *network.Network
	compressed bool
}

// NewPrivateKey builds a private key from one of the PrivInput shapes.
// A nil input is treated the same as FromRandom.
func NewPrivateKey(in PrivInput, opts ...Option) (*PrivateKey, error) {
	o := newOptions(opts)
	info, err := classifyPrivate(in, o)
	if err != nil {
		return nil, err
	}
	return freezePrivate(info, o)
}

// freezePrivate validates a classified input and turns it into a key.
func freezePrivate(info *descriptor, o *options) (*PrivateKey, error) {
	if info.scalar == nil || info.scalar.Sign() == 0 {
		return nil, newError(ZeroOrMissingScalar, "scalar can not be zero or missing")
	}
	if info.scalar.Sign() < 0 || info.scalar.BitLen() > ScalarSize*8 {
		return nil, newError(ZeroOrMissingScalar, "scalar must be positive and fit in %d bytes", ScalarSize)
	}
	if info.network == nil {
		return nil, newError(UnresolvedNetwork, "must specify the network")
	}
	deriver := o.deriver
	if deriver == nil {
		deriver = MLDSA44
	}
	return &PrivateKey{
		scalar:     new(big.Int).Set(info.scalar),
		network:    info.network,
		compressed: info.compressed,
		deriver:    deriver,
		pub:        new(publicKeyCell),
	}, nil
}

// GeneratePrivateKey creates a key with a fresh random scalar.
func GeneratePrivateKey(opts ...Option) (*PrivateKey, error) {
	return NewPrivateKey(FromRandom{}, opts...)
}

// PrivateKeyFromWIF decodes a wallet import format string.
func PrivateKeyFromWIF(wif string, opts ...Option) (*PrivateKey, error) {
	o := newOptions(opts)
	info, err := transformWIF(wif, o)
	if err != nil {
		return nil, err
	}
	return freezePrivate(info, o)
}

// PrivateKeyFromHex decodes a hex encoded scalar.
func PrivateKeyFromHex(s string, opts ...Option) (*PrivateKey, error) {
	if !isHex(s) {
		return nil, newError(ZeroOrMissingScalar, "could not decode hex scalar %q", s)
	}
	return NewPrivateKey(FromScalar{Scalar: hexScalar(s)}, opts...)
}

// PrivateKeyFromBytes builds a key from raw scalar bytes or a wallet
// import payload.
func PrivateKeyFromBytes(b []byte, opts ...Option) (*PrivateKey, error) {
	return NewPrivateKey(FromBytes{Data: b}, opts...)
}

// PrivateKeyFromScalar wraps a scalar.
func PrivateKeyFromScalar(s *big.Int, opts ...Option) (*PrivateKey, error) {
	return NewPrivateKey(FromScalar{Scalar: s}, opts...)
}

// ValidatePrivateKey returns the error NewPrivateKey would return for
// the same arguments, or nil.
func ValidatePrivateKey(in PrivInput, opts ...Option) error {
	_, err := NewPrivateKey(in, opts...)
	return err
}

// IsValidPrivateKey reports whether a private key could be built from
// the input. A nil input is never valid.
func IsValidPrivateKey(in PrivInput, opts ...Option) bool {
	if in == nil {
		return false
	}
	return ValidatePrivateKey(in, opts...) == nil
}

func classifyPrivate(in PrivInput, o *options) (*descriptor, error) {
	switch v := in.(type) {
	case nil, FromRandom:
		n, err := o.explicitOrDefault()
		if err != nil {
			return nil, err
		}
		s, err := randomScalar(o.rand)
		if err != nil {
			return nil, err
		}
		return &descriptor{scalar: s, network: n, compressed: true}, nil
	case FromScalar:
		n, err := o.explicitOrDefault()
		if err != nil {
			return nil, err
		}
		return &descriptor{scalar: v.Scalar, network: n, compressed: true}, nil
	case FromBytes:
		return transformBytes(v.Data, o)
	case FromDescriptor:
		return transformDescriptor(v.Descriptor, o)
	case FromNetworkName:
		return transformNetworkName(v.Name, o)
	case FromText:
		return transformText(v.Text, o)
	default:
		return nil, newError(UnrecognizedInput, "unrecognized private key input %T", in)
	}
}

// transformBytes classifies a byte buffer by its length.
//
//	32: | scalar (32) |
//	33: | version (1) | scalar (32) |
//	34: | version (1) | scalar (32) | 0x01 |
func transformBytes(buf []byte, o *options) (*descriptor, error) {
	switch len(buf) {
	case ScalarSize:
		n, err := o.explicitOrDefault()
		if err != nil {
			return nil, err
		}
		return &descriptor{
			scalar:     new(big.Int).SetBytes(buf),
			network:    n,
			compressed: false,
		}, nil
	case uncompressedLength, compressedLength:
	default:
		return nil, newError(MalformedKeyBuffer,
			"length of buffer must be %d (uncompressed) or %d (compressed), got %d",
			uncompressedLength, compressedLength, len(buf))
	}

	info := &descriptor{network: o.registry.ByPrivateKeyID(buf[0])}
	if info.network == nil {
		return nil, newError(UnresolvedNetwork, "unknown private key version byte 0x%02x", buf[0])
	}
	explicit, err := o.explicit()
	if err != nil {
		return nil, err
	}
	if explicit != nil {
		// networks can share a version byte so compare the byte itself
		if explicit.PrivateKeyID() != buf[0] {
			return nil, newError(NetworkMismatch,
				"private key is for %s, not %s", info.network, explicit)
		}
		info.network = explicit
	}
	if len(buf) == compressedLength {
		if buf[compressedLength-1] != compressedMarker {
			return nil, newError(MalformedKeyBuffer,
				"invalid compression marker 0x%02x", buf[compressedLength-1])
		}
		info.compressed = true
	}
	info.scalar = new(big.Int).SetBytes(buf[1 : 1+ScalarSize])
	return info, nil
}

func transformWIF(wif string, o *options) (*descriptor, error) {
	buf, err := base58check.Decode(wif)
	switch err {
	case nil:
	case base58check.ErrChecksum:
		return nil, wrapError(ChecksumFailure, err, "invalid wallet import format")
	default:
		return nil, wrapError(MalformedKeyBuffer, err, "invalid wallet import format")
	}
	return transformBytes(buf, o)
}

func transformText(text string, o *options) (*descriptor, error) {
	if text == "" {
		return nil, newError(MissingData, "empty private key text")
	}
	if isHex(text) {
		n, err := o.explicitOrDefault()
		if err != nil {
			return nil, err
		}
		return &descriptor{scalar: hexScalar(text), network: n, compressed: true}, nil
	}
	return transformWIF(text, o)
}

// isHex reports whether s is made only of hex digits. Odd lengths are
// allowed.
func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func hexScalar(s string) *big.Int {
	n, _ := new(big.Int).SetString(s, 16)
	return n
}

func transformDescriptor(d PrivateDescriptor, o *options) (*descriptor, error) {
	s, ok := new(big.Int).SetString(d.Scalar, 16)
	if !ok {
		return nil, newError(ZeroOrMissingScalar, "could not parse scalar %q", d.Scalar)
	}
	n := o.registry.Get(d.Network)
	if n == nil {
		return nil, newError(UnresolvedNetwork, "unknown network %q", d.Network)
	}
	return &descriptor{scalar: s, network: n, compressed: d.Compressed}, nil
}

func transformNetworkName(name string, o *options) (*descriptor, error) {
	n := o.registry.Get(name)
	if n == nil {
		return nil, newError(UnresolvedNetwork, "unknown network %q", name)
	}
	explicit, err := o.explicit()
	if err != nil {
		return nil, err
	}
	if explicit != nil && explicit != n {
		return nil, newError(NetworkMismatch, "asked for %s but got network name %q", explicit, name)
	}
	s, err := randomScalar(o.rand)
	if err != nil {
		return nil, err
	}
	return &descriptor{scalar: s, network: n, compressed: true}, nil
}

func randomScalar(r io.Reader) (*big.Int, error) {
	var buf [ScalarSize]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, wrapError(ZeroOrMissingScalar, err, "could not read random scalar")
		}
		s := new(big.Int).SetBytes(buf[:])
		if s.Sign() != 0 {
			return s, nil
		}
	}
}

// WIF encodes the key in wallet import format.
func (k *PrivateKey) WIF() string {
	return base58check.Encode(k.Serialize())
}

// Serialize returns the wallet import payload: the network's version
// byte, the 32 byte big-endian scalar, and 0x01 if compressed.
func (k *PrivateKey) Serialize() []byte {
	buf := make([]byte, 0, compressedLength)
	buf = append(buf, k.network.PrivateKeyID())
	buf = append(buf, k.paddedScalar()...)
	if k.compressed {
		buf = append(buf, compressedMarker)
	}
	return buf
}

// Bytes returns the big-endian scalar without leading zero padding, so
// small scalars give fewer than 32 bytes. Existing stored keys depend
// on this, use Serialize for the fixed width form.
func (k *PrivateKey) Bytes() []byte {
	return k.scalar.Bytes()
}

// String returns the hex of Bytes.
func (k *PrivateKey) String() string {
	return hex.EncodeToString(k.Bytes())
}

// Inspect returns a human readable summary of the key.
func (k *PrivateKey) Inspect() string {
	s := "<PrivateKey: " + k.String() + ", network: " + k.network.String()
	if !k.compressed {
		s += ", uncompressed"
	}
	return s + ">"
}

// Scalar returns a copy of the secret scalar.
func (k *PrivateKey) Scalar() *big.Int { return new(big.Int).Set(k.scalar) }

// Network returns the key's network.
func (k *PrivateKey) Network() *network.Network { return k.network }

// Compressed reports which wallet import layout the key uses.
func (k *PrivateKey) Compressed() bool { return k.compressed }

// PublicKey returns the public key derived from the scalar. The
// derivation runs at most once per private key.
func (k *PrivateKey) PublicKey() (*PublicKey, error) {
	k.pub.once.Do(func() {
		k.pub.key, k.pub.err = derivePublicKey(k, k.deriver)
	})
	return k.pub.key, k.pub.err
}

// Address returns the address of the key's public key. If net is nil
// the key's own network is used.
func (k *PrivateKey) Address(net *network.Network) (*address.Address, error) {
	pub, err := k.PublicKey()
	if err != nil {
		return nil, err
	}
	if net == nil {
		net = k.network
	}
	return pub.Address(net)
}

// Descriptor returns the plain object form of the key.
func (k *PrivateKey) Descriptor() PrivateDescriptor {
	return PrivateDescriptor{
		Scalar:     k.scalar.Text(16),
		Network:    k.network.Name,
		Compressed: k.compressed,
	}
}

// MarshalJSON encodes the key's descriptor.
func (k *PrivateKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Descriptor())
}

// Equal reports whether two keys have the same scalar, network and
// compressed flag.
func (k *PrivateKey) Equal(other *PrivateKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.scalar.Cmp(other.scalar) == 0 &&
		k.network == other.network &&
		k.compressed == other.compressed
}

func (k *PrivateKey) paddedScalar() []byte {
	b := make([]byte, ScalarSize)
	return k.scalar.FillBytes(b)
}
