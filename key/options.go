package key

import (
	"crypto/rand"
	"io"

	"github.com/harrybrwn/pqkey/network"
)

// Option configures key construction.
type Option func(*options)

type options struct {
	network        *network.Network
	networkName    string
	defaultNetwork *network.Network
	registry       *network.Registry
	deriver        Deriver
	rand           io.Reader
	compressed     *bool
}

func newOptions(opts []Option) *options {
	o := &options{
		registry: network.Default(),
		rand:     rand.Reader,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// explicit returns the network the caller asked for, if any.
func (o *options) explicit() (*network.Network, error) {
	if o.network != nil {
		return o.network, nil
	}
	if o.networkName == "" {
		return nil, nil
	}
	n := o.registry.Get(o.networkName)
	if n == nil {
		return nil, newError(UnresolvedNetwork, "unknown network %q", o.networkName)
	}
	return n, nil
}

// explicitOrDefault returns the explicit network or falls back to
// the configured default. It may return nil.
func (o *options) explicitOrDefault() (*network.Network, error) {
	n, err := o.explicit()
	if err != nil || n != nil {
		return n, err
	}
	return o.defaultNetwork, nil
}

// WithNetwork sets the network the key must belong to.
func WithNetwork(n *network.Network) Option {
	return func(o *options) { o.network = n }
}

// WithNetworkName is like WithNetwork but the network is looked up
// in the registry by name.
func WithNetworkName(name string) Option {
	return func(o *options) { o.networkName = name }
}

// WithDefaultNetwork sets the network used for private keys when the
// input does not carry one and no explicit network was given. Public
// keys never fall back to it.
func WithDefaultNetwork(n *network.Network) Option {
	return func(o *options) { o.defaultNetwork = n }
}

// WithRegistry sets the registry used to resolve names and version bytes.
func WithRegistry(r *network.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithDeriver sets the key pair derivation primitive.
func WithDeriver(d Deriver) Option {
	return func(o *options) {
		if d != nil {
			o.deriver = d
		}
	}
}

// WithRand sets the source of randomness for generated keys.
func WithRand(r io.Reader) Option {
	return func(o *options) {
		if r != nil {
			o.rand = r
		}
	}
}

// WithCompressed sets the compressed flag of a public key decoded
// from its structured encoding.
func WithCompressed(compressed bool) Option {
	return func(o *options) { o.compressed = &compressed }
}
