// Package network maps network names and version bytes to the
// chain parameters that keys and addresses are scoped to.
package network

import (
	"errors"
	"strings"
	"sync"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network is a named set of chain parameters.
type Network struct {
	Name    string
	Aliases []string
	Params  *chaincfg.Params
}

// PrivateKeyID is the version byte that prefixes a
// wallet-import-format private key.
func (n *Network) PrivateKeyID() byte {
	return n.Params.PrivateKeyID
}

// PubKeyHashAddrID is the version byte that prefixes a
// public key hash address.
func (n *Network) PubKeyHashAddrID() byte {
	return n.Params.PubKeyHashAddrID
}

func (n *Network) String() string {
	if n == nil {
		return "<nil>"
	}
	return n.Name
}

func (n *Network) matches(name string) bool {
	if strings.EqualFold(n.Name, name) {
		return true
	}
	for _, a := range n.Aliases {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

var (
	// Livenet is the production network.
	Livenet = &Network{
		Name:    "livenet",
		Aliases: []string{"mainnet"},
		Params:  &chaincfg.MainNetParams,
	}
	// Testnet is the public test network.
	Testnet = &Network{
		Name:    "testnet",
		Aliases: []string{"testnet3"},
		Params:  &chaincfg.TestNet3Params,
	}
	// Regtest is the local regression test network. It shares
	// Testnet's version bytes so it is not in the default registry,
	// use a registry of its own to decode regtest keys.
	Regtest = &Network{
		Name:   "regtest",
		Params: &chaincfg.RegressionNetParams,
	}
	// Simnet is the simulation test network.
	Simnet = &Network{
		Name:   "simnet",
		Params: &chaincfg.SimNetParams,
	}
)

var (
	// ErrDuplicateNetwork is returned when registering a network
	// whose name or alias is already taken.
	ErrDuplicateNetwork = errors.New("duplicate network")
	// ErrVersionCollision is returned when registering a network whose
	// private key or address version byte is already taken. A version
	// byte must map back to exactly one network.
	ErrVersionCollision = errors.New("network version byte collision")
)

// Registry resolves networks by name or version byte. No two networks
// in a registry share a version byte.
type Registry struct {
	mu   sync.RWMutex
	nets []*Network
}

// NewRegistry creates a registry holding the given networks. A network
// that Register would reject is left out, use Register directly to
// see why.
func NewRegistry(nets ...*Network) *Registry {
	r := &Registry{}
	for _, n := range nets {
		_ = r.Register(n) // rejected networks are left out
	}
	return r
}

var defaultRegistry = NewRegistry(Livenet, Testnet, Simnet)

// Default returns the registry of built in networks.
func Default() *Registry { return defaultRegistry }

// Register adds a network to the registry.
func (r *Registry) Register(n *Network) error {
	if n == nil || n.Params == nil {
		return errors.New("network has no chain parameters")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.nets {
		if existing.matches(n.Name) {
			return ErrDuplicateNetwork
		}
		for _, a := range n.Aliases {
			if existing.matches(a) {
				return ErrDuplicateNetwork
			}
		}
		if existing.PrivateKeyID() == n.PrivateKeyID() ||
			existing.PubKeyHashAddrID() == n.PubKeyHashAddrID() {
			return ErrVersionCollision
		}
	}
	r.nets = append(r.nets, n)
	return nil
}

// Get finds a network by its name or one of its aliases. Returns
// nil if there is no such network.
func (r *Registry) Get(name string) *Network {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.nets {
		if n.matches(name) {
			return n
		}
	}
	return nil
}

// ByPrivateKeyID finds the network for a private key version byte.
func (r *Registry) ByPrivateKeyID(id byte) *Network {
	return r.find(func(n *Network) bool { return n.PrivateKeyID() == id })
}

// ByPubKeyHashAddrID finds the network for an address version byte.
func (r *Registry) ByPubKeyHashAddrID(id byte) *Network {
	return r.find(func(n *Network) bool { return n.PubKeyHashAddrID() == id })
}

// Networks returns every registered network.
func (r *Registry) Networks() []*Network {
	r.mu.RLock()
	defer r.mu.RUnlock()
	nets := make([]*Network, len(r.nets))
	copy(nets, r.nets)
	return nets
}

// Names returns the primary name of every registered network.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.nets))
	for _, n := range r.nets {
		names = append(names, n.Name)
	}
	return names
}

func (r *Registry) find(match func(*Network) bool) *Network {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.nets {
		if match(n) {
			return n
		}
	}
	return nil
}
