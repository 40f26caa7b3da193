// Package wallet stores a single private key in a PEM container.
package wallet

import (
	"bytes"
	"encoding/pem"
	"io"

	"github.com/harrybrwn/pqkey/address"
	"github.com/harrybrwn/pqkey/key"
	"github.com/pkg/errors"
)

// BlockType is the PEM block type of a serialized wallet.
const BlockType = "PQKEY PRIVATE KEY"

const labelHeader = "label"

var (
	// ErrNoBlock is returned when no PEM block could be found.
	ErrNoBlock = errors.New("no pem block found")
	// ErrBlockType is returned for PEM blocks that do not hold a key.
	ErrBlockType = errors.New("wrong pem block type")
)

// Wallet is a labeled private key.
type Wallet struct {
	key   *key.PrivateKey
	label string

	// options used when reading a key
	opts []key.Option
}

// New creates a wallet with a freshly generated key.
func New(opts ...key.Option) (*Wallet, error) {
	k, err := key.GeneratePrivateKey(opts...)
	if err != nil {
		return nil, err
	}
	return &Wallet{key: k, opts: opts}, nil
}

// FromKey wraps an existing key.
func FromKey(k *key.PrivateKey, label string) *Wallet {
	return &Wallet{key: k, label: label}
}

// Empty returns a wallet with no key that ReadFrom can populate. The
// options are used to decode the key.
func Empty(opts ...key.Option) *Wallet {
	return &Wallet{opts: opts}
}

// Read creates a wallet from a PEM encoded key.
func Read(r io.Reader, opts ...key.Option) (*Wallet, error) {
	w := Empty(opts...)
	if _, err := w.ReadFrom(r); err != nil {
		return nil, err
	}
	return w, nil
}

// PrivateKey returns the wallet's private key
func (w *Wallet) PrivateKey() *key.PrivateKey {
	return w.key
}

// PublicKey return's the wallet's public key
func (w *Wallet) PublicKey() (*key.PublicKey, error) {
	return w.key.PublicKey()
}

// Address will create a wallet address from the wallet's
// public key on the key's network.
func (w *Wallet) Address() (*address.Address, error) {
	return w.key.Address(nil)
}

// Label returns the wallet label.
func (w *Wallet) Label() string { return w.label }

// SetLabel changes the wallet label.
func (w *Wallet) SetLabel(l string) { w.label = l }

// WriteTo will serialize the wallet and write it to an io.Writer
func (w *Wallet) WriteTo(wr io.Writer) (int64, error) {
	if w.key == nil {
		return 0, errors.New("wallet has no key")
	}
	block := &pem.Block{
		Type:  BlockType,
		Bytes: w.key.Serialize(),
	}
	if w.label != "" {
		block.Headers = map[string]string{labelHeader: w.label}
	}
	n, err := wr.Write(pem.EncodeToMemory(block))
	return int64(n), errors.Wrap(err, "could not write wallet")
}

// ReadFrom will populate the wallet data by reading from an io.Reader
func (w *Wallet) ReadFrom(r io.Reader) (int64, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(r)
	if err != nil {
		return n, errors.Wrap(err, "could not read wallet")
	}
	block, _ := pem.Decode(buf.Bytes())
	if block == nil {
		return n, ErrNoBlock
	}
	if block.Type != BlockType {
		return n, errors.Wrapf(ErrBlockType, "got %q", block.Type)
	}
	k, err := key.NewPrivateKey(key.FromBytes{Data: block.Bytes}, w.opts...)
	if err != nil {
		return n, err
	}
	w.key = k
	w.label = block.Headers[labelHeader]
	return n, nil
}
