package keystore

import (
	badger "github.com/dgraph-io/badger/v2"
	"github.com/harrybrwn/pqkey/internal/logging"
	"github.com/harrybrwn/pqkey/key"
)

// Opt is a key store option.
type Opt func(*options)

type options struct {
	badger  badger.Options
	keyOpts []key.Option
}

// WithLogger is a keystore option that will
// set the logger for the internal storage engine.
func WithLogger(l logging.Logger) Opt {
	return func(o *options) {
		o.badger.Logger = l
	}
}

// SilentLogs is a keystore option that will discard any
// logging done by the underlying storage engine.
func SilentLogs(o *options) {
	o.badger.Logger = logging.Discard
}

// EncryptionKey will set the storage encryption key. It must be 16, 24
// or 32 bytes.
func EncryptionKey(k []byte) Opt {
	return func(o *options) {
		o.badger.EncryptionKey = k
	}
}

// AsInMemory is an option that keeps the whole
// store in memory.
func AsInMemory() Opt {
	return func(o *options) {
		o.badger.InMemory = true
		o.badger.Dir = ""
		o.badger.ValueDir = ""
	}
}

// WithKeyOptions sets the options used to rebuild keys read from
// the store.
func WithKeyOptions(opts ...key.Option) Opt {
	return func(o *options) {
		o.keyOpts = append(o.keyOpts, opts...)
	}
}
