// Package keystore persists named private keys in a badger database.
package keystore

import (
	"encoding/json"
	"strings"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/harrybrwn/errs"
	"github.com/harrybrwn/pqkey/internal/logging"
	"github.com/harrybrwn/pqkey/key"
	"github.com/pkg/errors"
)

const (
	keyPrefix = "_key/"
	// storeVersion is bumped when the value layout changes.
	storeVersion = "1"
)

var versionKey = []byte("_meta/version")

var (
	// ErrNotFound is returned when no key is stored under a name.
	ErrNotFound = errors.New("key not found")
	// ErrExists is returned by Put when the name is taken.
	ErrExists = errors.New("key already exists")
	// ErrEmptyName is returned for empty key names.
	ErrEmptyName = errors.New("key name is empty")
	// ErrVersion is returned when opening a store written with an
	// unknown layout.
	ErrVersion = errors.New("unsupported key store version")
)

// Store is a set of named private keys.
type Store struct {
	db   *badger.DB
	opts *options
}

// Open will open the store in dir, creating it if needed.
func Open(dir string, opts ...Opt) (*Store, error) {
	o := &options{badger: badger.DefaultOptions(dir)}
	o.badger.Logger = logging.Prefixed("keystore", false)
	for _, opt := range opts {
		opt(o)
	}

	db, err := badger.Open(o.badger)
	if err != nil {
		return nil, errors.Wrap(err, "could not open key store")
	}
	if err = checkVersion(db); err != nil {
		return nil, errs.Pair(err, db.Close())
	}
	if o.badger.Logger != nil {
		o.badger.Logger.Debugf("keystore opened at %s", dir)
	}
	return &Store{db: db, opts: o}, nil
}

func checkVersion(db *badger.DB) error {
	return db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(versionKey)
		if err == badger.ErrKeyNotFound {
			return txn.Set(versionKey, []byte(storeVersion))
		} else if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			if string(v) != storeVersion {
				return errors.Wrapf(ErrVersion, "got %q", v)
			}
			return nil
		})
	})
}

// Close will close the key store
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a key under a new name. It returns ErrExists if the
// name is taken.
func (s *Store) Put(name string, k *key.PrivateKey) error {
	return s.set(name, k, false)
}

// Replace stores a key, overwriting any key with the same name.
func (s *Store) Replace(name string, k *key.PrivateKey) error {
	return s.set(name, k, true)
}

func (s *Store) set(name string, k *key.PrivateKey, overwrite bool) error {
	if name == "" {
		return ErrEmptyName
	}
	raw, err := json.Marshal(k.Descriptor())
	if err != nil {
		return errors.WithStack(err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if !overwrite {
			_, err := txn.Get(withKeyPrefix(name))
			if err == nil {
				return errors.Wrapf(ErrExists, "%q", name)
			} else if err != badger.ErrKeyNotFound {
				return err
			}
		}
		return txn.Set(withKeyPrefix(name), raw)
	})
}

// Get will return the key stored under a name.
func (s *Store) Get(name string) (k *key.PrivateKey, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		k, err = s.initKey(txn, name)
		return err
	})
	return k, err
}

// Has reports whether a key is stored under a name.
func (s *Store) Has(name string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(withKeyPrefix(name))
		return err
	})
	switch err {
	case nil:
		return true, nil
	case badger.ErrKeyNotFound:
		return false, nil
	default:
		return false, err
	}
}

// Delete removes a stored key.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(withKeyPrefix(name))
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(ErrNotFound, "%q", name)
		} else if err != nil {
			return err
		}
		return txn.Delete(withKeyPrefix(name))
	})
}

// Names returns the names of all stored keys in sorted order.
func (s *Store) Names() ([]string, error) {
	names := make([]string, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
		}
		return nil
	})
	return names, err
}

func (s *Store) initKey(txn *badger.Txn, name string) (*key.PrivateKey, error) {
	item, err := txn.Get(withKeyPrefix(name))
	if err == badger.ErrKeyNotFound {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	} else if err != nil {
		return nil, err
	}
	var k *key.PrivateKey
	err = item.Value(func(val []byte) (err error) {
		k, err = s.decode(val)
		return err
	})
	return k, err
}

func (s *Store) decode(val []byte) (*key.PrivateKey, error) {
	var d key.PrivateDescriptor
	if err := json.Unmarshal(val, &d); err != nil {
		return nil, errors.Wrap(err, "corrupt key entry")
	}
	return key.NewPrivateKey(key.FromDescriptor{Descriptor: d}, s.opts.keyOpts...)
}

func withKeyPrefix(name string) []byte {
	return []byte(keyPrefix + name)
}
