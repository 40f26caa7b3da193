package keystore

import (
	"strings"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/harrybrwn/pqkey/key"
)

// Iter will return an iterator over the stored keys in name
// order. The iterator holds a read transaction until it is closed.
func (s *Store) Iter() *Iterator {
	txn := s.db.NewTransaction(false)
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	it.Seek([]byte(keyPrefix))
	return &Iterator{store: s, txn: txn, it: it, first: true}
}

// Iterator walks the stored keys.
type Iterator struct {
	store *Store
	txn   *badger.Txn
	it    *badger.Iterator
	first bool

	name string
	key  *key.PrivateKey
	err  error
}

// Next advances to the next key. It returns false when there are no
// more keys or a key could not be decoded.
func (iter *Iterator) Next() bool {
	if iter.it == nil || iter.err != nil {
		return false
	}
	if iter.first {
		iter.first = false
	} else {
		iter.it.Next()
	}
	if !iter.it.ValidForPrefix([]byte(keyPrefix)) {
		iter.Close()
		return false
	}
	item := iter.it.Item()
	iter.name = strings.TrimPrefix(string(item.Key()), keyPrefix)
	iter.err = item.Value(func(val []byte) (err error) {
		iter.key, err = iter.store.decode(val)
		return err
	})
	return iter.err == nil
}

// Name is the name of the current key.
func (iter *Iterator) Name() string { return iter.name }

// Key is the current key.
func (iter *Iterator) Key() *key.PrivateKey { return iter.key }

// Err returns the first decoding error.
func (iter *Iterator) Err() error { return iter.err }

// Close releases the read transaction and returns any iteration
// error.
func (iter *Iterator) Close() error {
	if iter.it != nil {
		iter.it.Close()
		iter.txn.Discard()
		iter.it, iter.txn = nil, nil
	}
	return iter.err
}
