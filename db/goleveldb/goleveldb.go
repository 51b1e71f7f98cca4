// Package goleveldb implements the db.Database interface on top of
// syndtr/goleveldb.
package goleveldb

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/provotum/mixnet-node/db"
)

// LevelDB implements db.Database.
type LevelDB struct {
	db *leveldb.DB
}

var _ db.Database = (*LevelDB)(nil)

// New opens (or creates) a leveldb database at opts.Path.
func New(opts db.Options) (*LevelDB, error) {
	ldb, err := leveldb.OpenFile(opts.Path, &opt.Options{
		OpenFilesCacheCapacity: 128,
	})
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: ldb}, nil
}

// Get implements the db.Database.Get interface method.
func (d *LevelDB) Get(k []byte) ([]byte, error) {
	v, err := d.db.Get(k, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, db.ErrKeyNotFound
	}
	return v, err
}

// Iterate implements the db.Database.Iterate interface method.
func (d *LevelDB) Iterate(prefix []byte, callback func(k, v []byte) bool) error {
	iter := d.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		if cont := callback(iter.Key()[len(prefix):], iter.Value()); !cont {
			break
		}
	}
	return iter.Error()
}

// WriteTx opens a new write transaction.
func (d *LevelDB) WriteTx() db.WriteTx {
	return &writeTx{db: d.db, batch: new(leveldb.Batch), pending: map[string][]byte{}}
}

// Close closes the underlying leveldb database.
func (d *LevelDB) Close() error {
	return d.db.Close()
}

// writeTx implements db.WriteTx with a leveldb batch plus an overlay of the
// pending writes, so reads inside the transaction observe its own updates.
type writeTx struct {
	db      *leveldb.DB
	batch   *leveldb.Batch
	pending map[string][]byte // nil value records a pending delete
	done    bool
}

var _ db.WriteTx = (*writeTx)(nil)

func (tx *writeTx) Get(k []byte) ([]byte, error) {
	if v, ok := tx.pending[string(k)]; ok {
		if v == nil {
			return nil, db.ErrKeyNotFound
		}
		return v, nil
	}
	v, err := tx.db.Get(k, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, db.ErrKeyNotFound
	}
	return v, err
}

func (tx *writeTx) Iterate(prefix []byte, callback func(k, v []byte) bool) error {
	seen := make(map[string]bool, len(tx.pending))
	for k, v := range tx.pending {
		key := []byte(k)
		if len(key) < len(prefix) || string(key[:len(prefix)]) != string(prefix) {
			continue
		}
		seen[k] = true
		if v == nil {
			continue
		}
		if cont := callback(key[len(prefix):], v); !cont {
			return nil
		}
	}
	iter := tx.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		if seen[string(iter.Key())] {
			continue
		}
		if cont := callback(iter.Key()[len(prefix):], iter.Value()); !cont {
			break
		}
	}
	return iter.Error()
}

func (tx *writeTx) Set(k, v []byte) error {
	tx.batch.Put(k, v)
	tx.pending[string(k)] = append([]byte{}, v...)
	return nil
}

func (tx *writeTx) Delete(k []byte) error {
	tx.batch.Delete(k)
	tx.pending[string(k)] = nil
	return nil
}

func (tx *writeTx) Commit() error {
	if tx.done {
		return errors.New("cannot commit leveldb tx: already committed or discarded")
	}
	tx.done = true
	return tx.db.Write(tx.batch, nil)
}

func (tx *writeTx) Discard() {
	tx.done = true
	tx.batch.Reset()
	tx.pending = map[string][]byte{}
}
