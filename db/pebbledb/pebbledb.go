// Package pebbledb implements the db.Database interface on top of
// cockroachdb/pebble.
package pebbledb

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"

	"github.com/provotum/mixnet-node/db"
)

// PebbleDB implements db.Database.
type PebbleDB struct {
	db *pebble.DB
}

var _ db.Database = (*PebbleDB)(nil)

// New opens (or creates) a pebble database at opts.Path.
func New(opts db.Options) (*PebbleDB, error) {
	if err := os.MkdirAll(opts.Path, os.ModePerm); err != nil {
		return nil, err
	}
	o := &pebble.Options{
		Levels: []pebble.LevelOptions{
			{Compression: pebble.SnappyCompression},
		},
	}
	pdb, err := pebble.Open(opts.Path, o)
	if err != nil {
		return nil, err
	}
	return &PebbleDB{db: pdb}, nil
}

func get(reader pebble.Reader, k []byte) ([]byte, error) {
	v, closer, err := reader.Get(k)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	// The returned slice is only valid until closer.Close; copy it.
	v2 := bytes.Clone(v)
	if err := closer.Close(); err != nil {
		return nil, err
	}
	return v2, nil
}

func iterate(reader pebble.Reader, prefix []byte, callback func(k, v []byte) bool) (err error) {
	iter, err := reader.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return err
	}
	defer func() {
		errC := iter.Close()
		if err == nil {
			err = errC
		}
	}()
	for iter.First(); iter.Valid(); iter.Next() {
		if cont := callback(iter.Key()[len(prefix):], iter.Value()); !cont {
			break
		}
	}
	return iter.Error()
}

func keyUpperBound(b []byte) []byte {
	end := bytes.Clone(b)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil // no upper bound
}

// Get implements the db.Database.Get interface method.
func (d *PebbleDB) Get(k []byte) ([]byte, error) {
	return get(d.db, k)
}

// Iterate implements the db.Database.Iterate interface method.
func (d *PebbleDB) Iterate(prefix []byte, callback func(k, v []byte) bool) error {
	return iterate(d.db, prefix, callback)
}

// WriteTx opens a new indexed batch.
func (d *PebbleDB) WriteTx() db.WriteTx {
	return &writeTx{batch: d.db.NewIndexedBatch()}
}

// Close closes the underlying pebble database.
func (d *PebbleDB) Close() error {
	return d.db.Close()
}

// writeTx implements db.WriteTx over a pebble indexed batch.
type writeTx struct {
	batch *pebble.Batch
}

var _ db.WriteTx = (*writeTx)(nil)

func (tx *writeTx) Get(k []byte) ([]byte, error) {
	return get(tx.batch, k)
}

func (tx *writeTx) Iterate(prefix []byte, callback func(k, v []byte) bool) error {
	return iterate(tx.batch, prefix, callback)
}

func (tx *writeTx) Set(k, v []byte) error {
	return tx.batch.Set(k, v, nil)
}

func (tx *writeTx) Delete(k []byte) error {
	return tx.batch.Delete(k, nil)
}

func (tx *writeTx) Commit() error {
	if tx.batch == nil {
		return fmt.Errorf("cannot commit pebble tx: already committed or discarded")
	}
	err := tx.batch.Commit(nil)
	tx.batch = nil
	return err
}

func (tx *writeTx) Discard() {
	if tx.batch == nil {
		return
	}
	_ = tx.batch.Close()
	tx.batch = nil
}
