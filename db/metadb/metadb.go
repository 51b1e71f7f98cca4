// Package metadb constructs a db.Database for a backend selected by name.
package metadb

import (
	"cmp"
	"fmt"
	"os"
	"testing"

	"github.com/provotum/mixnet-node/db"
	"github.com/provotum/mixnet-node/db/goleveldb"
	"github.com/provotum/mixnet-node/db/pebbledb"
)

// New opens a database of the given type at dir.
func New(typ, dir string) (db.Database, error) {
	var database db.Database
	var err error
	opts := db.Options{Path: dir}
	switch typ {
	case db.TypePebble:
		database, err = pebbledb.New(opts)
		if err != nil {
			return nil, err
		}
	case db.TypeLevelDB:
		database, err = goleveldb.New(opts)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid dbType: %q. Available types: %q %q",
			typ, db.TypePebble, db.TypeLevelDB)
	}
	return database, nil
}

// ForTest returns the backend type used by tests, overridable with
// $MIXNET_DB_TYPE.
func ForTest() (typ string) {
	return cmp.Or(os.Getenv("MIXNET_DB_TYPE"), db.TypePebble)
}

// NewTest opens a throwaway database in a test temporary directory, closed
// automatically on cleanup.
func NewTest(tb testing.TB) db.Database {
	database, err := New(ForTest(), tb.TempDir())
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() {
		if err := database.Close(); err != nil {
			tb.Error(err)
		}
	})
	return database
}
