/*
Package storage provides the persistent storage layer of the mixnet node.

The storage uses a key-value database with prefixed namespaces:

  - ep/  : voteID → election parameters (p, g, h and the generator seed id)
  - c/   : topicID + nrOfShuffles → ordered ciphertext list
  - pks/ : voteID + sealer → public key share with proof of knowledge
  - pd/  : topicID + sealer → partial decryptions with proof
  - sp/  : topicID + nrOfShuffles → accepted shuffle proof transcript

Election parameters are constants for the life of an election, so reads go
through a small LRU cache. Everything else is read from the database on
every call; in particular, nothing consumed by the shuffle verifier is ever
cached between verifications.
*/
package storage

import (
	"encoding/binary"
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/provotum/mixnet-node/db"
	"github.com/provotum/mixnet-node/types"
)

// ErrNotFound is returned when the requested artifact does not exist.
var ErrNotFound = errors.New("not found")

var (
	electionParamsPrefix = []byte("ep/")
	ciphersPrefix        = []byte("c/")
	keySharePrefix       = []byte("pks/")
	partialDecPrefix     = []byte("pd/")
	shuffleProofPrefix   = []byte("sp/")
)

const paramsCacheSize = 32

// Storage manages the node's persisted artifacts.
type Storage struct {
	db          db.Database
	globalLock  sync.Mutex
	paramsCache *lru.Cache[types.VoteID, *types.ElectionParams]
}

// New creates a Storage instance on top of the given database.
func New(database db.Database) (*Storage, error) {
	cache, err := lru.New[types.VoteID, *types.ElectionParams](paramsCacheSize)
	if err != nil {
		return nil, err
	}
	return &Storage{
		db:          database,
		paramsCache: cache,
	}, nil
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// setArtifact CBOR-encodes an artifact and stores it under prefix+key.
func (s *Storage) setArtifact(prefix, key []byte, artifact any) error {
	data, err := EncodeArtifact(artifact)
	if err != nil {
		return err
	}
	tx := s.db.WriteTx()
	defer tx.Discard()
	if err := tx.Set(append(append([]byte{}, prefix...), key...), data); err != nil {
		return err
	}
	return tx.Commit()
}

// getArtifact loads and decodes an artifact from prefix+key, returning
// ErrNotFound when the key does not exist.
func (s *Storage) getArtifact(prefix, key []byte, out any) error {
	data, err := s.db.Get(append(append([]byte{}, prefix...), key...))
	if errors.Is(err, db.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return DecodeArtifact(data, out)
}

// topicKey builds the key for artifacts addressed by topic and shuffle
// level: the topic id, a separator and the level as 4-byte big-endian.
func topicKey(topicID types.TopicID, nrOfShuffles uint32) []byte {
	key := append([]byte(topicID), '|')
	return binary.BigEndian.AppendUint32(key, nrOfShuffles)
}

// sealerKey builds the key for artifacts addressed by an id and a sealer
// name.
func sealerKey(id, sealer string) []byte {
	return append(append([]byte(id), '|'), sealer...)
}
