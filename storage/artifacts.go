package storage

import (
	"github.com/provotum/mixnet-node/types"
)

// SetElectionParams stores the public group parameters for an election.
func (s *Storage) SetElectionParams(voteID types.VoteID, params *types.ElectionParams) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	if err := s.setArtifact(electionParamsPrefix, []byte(voteID), params); err != nil {
		return err
	}
	s.paramsCache.Add(voteID, params)
	return nil
}

// ElectionParams loads the public group parameters for an election. The
// parameters are constants for the life of the election, so hits are
// served from an in-memory cache.
func (s *Storage) ElectionParams(voteID types.VoteID) (*types.ElectionParams, error) {
	if params, ok := s.paramsCache.Get(voteID); ok {
		return params, nil
	}
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	params := new(types.ElectionParams)
	if err := s.getArtifact(electionParamsPrefix, []byte(voteID), params); err != nil {
		return nil, err
	}
	s.paramsCache.Add(voteID, params)
	return params, nil
}

// SetCiphers stores the ordered ciphertext list for a topic at the given
// shuffle level, replacing any previous list.
func (s *Storage) SetCiphers(topicID types.TopicID, nrOfShuffles uint32, ciphers []types.Cipher) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.setArtifact(ciphersPrefix, topicKey(topicID, nrOfShuffles), ciphers)
}

// Ciphers loads the ordered ciphertext list for a topic at the given
// shuffle level. The order is the insertion order and is stable across
// queries.
func (s *Storage) Ciphers(topicID types.TopicID, nrOfShuffles uint32) ([]types.Cipher, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	var ciphers []types.Cipher
	if err := s.getArtifact(ciphersPrefix, topicKey(topicID, nrOfShuffles), &ciphers); err != nil {
		return nil, err
	}
	return ciphers, nil
}

// SetPublicKeyShare stores a sealer's public key share for an election.
func (s *Storage) SetPublicKeyShare(voteID types.VoteID, sealer string, share *types.PublicKeyShare) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.setArtifact(keySharePrefix, sealerKey(string(voteID), sealer), share)
}

// PublicKeyShare loads a sealer's public key share for an election.
func (s *Storage) PublicKeyShare(voteID types.VoteID, sealer string) (*types.PublicKeyShare, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	share := new(types.PublicKeyShare)
	if err := s.getArtifact(keySharePrefix, sealerKey(string(voteID), sealer), share); err != nil {
		return nil, err
	}
	return share, nil
}

// SetPartialDecryptions stores a sealer's partial decryptions for a topic.
func (s *Storage) SetPartialDecryptions(topicID types.TopicID, sealer string, body *types.DecryptPostBody) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.setArtifact(partialDecPrefix, sealerKey(string(topicID), sealer), body)
}

// PartialDecryptions loads a sealer's partial decryptions for a topic.
func (s *Storage) PartialDecryptions(topicID types.TopicID, sealer string) (*types.DecryptPostBody, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	body := new(types.DecryptPostBody)
	if err := s.getArtifact(partialDecPrefix, sealerKey(string(topicID), sealer), body); err != nil {
		return nil, err
	}
	return body, nil
}

// SetShuffleProof stores an accepted shuffle proof transcript for a topic
// at the given shuffle level.
func (s *Storage) SetShuffleProof(topicID types.TopicID, nrOfShuffles uint32, proof *types.ShuffleProof) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.setArtifact(shuffleProofPrefix, topicKey(topicID, nrOfShuffles), proof)
}

// ShuffleProof loads the accepted shuffle proof transcript for a topic at
// the given shuffle level.
func (s *Storage) ShuffleProof(topicID types.TopicID, nrOfShuffles uint32) (*types.ShuffleProof, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	proof := new(types.ShuffleProof)
	if err := s.getArtifact(shuffleProofPrefix, topicKey(topicID, nrOfShuffles), proof); err != nil {
		return nil, err
	}
	return proof, nil
}
