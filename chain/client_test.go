package chain

import (
	"context"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/provotum/mixnet-node/types"
)

// mixerService is an in-process stand-in for the blockchain node's mixer
// RPC namespace.
type mixerService struct {
	ciphers map[string][]types.Cipher
	shares  map[string]*types.PublicKeyShare
}

func (m *mixerService) GetElectionParams(voteID types.VoteID) (*types.ElectionParams, error) {
	if voteID != "vote1" {
		return nil, fmt.Errorf("unknown election %q", voteID)
	}
	return &types.ElectionParams{
		ID: 3,
		P:  types.NewInt(23),
		G:  types.NewInt(4),
		H:  types.NewInt(9),
	}, nil
}

func (m *mixerService) GetPublicKey(voteID types.VoteID) (*types.BigInt, error) {
	return types.NewInt(13), nil
}

func (m *mixerService) GetCiphers(topicID types.TopicID, nrOfShuffles uint32) ([]types.Cipher, error) {
	ciphers, ok := m.ciphers[fmt.Sprintf("%s/%d", topicID, nrOfShuffles)]
	if !ok {
		return nil, fmt.Errorf("no ciphers for topic %q at level %d", topicID, nrOfShuffles)
	}
	return ciphers, nil
}

func (m *mixerService) StorePublicKeyShare(voteID types.VoteID, sealer string, share *types.PublicKeyShare) (bool, error) {
	m.shares[fmt.Sprintf("%s/%s", voteID, sealer)] = share
	return true, nil
}

func (m *mixerService) SubmitPartialDecryptions(voteID types.VoteID, topicID types.TopicID,
	sealer string, body *types.DecryptPostBody, nrOfShuffles uint32,
) (bool, error) {
	return len(body.Shares) > 0, nil
}

func (m *mixerService) SubmitShuffle(topicID types.TopicID, nrOfShuffles uint32, payload *types.ShufflePayload) (bool, error) {
	m.ciphers[fmt.Sprintf("%s/%d", topicID, nrOfShuffles+1)] = payload.Ciphers
	return true, nil
}

func testClient(t *testing.T) (*Client, *mixerService) {
	service := &mixerService{
		ciphers: map[string][]types.Cipher{},
		shares:  map[string]*types.PublicKeyShare{},
	}
	server := rpc.NewServer()
	qt.Assert(t, server.RegisterName("mixer", service), qt.IsNil)
	t.Cleanup(server.Stop)

	client := NewClient(rpc.DialInProc(server))
	t.Cleanup(client.Close)
	return client, service
}

func TestGetElectionParams(t *testing.T) {
	c := qt.New(t)
	client, _ := testClient(t)

	params, err := client.GetElectionParams(context.Background(), "vote1")
	c.Assert(err, qt.IsNil)
	c.Assert(params.ID, qt.Equals, uint32(3))
	c.Assert(params.P.String(), qt.Equals, "23")

	_, err = client.GetElectionParams(context.Background(), "unknown")
	c.Assert(err, qt.IsNotNil)
}

func TestGetCiphers(t *testing.T) {
	c := qt.New(t)
	client, service := testClient(t)

	service.ciphers["topic1/0"] = []types.Cipher{
		{A: types.NewInt(4), B: types.NewInt(9)},
		{A: types.NewInt(13), B: types.NewInt(16)},
	}

	ciphers, err := client.GetCiphers(context.Background(), "topic1", 0)
	c.Assert(err, qt.IsNil)
	c.Assert(len(ciphers), qt.Equals, 2)
	c.Assert(ciphers[0].A.String(), qt.Equals, "4")
	c.Assert(ciphers[1].B.String(), qt.Equals, "16")
}

func TestStorePublicKeyShare(t *testing.T) {
	c := qt.New(t)
	client, service := testClient(t)

	share := &types.PublicKeyShare{
		PK: types.NewInt(13),
		Proof: types.KeyShareProof{
			Challenge: types.NewInt(5),
			Response:  types.NewInt(7),
		},
	}
	err := client.StorePublicKeyShare(context.Background(), "vote1", "bob", share)
	c.Assert(err, qt.IsNil)
	c.Assert(service.shares["vote1/bob"].PK.Equal(share.PK), qt.IsTrue)
}

func TestSubmitShuffle(t *testing.T) {
	c := qt.New(t)
	client, service := testClient(t)

	payload := &types.ShufflePayload{
		Ciphers: []types.Cipher{{A: types.NewInt(4), B: types.NewInt(9)}},
	}
	err := client.SubmitShuffle(context.Background(), "topic1", 0, payload)
	c.Assert(err, qt.IsNil)
	c.Assert(len(service.ciphers["topic1/1"]), qt.Equals, 1)
}
