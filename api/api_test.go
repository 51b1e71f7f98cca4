package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/google/uuid"

	"github.com/provotum/mixnet-node/chain"
	"github.com/provotum/mixnet-node/crypto/elgamal"
	"github.com/provotum/mixnet-node/crypto/shuffle"
	"github.com/provotum/mixnet-node/db/metadb"
	"github.com/provotum/mixnet-node/storage"
	"github.com/provotum/mixnet-node/types"
)

// mixerService is an in-process stand-in for the blockchain node.
type mixerService struct {
	params  *types.ElectionParams
	pk      *types.BigInt
	ciphers map[string][]types.Cipher
	shares  map[string]*types.PublicKeyShare
}

func (m *mixerService) key(topicID types.TopicID, n uint32) string {
	return fmt.Sprintf("%s/%d", topicID, n)
}

func (m *mixerService) GetElectionParams(voteID types.VoteID) (*types.ElectionParams, error) {
	if m.params == nil {
		return nil, fmt.Errorf("unknown election %q", voteID)
	}
	return m.params, nil
}

func (m *mixerService) GetPublicKey(voteID types.VoteID) (*types.BigInt, error) {
	return m.pk, nil
}

func (m *mixerService) GetCiphers(topicID types.TopicID, nrOfShuffles uint32) ([]types.Cipher, error) {
	ciphers, ok := m.ciphers[m.key(topicID, nrOfShuffles)]
	if !ok {
		return nil, fmt.Errorf("no ciphers for %q at level %d", topicID, nrOfShuffles)
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
	return true, nil
}

func (m *mixerService) SubmitShuffle(topicID types.TopicID, nrOfShuffles uint32, payload *types.ShufflePayload) (bool, error) {
	m.ciphers[m.key(topicID, nrOfShuffles+1)] = payload.Ciphers
	return true, nil
}

// testAPI wires an API instance to an in-process chain node and a throwaway
// database, without binding a network port.
func testAPI(t *testing.T) (*API, *mixerService) {
	c := qt.New(t)

	service := &mixerService{
		ciphers: map[string][]types.Cipher{},
		shares:  map[string]*types.PublicKeyShare{},
	}
	server := rpc.NewServer()
	c.Assert(server.RegisterName("mixer", service), qt.IsNil)
	t.Cleanup(server.Stop)

	client := chain.NewClient(rpc.DialInProc(server))
	t.Cleanup(client.Close)

	stg, err := storage.New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)

	a := &API{
		storage:    stg,
		chain:      client,
		instanceID: uuid.New(),
		parentCtx:  context.Background(),
	}
	a.initRouter()
	return a, service
}

func doRequest(t *testing.T, a *API, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		qt.Assert(t, err, qt.IsNil)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func TestPingAndInfo(t *testing.T) {
	c := qt.New(t)
	a, _ := testAPI(t)

	rec := doRequest(t, a, http.MethodGet, PingEndpoint, nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	rec = doRequest(t, a, http.MethodGet, InfoEndpoint, nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	var info InfoResponse
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &info), qt.IsNil)
	c.Assert(info.InstanceID, qt.Equals, a.instanceID.String())
}

func TestSubmitKeyShare(t *testing.T) {
	c := qt.New(t)
	a, service := testAPI(t)

	share := &types.PublicKeyShare{
		PK: types.NewInt(13),
		Proof: types.KeyShareProof{
			Challenge: types.NewInt(5),
			Response:  types.NewInt(7),
		},
	}
	rec := doRequest(t, a, http.MethodPost, "/keygen/vote1/bob", share)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(service.shares["vote1/bob"].PK.Equal(share.PK), qt.IsTrue)

	// missing proof
	rec = doRequest(t, a, http.MethodPost, "/keygen/vote1/bob",
		&types.PublicKeyShare{PK: types.NewInt(13)})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
}

func TestCiphersToDecrypt(t *testing.T) {
	c := qt.New(t)
	a, service := testAPI(t)

	service.ciphers["topic1/3"] = []types.Cipher{
		{A: types.NewInt(4), B: types.NewInt(9)},
	}

	// default level is DefaultNrOfShuffles
	rec := doRequest(t, a, http.MethodGet, "/decrypt/vote1/topic1", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	var ciphers []types.Cipher
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &ciphers), qt.IsNil)
	c.Assert(len(ciphers), qt.Equals, 1)

	// unknown level
	rec = doRequest(t, a, http.MethodGet, "/decrypt/vote1/topic1?nrOfShuffles=9", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusBadGateway)
}

func TestSubmitPartialDecryptions(t *testing.T) {
	c := qt.New(t)
	a, _ := testAPI(t)

	body := &types.DecryptPostBody{
		Shares: []*types.BigInt{types.NewInt(3), types.NewInt(7)},
		Proof: types.DecryptionProof{
			Challenge: types.NewInt(5),
			Response:  types.NewInt(11),
		},
	}
	rec := doRequest(t, a, http.MethodPost, "/decrypt/vote1/topic1/bob", body)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	rec = doRequest(t, a, http.MethodPost, "/decrypt/vote1/topic1/bob",
		&types.DecryptPostBody{})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
}

// setupShuffleElection seeds the mock chain with a small election and
// returns the key pair used to encrypt the votes.
func setupShuffleElection(c *qt.C, service *mixerService) *elgamal.PublicKey {
	params := &elgamal.Params{P: big.NewInt(23), G: big.NewInt(4), H: big.NewInt(9)}
	pk, _, err := elgamal.GenerateKey(params)
	c.Assert(err, qt.IsNil)

	service.params = &types.ElectionParams{
		ID: 3,
		P:  types.FromBigInt(params.P),
		G:  types.FromBigInt(params.G),
		H:  types.FromBigInt(params.H),
	}
	service.pk = types.FromBigInt(pk.H)

	var votes []elgamal.Cipher
	for _, m := range []int64{13, 16, 9} {
		e, _, err := elgamal.Encrypt(pk, big.NewInt(m))
		c.Assert(err, qt.IsNil)
		votes = append(votes, e)
	}
	service.ciphers["topic1/0"] = types.CiphersFromCrypto(votes)
	return pk
}

func TestSubmitShuffle(t *testing.T) {
	c := qt.New(t)
	a, service := testAPI(t)
	pk := setupShuffleElection(c, service)

	inputs := types.CiphersToCrypto(service.ciphers["topic1/0"])
	eTilde, perm, rTilde, err := shuffle.Shuffle(inputs, pk)
	c.Assert(err, qt.IsNil)
	proof, err := shuffle.GenProof(service.params.ID, inputs, eTilde, perm, rTilde, pk)
	c.Assert(err, qt.IsNil)

	payload := &types.ShufflePayload{
		Ciphers: types.CiphersFromCrypto(eTilde),
		Proof:   types.ShuffleProofFromCrypto(proof),
	}
	rec := doRequest(t, a, http.MethodPost, "/shuffle/vote1/topic1?nrOfShuffles=0", payload)
	c.Assert(rec.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", rec.Body.String()))

	// the shuffled list is now stored at level 1 on the chain
	c.Assert(len(service.ciphers["topic1/1"]), qt.Equals, 3)
}

func TestSubmitShuffleInvalidProof(t *testing.T) {
	c := qt.New(t)
	a, service := testAPI(t)
	pk := setupShuffleElection(c, service)

	inputs := types.CiphersToCrypto(service.ciphers["topic1/0"])
	eTilde, perm, rTilde, err := shuffle.Shuffle(inputs, pk)
	c.Assert(err, qt.IsNil)
	proof, err := shuffle.GenProof(service.params.ID, inputs, eTilde, perm, rTilde, pk)
	c.Assert(err, qt.IsNil)

	// flip the low bit of the challenge
	proof.Challenge = new(big.Int).Xor(proof.Challenge, big.NewInt(1))
	payload := &types.ShufflePayload{
		Ciphers: types.CiphersFromCrypto(eTilde),
		Proof:   types.ShuffleProofFromCrypto(proof),
	}
	rec := doRequest(t, a, http.MethodPost, "/shuffle/vote1/topic1?nrOfShuffles=0", payload)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)

	var apiErr struct {
		Code int `json:"code"`
	}
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &apiErr), qt.IsNil)
	c.Assert(apiErr.Code, qt.Equals, ErrInvalidShuffleProof.Code)

	// nothing was submitted to the chain
	_, ok := service.ciphers["topic1/1"]
	c.Assert(ok, qt.IsFalse)
}

func TestSubmitShuffleMalformedProof(t *testing.T) {
	c := qt.New(t)
	a, service := testAPI(t)
	pk := setupShuffleElection(c, service)

	inputs := types.CiphersToCrypto(service.ciphers["topic1/0"])
	eTilde, perm, rTilde, err := shuffle.Shuffle(inputs, pk)
	c.Assert(err, qt.IsNil)
	proof, err := shuffle.GenProof(service.params.ID, inputs, eTilde, perm, rTilde, pk)
	c.Assert(err, qt.IsNil)

	// truncate a response vector
	proof.SHat = proof.SHat[:1]
	payload := &types.ShufflePayload{
		Ciphers: types.CiphersFromCrypto(eTilde),
		Proof:   types.ShuffleProofFromCrypto(proof),
	}
	rec := doRequest(t, a, http.MethodPost, "/shuffle/vote1/topic1?nrOfShuffles=0", payload)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)

	var apiErr struct {
		Code int `json:"code"`
	}
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &apiErr), qt.IsNil)
	c.Assert(apiErr.Code, qt.Equals, ErrMalformedShuffleProof.Code)
}
