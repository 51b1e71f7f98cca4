package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/provotum/mixnet-node/crypto/elgamal"
	"github.com/provotum/mixnet-node/crypto/shuffle"
	"github.com/provotum/mixnet-node/log"
	"github.com/provotum/mixnet-node/storage"
	"github.com/provotum/mixnet-node/types"
)

// ciphersToShuffle fetches the ciphertext list a mixer has to shuffle: the
// output of the previous shuffle round.
// GET /shuffle/{voteId}/{topicId}?nrOfShuffles=N
func (a *API) ciphersToShuffle(w http.ResponseWriter, r *http.Request) {
	topicID := types.TopicID(chi.URLParam(r, TopicURLParam))
	if topicID == "" {
		ErrMalformedParam.Write(w)
		return
	}
	nrOfShuffles, err := nrOfShufflesParam(r)
	if err != nil {
		ErrMalformedParam.WithErr(err).Write(w)
		return
	}

	ciphers, err := a.chain.GetCiphers(r.Context(), topicID, nrOfShuffles)
	if err != nil {
		ErrChainRequestFailed.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, ciphers)
}

// submitShuffle verifies a shuffle proof against the topic's current
// ciphertext list and, when valid, submits the shuffled list to the chain
// as the next shuffle level. Invalid or malformed proofs never reach the
// chain.
// POST /shuffle/{voteId}/{topicId}?nrOfShuffles=N
func (a *API) submitShuffle(w http.ResponseWriter, r *http.Request) {
	voteID := types.VoteID(chi.URLParam(r, VoteURLParam))
	topicID := types.TopicID(chi.URLParam(r, TopicURLParam))
	if voteID == "" || topicID == "" {
		ErrMalformedParam.Write(w)
		return
	}
	nrOfShuffles, err := nrOfShufflesParam(r)
	if err != nil {
		ErrMalformedParam.WithErr(err).Write(w)
		return
	}

	payload := new(types.ShufflePayload)
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if payload.Proof == nil {
		ErrMalformedShuffleProof.Write(w)
		return
	}

	params, err := a.electionParams(r, voteID)
	if err != nil {
		ErrElectionNotFound.WithErr(err).Write(w)
		return
	}
	pkValue, err := a.chain.GetPublicKey(r.Context(), voteID)
	if err != nil {
		ErrChainRequestFailed.WithErr(err).Write(w)
		return
	}
	inputs, err := a.chain.GetCiphers(r.Context(), topicID, nrOfShuffles)
	if err != nil {
		ErrCiphersNotFound.WithErr(err).Write(w)
		return
	}

	pk := &elgamal.PublicKey{
		Params: params.Params(),
		H:      pkValue.MathBigInt(),
	}
	verified, err := shuffle.VerifyProof(params.ID, payload.Proof.Crypto(),
		types.CiphersToCrypto(inputs), types.CiphersToCrypto(payload.Ciphers), pk)
	switch {
	case errors.Is(err, shuffle.ErrShapeMismatch):
		ErrMalformedShuffleProof.WithErr(err).Write(w)
		return
	case err != nil:
		// arithmetic failures mean a corrupt transcript, not a server fault
		ErrInvalidShuffleProof.WithErr(err).Write(w)
		return
	case !verified:
		log.Warnw("rejected shuffle proof",
			"vote", string(voteID), "topic", string(topicID), "level", nrOfShuffles)
		ErrInvalidShuffleProof.Write(w)
		return
	}

	if err := a.chain.SubmitShuffle(r.Context(), topicID, nrOfShuffles, payload); err != nil {
		ErrChainRequestFailed.WithErr(err).Write(w)
		return
	}
	if err := a.storage.SetShuffleProof(topicID, nrOfShuffles+1, payload.Proof); err != nil {
		log.Warnw("could not persist shuffle proof", "topic", string(topicID), "error", err.Error())
	}

	log.Infow("accepted shuffle",
		"vote", string(voteID), "topic", string(topicID),
		"level", nrOfShuffles, "size", len(payload.Ciphers))
	httpWriteOK(w)
}

// electionParams resolves the election parameters from local storage,
// falling back to the chain on a miss.
func (a *API) electionParams(r *http.Request, voteID types.VoteID) (*types.ElectionParams, error) {
	params, err := a.storage.ElectionParams(voteID)
	if err == nil {
		return params, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	params, err = a.chain.GetElectionParams(r.Context(), voteID)
	if err != nil {
		return nil, err
	}
	if err := a.storage.SetElectionParams(voteID, params); err != nil {
		log.Warnw("could not persist election params", "vote", string(voteID), "error", err.Error())
	}
	return params, nil
}
