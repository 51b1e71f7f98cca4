package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/provotum/mixnet-node/log"
	"github.com/provotum/mixnet-node/types"
)

// ciphersToDecrypt fetches the ciphertext list a sealer has to partially
// decrypt: the output of the final shuffle round.
// GET /decrypt/{voteId}/{topicId}?nrOfShuffles=N
func (a *API) ciphersToDecrypt(w http.ResponseWriter, r *http.Request) {
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
	if err := a.storage.SetCiphers(topicID, nrOfShuffles, ciphers); err != nil {
		log.Warnw("could not persist ciphers", "topic", string(topicID), "error", err.Error())
	}
	httpWriteJSON(w, ciphers)
}

// submitPartialDecryptions forwards a sealer's partial decryptions to the
// chain.
// POST /decrypt/{voteId}/{topicId}/{sealer}?nrOfShuffles=N
func (a *API) submitPartialDecryptions(w http.ResponseWriter, r *http.Request) {
	voteID := types.VoteID(chi.URLParam(r, VoteURLParam))
	topicID := types.TopicID(chi.URLParam(r, TopicURLParam))
	sealer := chi.URLParam(r, SealerURLParam)
	if voteID == "" || topicID == "" || sealer == "" {
		ErrMalformedParam.Write(w)
		return
	}
	nrOfShuffles, err := nrOfShufflesParam(r)
	if err != nil {
		ErrMalformedParam.WithErr(err).Write(w)
		return
	}

	body := new(types.DecryptPostBody)
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if len(body.Shares) == 0 || body.Proof.Challenge == nil || body.Proof.Response == nil {
		ErrMalformedDecryptions.Write(w)
		return
	}

	if err := a.chain.SubmitPartialDecryptions(r.Context(), voteID, topicID, sealer, body, nrOfShuffles); err != nil {
		ErrChainRequestFailed.WithErr(err).Write(w)
		return
	}
	if err := a.storage.SetPartialDecryptions(topicID, sealer, body); err != nil {
		log.Warnw("could not persist partial decryptions", "topic", string(topicID), "error", err.Error())
	}

	log.Infow("submitted partial decryptions",
		"vote", string(voteID), "topic", string(topicID), "sealer", sealer, "shares", len(body.Shares))
	httpWriteOK(w)
}
