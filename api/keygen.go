package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/provotum/mixnet-node/log"
	"github.com/provotum/mixnet-node/types"
)

// submitKeyShare forwards a sealer's public key share to the chain and
// keeps a local copy.
// POST /keygen/{voteId}/{sealer}
func (a *API) submitKeyShare(w http.ResponseWriter, r *http.Request) {
	voteID := types.VoteID(chi.URLParam(r, VoteURLParam))
	sealer := chi.URLParam(r, SealerURLParam)
	if voteID == "" || sealer == "" {
		ErrMalformedParam.Write(w)
		return
	}

	share := new(types.PublicKeyShare)
	if err := json.NewDecoder(r.Body).Decode(share); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if share.PK == nil || share.Proof.Challenge == nil || share.Proof.Response == nil {
		ErrMalformedKeyShare.Write(w)
		return
	}

	if err := a.chain.StorePublicKeyShare(r.Context(), voteID, sealer, share); err != nil {
		ErrChainRequestFailed.WithErr(err).Write(w)
		return
	}
	if err := a.storage.SetPublicKeyShare(voteID, sealer, share); err != nil {
		log.Warnw("could not persist key share", "vote", string(voteID), "sealer", sealer, "error", err.Error())
	}

	log.Infow("stored public key share", "vote", string(voteID), "sealer", sealer)
	httpWriteOK(w)
}
