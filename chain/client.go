// Package chain implements the JSON-RPC client used to read and submit
// mixnet artifacts on the blockchain node. The node exposes the mixer_*
// method namespace; this client is the only component that talks to it.
package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/provotum/mixnet-node/log"
	"github.com/provotum/mixnet-node/types"
)

const (
	// defaultRetries is the number of times to retry an RPC call before
	// giving up.
	defaultRetries = 2
	// defaultRetrySleep is the time to wait between retries.
	defaultRetrySleep = 200 * time.Millisecond

	defaultTimeout = 3 * time.Second
)

// Client is a thin wrapper over the blockchain node's JSON-RPC interface.
type Client struct {
	rpc *rpc.Client
}

// Dial connects to the blockchain node at the given URL (http, ws or ipc).
func Dial(ctx context.Context, url string) (*Client, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial blockchain node at %s: %w", url, err)
	}
	return NewClient(c), nil
}

// NewClient wraps an existing rpc.Client; used by tests to inject an
// in-process server.
func NewClient(c *rpc.Client) *Client {
	return &Client{rpc: c}
}

// Close closes the underlying RPC connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// call performs a JSON-RPC call, retrying any failed attempt up to
// defaultRetries times.
func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	var err error
	for attempt := 0; attempt <= defaultRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
		err = c.rpc.CallContext(callCtx, result, method, args...)
		cancel()
		if err == nil {
			return nil
		}
		log.Warnw("chain rpc call failed", "method", method, "attempt", attempt, "error", err.Error())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(defaultRetrySleep):
		}
	}
	return fmt.Errorf("rpc call %s: %w", method, err)
}

// GetElectionParams fetches the public group parameters of an election.
func (c *Client) GetElectionParams(ctx context.Context, voteID types.VoteID) (*types.ElectionParams, error) {
	params := new(types.ElectionParams)
	if err := c.call(ctx, params, "mixer_getElectionParams", voteID); err != nil {
		return nil, err
	}
	return params, nil
}

// GetPublicKey fetches the combined public encryption key of an election.
func (c *Client) GetPublicKey(ctx context.Context, voteID types.VoteID) (*types.BigInt, error) {
	pk := new(types.BigInt)
	if err := c.call(ctx, pk, "mixer_getPublicKey", voteID); err != nil {
		return nil, err
	}
	return pk, nil
}

// GetCiphers fetches the ordered ciphertext list stored for a topic at the
// given shuffle level. The chain keeps one list per level; level zero holds
// the raw submitted votes.
func (c *Client) GetCiphers(ctx context.Context, topicID types.TopicID, nrOfShuffles uint32) ([]types.Cipher, error) {
	var ciphers []types.Cipher
	if err := c.call(ctx, &ciphers, "mixer_getCiphers", topicID, nrOfShuffles); err != nil {
		return nil, err
	}
	return ciphers, nil
}

// StorePublicKeyShare submits a sealer's public key share and its proof of
// knowledge.
func (c *Client) StorePublicKeyShare(ctx context.Context, voteID types.VoteID, sealer string, share *types.PublicKeyShare) error {
	var accepted bool
	if err := c.call(ctx, &accepted, "mixer_storePublicKeyShare", voteID, sealer, share); err != nil {
		return err
	}
	if !accepted {
		return fmt.Errorf("public key share for %s rejected by the chain", voteID)
	}
	return nil
}

// SubmitPartialDecryptions submits a sealer's partial decryptions for a
// topic at the given shuffle level.
func (c *Client) SubmitPartialDecryptions(ctx context.Context, voteID types.VoteID, topicID types.TopicID,
	sealer string, body *types.DecryptPostBody, nrOfShuffles uint32,
) error {
	var accepted bool
	if err := c.call(ctx, &accepted, "mixer_submitPartialDecryptions",
		voteID, topicID, sealer, body, nrOfShuffles); err != nil {
		return err
	}
	if !accepted {
		return fmt.Errorf("partial decryptions for %s rejected by the chain", topicID)
	}
	return nil
}

// SubmitShuffle submits a shuffled ciphertext list and its proof, to be
// stored as shuffle level nrOfShuffles+1 of the topic.
func (c *Client) SubmitShuffle(ctx context.Context, topicID types.TopicID, nrOfShuffles uint32,
	payload *types.ShufflePayload,
) error {
	var accepted bool
	if err := c.call(ctx, &accepted, "mixer_submitShuffle", topicID, nrOfShuffles, payload); err != nil {
		return err
	}
	if !accepted {
		return fmt.Errorf("shuffle for %s rejected by the chain", topicID)
	}
	return nil
}
