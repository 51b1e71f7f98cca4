package api

// Route constants for the API endpoints

const (
	// Health endpoints
	PingEndpoint = "/ping" // Health check endpoint
	InfoEndpoint = "/info" // GET: Node information

	// URL parameters
	VoteURLParam   = "voteId"  // URL parameter for the election id
	TopicURLParam  = "topicId" // URL parameter for the topic (question) id
	SealerURLParam = "sealer"  // URL parameter for the sealer name

	// Key generation endpoint
	KeygenEndpoint = "/keygen/{" + VoteURLParam + "}/{" + SealerURLParam + "}" // POST: Submit a public key share

	// Decryption endpoints
	DecryptCiphersEndpoint = "/decrypt/{" + VoteURLParam + "}/{" + TopicURLParam + "}"                             // GET: Fetch ciphertexts to decrypt
	DecryptSubmitEndpoint  = "/decrypt/{" + VoteURLParam + "}/{" + TopicURLParam + "}/{" + SealerURLParam + "}" // POST: Submit partial decryptions

	// Shuffle endpoints
	ShuffleEndpoint = "/shuffle/{" + VoteURLParam + "}/{" + TopicURLParam + "}" // GET: Fetch ciphertexts to shuffle, POST: Submit a shuffle with proof

	// NrOfShufflesQueryParam selects the shuffle level of a topic's
	// ciphertext list.
	NrOfShufflesQueryParam = "nrOfShuffles"
)

// DefaultNrOfShuffles is the shuffle level used when the query parameter is
// absent: the number of mixing rounds every topic goes through before
// decryption.
const DefaultNrOfShuffles = 3
