// Package api implements the HTTP façade of the mixnet node: a thin layer
// that forwards key shares, partial decryptions and shuffles between the
// sealers and the blockchain node, verifying shuffle proofs before they are
// submitted.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/provotum/mixnet-node/chain"
	"github.com/provotum/mixnet-node/log"
	stg "github.com/provotum/mixnet-node/storage"
)

// Version is the build version, set at build time with -ldflags.
var Version = "dev"

// APIConfig type represents the configuration for the API HTTP server.
type APIConfig struct {
	Host    string
	Port    int
	Storage *stg.Storage
	Chain   *chain.Client
}

// API type represents the API HTTP server.
type API struct {
	router     *chi.Mux
	storage    *stg.Storage
	chain      *chain.Client
	instanceID uuid.UUID
	parentCtx  context.Context
}

// New creates a new API instance with the given configuration and starts
// the HTTP server in the background.
func New(ctx context.Context, conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Storage == nil {
		return nil, fmt.Errorf("missing storage instance")
	}
	if conf.Chain == nil {
		return nil, fmt.Errorf("missing chain client")
	}

	a := &API{
		storage:    conf.Storage,
		chain:      conf.Chain,
		instanceID: uuid.New(),
		parentCtx:  ctx,
	}
	a.initRouter()

	go func() {
		log.Infow("starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes.
func (a *API) Router() *chi.Mux {
	return a.router
}

// initRouter creates the router with all the middlewares and endpoints.
func (a *API) initRouter() {
	a.router = chi.NewRouter()
	a.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.Timeout(45 * time.Second))

	a.registerHandlers()
}

// registerHandlers registers all the HTTP handlers for the API endpoints.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, _ *http.Request) {
		httpWriteOK(w)
	})

	log.Infow("register handler", "endpoint", InfoEndpoint, "method", "GET")
	a.router.Get(InfoEndpoint, a.info)

	log.Infow("register handler", "endpoint", KeygenEndpoint, "method", "POST")
	a.router.Post(KeygenEndpoint, a.submitKeyShare)

	log.Infow("register handler", "endpoint", DecryptCiphersEndpoint, "method", "GET")
	a.router.Get(DecryptCiphersEndpoint, a.ciphersToDecrypt)

	log.Infow("register handler", "endpoint", DecryptSubmitEndpoint, "method", "POST")
	a.router.Post(DecryptSubmitEndpoint, a.submitPartialDecryptions)

	log.Infow("register handler", "endpoint", ShuffleEndpoint, "method", "GET")
	a.router.Get(ShuffleEndpoint, a.ciphersToShuffle)

	log.Infow("register handler", "endpoint", ShuffleEndpoint, "method", "POST")
	a.router.Post(ShuffleEndpoint, a.submitShuffle)
}

// InfoResponse is the response of the /info endpoint.
type InfoResponse struct {
	InstanceID string `json:"instanceId"`
	Version    string `json:"version"`
}

// info returns the node instance identifier and build version.
// GET /info
func (a *API) info(w http.ResponseWriter, _ *http.Request) {
	httpWriteJSON(w, InfoResponse{
		InstanceID: a.instanceID.String(),
		Version:    Version,
	})
}
