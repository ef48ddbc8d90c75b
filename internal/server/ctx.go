package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/geomodels/geo"
	"github.com/woozymasta/geomodels/internal/config"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config *config.Config
	Kinds  []KindInfo
}

// KindInfo describes one registry entry.
type KindInfo struct {
	Name        geo.Kind `json:"name"`
	Depth       int      `json:"depth"`
	Predecessor geo.Kind `json:"predecessor"`
	Successor   geo.Kind `json:"successor"`
}

// NewServerContext initializes the context from the configuration.
func NewServerContext(cfg *config.Config) *ServerContext {
	if cfg == nil {
		cfg = config.Default()
	}

	kinds := make([]KindInfo, 0, len(geo.Kinds()))
	for _, k := range geo.Kinds() {
		kinds = append(kinds, KindInfo{
			Name:        k,
			Depth:       k.Depth(),
			Predecessor: k.Predecessor(),
			Successor:   k.Successor(),
		})
	}

	log.Info().
		Int("reference_id", cfg.ReferenceID).
		Int("kinds", len(kinds)).
		Int64("max_body_bytes", cfg.Server.MaxBodyBytes).
		Msg("Server context initialized")

	return &ServerContext{
		Config: cfg,
		Kinds:  kinds,
	}
}

// Routes returns the API handler wrapped in the request logger.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kinds", s.HandleKinds)
	mux.HandleFunc("POST /api/inspect", s.HandleInspect)
	mux.HandleFunc("POST /api/convert", s.HandleConvert)
	mux.HandleFunc("POST /api/contains", s.HandleContains)

	return RequestLogger(mux)
}
