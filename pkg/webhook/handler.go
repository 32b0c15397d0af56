package webhook

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DefaultSignatureHeader carries the payload signature on inbound requests.
const DefaultSignatureHeader = "X-Webhook-Signature"

// defaultMaxBodySize bounds inbound payloads at 1 MiB; provider events are
// far smaller.
const defaultMaxBodySize int64 = 1 << 20

type handlerConfig struct {
	signatureHeader string
	maxBodySize     int64
}

// HandlerOption configures the HTTP adapter.
type HandlerOption func(*handlerConfig)

// WithSignatureHeader overrides the header the signature is read from, for
// providers with their own header conventions.
func WithSignatureHeader(name string) HandlerOption {
	return func(c *handlerConfig) {
		if name != "" {
			c.signatureHeader = name
		}
	}
}

// WithMaxBodySize overrides the 1 MiB payload limit.
func WithMaxBodySize(n int64) HandlerOption {
	return func(c *handlerConfig) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// Handler adapts a Processor to net/http. It reads the raw body, runs the
// delivery pipeline, and writes the JSON acknowledgment.
func Handler(p *Processor, handle HandlerFunc, opts ...HandlerOption) http.HandlerFunc {
	cfg := handlerConfig{
		signatureHeader: DefaultSignatureHeader,
		maxBodySize:     defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(io.LimitReader(r.Body, cfg.maxBodySize))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		result, procErr := p.Process(r.Context(), payload, r.Header.Get(cfg.signatureHeader), handle)
		resp := NewResponse(result, procErr)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		_ = json.NewEncoder(w).Encode(resp.Body)
	}
}

// Endpoint pairs a provider's processor with its business logic for Router.
type Endpoint struct {
	Processor *Processor
	Handle    HandlerFunc
}

// Router mounts one POST route per provider name, e.g. POST /plaid and
// POST /kraken for keys "plaid" and "kraken".
func Router(endpoints map[string]Endpoint, opts ...HandlerOption) http.Handler {
	r := chi.NewRouter()
	for name, ep := range endpoints {
		r.Post("/"+name, Handler(ep.Processor, ep.Handle, opts...))
	}
	return r
}
