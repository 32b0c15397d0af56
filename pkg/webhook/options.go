package webhook

import (
	"log/slog"
	"time"
)

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithIdempotencyStore enables duplicate suppression. Without a store every
// delivery is processed; signature verification is unaffected either way.
func WithIdempotencyStore(store IdempotencyStore) ProcessorOption {
	return func(p *Processor) {
		p.idem = store
	}
}

// WithIdempotencyTTL sets the retention window for processed delivery
// identities. Default is 24 hours, comfortably past the retry horizon of the
// integrated providers.
func WithIdempotencyTTL(ttl time.Duration) ProcessorOption {
	return func(p *Processor) {
		if ttl > 0 {
			p.idemTTL = ttl
		}
	}
}

// WithEventID overrides how a delivery's identity is derived from its raw
// payload, e.g. by parsing a provider-supplied event id. Returning an empty
// string disables duplicate suppression for that delivery. The default is a
// SHA-256 content hash of the payload.
func WithEventID(fn func(payload []byte) string) ProcessorOption {
	return func(p *Processor) {
		if fn != nil {
			p.eventID = fn
		}
	}
}

// WithProcessorLogger sets the logger. Defaults to slog.Default().
func WithProcessorLogger(log *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}
