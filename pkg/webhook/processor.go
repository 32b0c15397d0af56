package webhook

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// HandlerFunc is the provider-specific business logic invoked for an
// authenticated, non-duplicate delivery.
type HandlerFunc func(ctx context.Context, payload []byte) error

// Result describes what happened to one inbound delivery.
type Result struct {
	Provider   string
	EventID    string // delivery identity used for duplicate suppression
	DeliveryID string // per-delivery uuid for log correlation
	Duplicate  bool   // delivery was already processed; business logic skipped
	HandlerErr error  // business logic failure; acknowledged regardless
	Duration   time.Duration
}

// Processed reports whether the business logic ran and succeeded.
func (r Result) Processed() bool {
	return !r.Duplicate && r.HandlerErr == nil
}

// Processor authenticates and de-duplicates deliveries for one provider.
// Create instances with NewProcessor; safe for concurrent use.
type Processor struct {
	provider string
	secret   string
	idem     IdempotencyStore
	idemTTL  time.Duration
	eventID  func(payload []byte) string
	log      *slog.Logger
}

// NewProcessor creates a processor for one provider endpoint. An empty
// secret is permitted but forces every signature to fail closed.
func NewProcessor(provider, secret string, opts ...ProcessorOption) *Processor {
	p := &Processor{
		provider: provider,
		secret:   secret,
		idemTTL:  24 * time.Hour,
		eventID:  contentHash,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// contentHash derives a delivery identity from the raw payload. Providers
// that redeliver byte-identical payloads are deduplicated without any
// parsing; providers that mutate metadata between retries should supply
// their event id via WithEventID.
func contentHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Process runs the full delivery pipeline: verify the signature, suppress
// duplicates, invoke the business logic, record the delivery as processed.
//
// The only error Process returns is ErrInvalidSignature. Everything after a
// valid signature is absorbed into the Result so the transport layer
// acknowledges: a duplicate reports Result.Duplicate, a business logic
// failure is logged and surfaced in Result.HandlerErr, and an idempotency
// store outage (on read or on the best-effort mark after success) degrades
// to processing the delivery.
func (p *Processor) Process(ctx context.Context, payload []byte, signature string, handle HandlerFunc) (Result, error) {
	start := time.Now()
	result := Result{
		Provider:   p.provider,
		DeliveryID: uuid.New().String(),
	}

	if !VerifySignature(payload, signature, p.secret) {
		p.log.WarnContext(ctx, "webhook signature rejected",
			slog.String("provider", p.provider),
			slog.String("delivery_id", result.DeliveryID),
			slog.Int("payload_bytes", len(payload)))
		result.Duration = time.Since(start)
		return result, ErrInvalidSignature
	}

	result.EventID = p.eventID(payload)

	if p.idem != nil && result.EventID != "" {
		seen, err := p.idem.Seen(ctx, p.idemKey(result.EventID))
		switch {
		case err != nil:
			p.log.WarnContext(ctx, "idempotency check failed, processing delivery anyway",
				slog.String("provider", p.provider),
				slog.String("event_id", result.EventID),
				slog.Any("error", err))
		case seen:
			result.Duplicate = true
			result.Duration = time.Since(start)
			p.log.InfoContext(ctx, "duplicate webhook delivery suppressed",
				slog.String("provider", p.provider),
				slog.String("event_id", result.EventID),
				slog.String("delivery_id", result.DeliveryID))
			return result, nil
		}
	}

	if handle != nil {
		if err := handle(ctx, payload); err != nil {
			// Surfaced here and in the Result; the transport still acks so
			// the provider does not retry-storm an endpoint whose side
			// effects may have partially applied.
			p.log.ErrorContext(ctx, "webhook handler failed",
				slog.String("provider", p.provider),
				slog.String("event_id", result.EventID),
				slog.String("delivery_id", result.DeliveryID),
				slog.Any("error", err))
			result.HandlerErr = err
			result.Duration = time.Since(start)
			return result, nil
		}
	}

	if p.idem != nil && result.EventID != "" {
		if err := p.idem.MarkProcessed(ctx, p.idemKey(result.EventID), p.idemTTL); err != nil {
			// Best-effort: a failed mark must not mask a successful outcome.
			p.log.WarnContext(ctx, "failed to record processed delivery",
				slog.String("provider", p.provider),
				slog.String("event_id", result.EventID),
				slog.Any("error", err))
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (p *Processor) idemKey(eventID string) string {
	return p.provider + ":" + eventID
}
