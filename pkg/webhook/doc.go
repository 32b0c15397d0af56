// Package webhook receives and authenticates inbound webhook deliveries from
// external financial providers, collapsing provider-side redeliveries into a
// single effect.
//
// Providers push account, transaction, and transfer events to the
// aggregation backend and retry aggressively on anything but a success
// acknowledgment. This package therefore follows two hard rules:
//
//  1. The HMAC signature is the sole gate: nothing is parsed, looked up, or
//     executed before the raw payload authenticates.
//  2. Once the signature is valid, the transport acknowledgment is always a
//     success, even when downstream processing fails. Side effects may have
//     partially applied, and a retry storm against such an endpoint does
//     more damage than a logged failure.
//
// # Signature Verification
//
// Signatures are the lowercase hex HMAC-SHA256 of the exact raw payload:
//
//	if !webhook.VerifySignature(body, r.Header.Get("X-Webhook-Signature"), secret) {
//	    // 401, nothing else happened
//	}
//
// Verification uses a constant-time comparison and never returns an error:
// an empty secret, an empty signature, or a malformed hex string all simply
// fail closed.
//
// # Processing and Idempotency
//
//	processor := webhook.NewProcessor("plaid", secret,
//	    webhook.WithIdempotencyStore(store),
//	)
//
//	result, err := processor.Process(ctx, body, signature, func(ctx context.Context, payload []byte) error {
//	    return ingestTransactions(ctx, payload)
//	})
//	resp := webhook.NewResponse(result, err)
//
// With an idempotency store configured, each delivery's identity (a payload
// content hash by default, or a provider-supplied event id via WithEventID)
// is recorded after successful processing; redeliveries inside the retention
// window skip the business logic and acknowledge as duplicates. The store is
// optional and its outage degrades to processing every delivery: an
// occasional duplicate side effect beats dropping a delivery.
//
// # HTTP Transport
//
// Handler adapts a Processor to net/http; Router mounts one endpoint per
// provider on a chi router:
//
//	r := webhook.Router(map[string]webhook.Endpoint{
//	    "plaid":  {Processor: plaidProc, Handle: ingestPlaid},
//	    "kraken": {Processor: krakenProc, Handle: ingestKraken},
//	})
//	http.ListenAndServe(":8080", r)
//
// Processing has no enforced timeout of its own; wrap the business logic in
// pkg/deadline when bounded latency is required.
package webhook
