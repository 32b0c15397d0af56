// Package redis wires Redis connectivity for the breaker health store and
// the webhook idempotency store.
//
// # Usage
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	healthStore := breaker.NewRedisStore(client)
//	seenStore := webhook.NewRedisIdempotencyStore(client)
package redis
