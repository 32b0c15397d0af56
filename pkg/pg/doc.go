// Package pg wires PostgreSQL connectivity for the provider health store.
//
// It provides pool construction with retry, a health check closure for
// readiness endpoints, and goose-based schema migrations over pgx. The
// provider_health table consumed by the breaker package is created by the
// migrations under the migrations/ directory at the repository root.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    return err
//	}
//
//	store := breaker.NewPGStore(pool)
package pg
