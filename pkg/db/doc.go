// Package db connects to the PostgreSQL case database with pgx.
//
// [Connect] builds a pgxpool from [Config] (loaded from DATABASE_* environment
// variables), retrying while the database comes up. [Healthcheck] and
// [Shutdown] plug the pool into readiness probes and shutdown hooks, and
// [WithTx] runs a function in a transaction.
//
//	pool, err := db.Connect(ctx, cfg.DB)
//	if err != nil {
//	    return err
//	}
//	app.New(
//	    app.WithReadinessCheck("postgres", db.Healthcheck(pool)),
//	    app.WithShutdownHook(db.Shutdown(pool)),
//	)
package db
