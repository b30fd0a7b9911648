// Package job runs the dispatch batch on a cron schedule using River.
//
// River stores the periodic job in Postgres, so when several processes share
// a database the per-minute uniqueness of the dispatch job keeps them from
// starting the same batch twice.
//
//	m, err := job.NewManager(pool, runner,
//	    job.WithSchedule("*/15 * * * *"),
//	    job.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := m.Start(ctx); err != nil {
//	    return err
//	}
//	defer m.Stop(context.Background())
package job
