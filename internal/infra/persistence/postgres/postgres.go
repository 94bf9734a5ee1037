package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"mycv/config"
	"mycv/internal/domain/lifecycle"
	"mycv/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	poolCheckInterval      = 5 * time.Second
	poolSlowWaitThreshold  = 50 * time.Millisecond
	poolStatsCollectorName = "mycv"
)

type Params struct {
	fx.In
	fx.Lifecycle

	Config     *config.Config
	Logger     *slog.Logger
	Registerer prometheus.Registerer
}

// New opens the connection pool and exports its stats to Prometheus. The start
// hook pings, migrates the schema and starts the pool wait watcher, so
// deliveries started later always see an up-to-date schema.
func New(params Params) (*gorm.DB, error) {
	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	// Writes that span tables go through txManager.Execute; single statements
	// need no implicit transaction.
	db = db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	if err := params.Registerer.Register(collectors.NewDBStatsCollector(sqlDB, poolStatsCollectorName)); err != nil {
		return nil, errors.Wrap(err, "register PostgreSQL pool collector")
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}
			if err := Migrate(ctx, sqlDB); err != nil {
				return err
			}
			params.Logger.InfoContext(ctx, "Postgres schema up to date")

			go watchPoolWaits(watchCtx, params.Logger, sqlDB.Stats, poolCheckInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			stopWatch()

			return sqlDB.Close()
		},
	})

	return db, nil
}

// watchPoolWaits logs whenever callers had to wait for a pooled connection
// since the previous tick. Totals are on /metrics; the log line gives the
// delta next to the request logs that caused it.
func watchPoolWaits(ctx context.Context, logger *slog.Logger, stats func() sql.DBStats, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := stats()
			if level, attrs, waited := poolWaitReport(prev, cur); waited {
				logger.LogAttrs(ctx, level, "Postgres pool wait", attrs...)
			}
			prev = cur
		}
	}
}

// poolWaitReport compares two pool snapshots. waited is false when no caller
// waited in between. Average waits at or above poolSlowWaitThreshold are warnings.
func poolWaitReport(prev, cur sql.DBStats) (level slog.Level, attrs []slog.Attr, waited bool) {
	waits := cur.WaitCount - prev.WaitCount
	if waits <= 0 {
		return slog.LevelDebug, nil, false
	}

	waited = true
	total := cur.WaitDuration - prev.WaitDuration
	avg := total / time.Duration(waits)

	level = slog.LevelDebug
	if avg >= poolSlowWaitThreshold {
		level = slog.LevelWarn
	}

	attrs = []slog.Attr{
		slog.Int64("waits", waits),
		slog.Duration("wait_total", total),
		slog.Duration("wait_avg", avg),
		slog.Int("in_use", cur.InUse),
		slog.Int("idle", cur.Idle),
		slog.Int("max_open", cur.MaxOpenConnections),
	}

	return level, attrs, waited
}
