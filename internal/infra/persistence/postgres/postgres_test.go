package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolWaitReport(t *testing.T) {
	prev := sql.DBStats{WaitCount: 10, WaitDuration: time.Second}

	tests := []struct {
		name       string
		cur        sql.DBStats
		wantWaited bool
		wantLevel  slog.Level
	}{
		{
			name: "no new waits",
			cur:  sql.DBStats{WaitCount: 10, WaitDuration: time.Second},
		},
		{
			name:       "short waits",
			cur:        sql.DBStats{WaitCount: 14, WaitDuration: time.Second + 40*time.Millisecond},
			wantWaited: true,
			wantLevel:  slog.LevelDebug,
		},
		{
			name:       "slow waits",
			cur:        sql.DBStats{WaitCount: 12, WaitDuration: time.Second + 200*time.Millisecond},
			wantWaited: true,
			wantLevel:  slog.LevelWarn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, attrs, waited := poolWaitReport(prev, tt.cur)

			assert.Equal(t, tt.wantWaited, waited)
			if !tt.wantWaited {
				assert.Empty(t, attrs)

				return
			}
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.cur.WaitCount-prev.WaitCount, attrs[0].Value.Int64())
		})
	}
}

func TestWatchPoolWaits_LogsUntilCancelled(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var calls atomic.Int64
	stats := func() sql.DBStats {
		n := calls.Add(1)

		return sql.DBStats{WaitCount: n, WaitDuration: time.Duration(n) * 100 * time.Millisecond}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watchPoolWaits(ctx, logger, stats, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-done

	assert.Contains(t, logs.String(), "Postgres pool wait")
	assert.Contains(t, logs.String(), "level=WARN")
}
