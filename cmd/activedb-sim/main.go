// Command activedb-sim generates a synthetic user table and replays skewed
// credential/increment traffic against it, kicking a priority-partitioned
// reorganization every few queries. It exists to exercise the store the
// way the reorganization engine expects to be used: many concurrent
// writers, one background sort.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	activedb "github.com/MasonSandau/ActiveDB"
	"github.com/MasonSandau/ActiveDB/engine"
	"github.com/MasonSandau/ActiveDB/snapshot"
)

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func main() {
	var (
		users         = flag.Int("users", 100_000, "number of users to generate")
		batch         = flag.Int("batch", 10_000, "users per generation batch")
		queries       = flag.Int("queries", 1_000_000, "number of queries to simulate")
		powerRatio    = flag.Float64("power-ratio", 0.75, "share of traffic hitting the power-user subset")
		reorgInterval = flag.Int("reorg-interval", 250_000, "queries between reorganization requests (0 = never)")
		partition     = flag.Int("partition", engine.DefaultPartitionSize, "partition size for partitioned reorganization")
		snapshotPath  = flag.String("snapshot", "", "snapshot file path (empty = in-memory only)")
		compress      = flag.Bool("compress", false, "zstd-compress the snapshot file")
		qps           = flag.Float64("qps", 0, "query rate limit (0 = unlimited)")
		verbose       = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := activedb.NewTextLogger(level)

	if err := run(logger, *users, *batch, *queries, *powerRatio, *reorgInterval, *partition, *snapshotPath, *compress, *qps); err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *activedb.Logger, users, batch, queries int, powerRatio float64, reorgInterval, partition int, snapshotPath string, compress bool, qps float64) error {
	ctx := context.Background()

	opts := []activedb.Option{
		activedb.WithLogger(logger),
		activedb.WithPartitionSize(partition),
	}
	if snapshotPath != "" {
		opts = append(opts, activedb.WithSnapshotStore(
			snapshot.NewFileStore(snapshotPath, func(o *snapshot.FileOptions) {
				o.Compress = compress
			}),
		))
	}

	db, err := activedb.Open(opts...)
	if err != nil {
		return err
	}

	logger.Info("generating users", "count", users, "batch", batch)
	start := time.Now()
	if err := generateUsers(db, "users", users, batch); err != nil {
		return err
	}
	logger.Info("users generated", "count", users, "elapsed", time.Since(start))

	logger.Info("simulating traffic", "queries", queries, "power_ratio", powerRatio)
	start = time.Now()
	if err := simulateTraffic(ctx, logger, db, "users", queries, powerRatio, reorgInterval, qps); err != nil {
		return err
	}
	logger.Info("traffic simulated", "queries", queries, "elapsed", time.Since(start))

	if snapshotPath != "" {
		if err := db.Save(ctx); err != nil {
			logger.Error("final save failed", "error", err)
		}
	}
	db.WaitForReorganization()

	m := db.Metrics()
	logger.Info("request latency", "avg", m.Request.Average(), "max", m.Request.Max, "samples", m.Request.Count)
	logger.Info("reorganization latency", "avg", m.Reorganization.Average(), "max", m.Reorganization.Max, "runs", m.Reorganization.Count)

	return db.Close()
}

// generateUsers bulk-inserts user_N rows in bounded parallel batches.
func generateUsers(db *activedb.DB, table string, users, batch int) error {
	if err := db.AddTable(table); err != nil {
		return err
	}

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for lo := 0; lo < users; lo += batch {
		lo := lo
		hi := min(lo+batch, users)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				row := engine.Row{
					"password":             randomPassword(16),
					engine.FieldQueryCount: 0,
				}
				if err := db.AddRow(table, fmt.Sprintf("user_%d", i), row); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// simulateTraffic replays credential lookups and counter increments with a
// skew toward a fixed power-user subset, requesting a partitioned
// reorganization every reorgInterval queries.
func simulateTraffic(ctx context.Context, logger *activedb.Logger, db *activedb.DB, table string, queries int, powerRatio float64, reorgInterval int, qps float64) error {
	keys, err := db.Keys(table)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		logger.Warn("no users to simulate traffic against")
		return nil
	}

	// A small random subset soaks up powerRatio of the traffic.
	power := make([]string, len(keys))
	copy(power, keys)
	rand.Shuffle(len(power), func(i, j int) { power[i], power[j] = power[j], power[i] })
	power = power[:max(1, int(float64(len(keys))*(1-powerRatio)))]

	limit := rate.Inf
	if qps > 0 {
		limit = rate.Limit(qps)
	}
	limiter := rate.NewLimiter(limit, 1)

	for i := 0; i < queries; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		if reorgInterval > 0 && i > 0 && i%reorgInterval == 0 {
			if err := db.ReorganizePartitioned(); err != nil {
				logger.Warn("reorganization request rejected", "error", err)
			}
		}

		key := keys[rand.Intn(len(keys))]
		if rand.Float64() < powerRatio {
			key = power[rand.Intn(len(power))]
		}

		start := time.Now()
		if _, err := db.Credential(table, key); err != nil {
			return err
		}
		if err := db.Increment(table, key); err != nil {
			return err
		}
		if d := time.Since(start); d > time.Millisecond {
			logger.Warn("slow query", "key", key, "elapsed", d)
		}
	}
	return nil
}

func randomPassword(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = passwordAlphabet[rand.Intn(len(passwordAlphabet))]
	}
	return string(b)
}
