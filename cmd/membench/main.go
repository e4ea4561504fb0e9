// Command membench runs an allocation-churn workload against the
// arenakit slot map and reports throughput. With MEMBENCH_METRICS=true
// it also serves the memmetrics collectors on /metrics while running.
package main

import (
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/qvntm/arenakit/memmetrics"
	"github.com/qvntm/arenakit/slotmap"
)

// entity stands in for the kind of mid-lived simulation object the
// slot map is built for.
type entity struct {
	ID       uint64
	Position [3]float32
	Velocity [3]float32
	Health   int32
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		os.Stderr.WriteString("membench: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		os.Stderr.WriteString("membench: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	entities := slotmap.New[entity](slotmap.WithPageSize[entity](cfg.PageSize))

	if cfg.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(memmetrics.NewSlotMapCollector("membench_entities", entities.Stats))

		go func() {
			logger.Info("starting metrics server", zap.String("address", cfg.MetricsAddr))
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("starting churn workload",
		zap.Int("entities", cfg.Entities),
		zap.Int("iterations", cfg.Iterations),
		zap.Int("churn_percent", cfg.ChurnPercent),
		zap.Int("page_size", cfg.PageSize),
	)

	rng := rand.New(rand.NewSource(42))
	handles := make([]slotmap.Handle, 0, cfg.Entities)

	start := time.Now()

	// Initial population.
	for i := 0; i < cfg.Entities; i++ {
		handles = append(handles, entities.Add(entity{ID: uint64(i), Health: 100}))
	}

	var adds, removes, visits uint64
	adds = uint64(cfg.Entities)

	for iter := 0; iter < cfg.Iterations; iter++ {
		// Remove a churn-sized random subset, then refill. Removed
		// slots come back through the recycler, exercising generation
		// bumps on every reuse.
		churn := len(handles) * cfg.ChurnPercent / 100
		for i := 0; i < churn; i++ {
			j := rng.Intn(len(handles))
			if err := entities.Remove(handles[j]); err != nil {
				logger.Fatal("remove failed", zap.Error(err), zap.Uint32("index", handles[j].Index))
			}
			removes++
			handles[j] = handles[len(handles)-1]
			handles = handles[:len(handles)-1]
		}
		for i := 0; i < churn; i++ {
			handles = append(handles, entities.Add(entity{ID: rng.Uint64(), Health: 100}))
			adds++
		}

		// A simulation-style pass over every live entity.
		for v := range entities.Values() {
			v.Position[0] += v.Velocity[0]
			v.Position[1] += v.Velocity[1]
			v.Position[2] += v.Velocity[2]
			visits++
		}

		if (iter+1)%10 == 0 {
			logger.Debug("iteration complete",
				zap.Int("iteration", iter+1),
				zap.Int("live", entities.Len()),
			)
		}
	}

	elapsed := time.Since(start)
	stats := entities.Stats()
	logger.Info("workload complete",
		zap.Duration("elapsed", elapsed),
		zap.Uint64("adds", adds),
		zap.Uint64("removes", removes),
		zap.Uint64("visits", visits),
		zap.Int("live", stats.Live),
		zap.Int("slots", stats.Slots),
		zap.Float64("ops_per_sec", float64(adds+removes)/elapsed.Seconds()),
	)
}
