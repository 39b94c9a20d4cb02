// Package dispatch resolves batches of addresses across a pool of workers,
// each holding its own gazetteer connection.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
	"github.com/al-ius/aus-address-matcher/internal/match"
	"github.com/al-ius/aus-address-matcher/internal/normalize"
)

// Defaults for worker sizing.
const (
	DefaultMaxWorkers         = 8
	DefaultAddressesPerWorker = 20
)

// Config sizes the pool and configures each worker's matcher.
type Config struct {
	MaxWorkers         int
	AddressesPerWorker int
	Weights            *match.Weights
	Preprocessor       normalize.Preprocessor
}

// DefaultConfig returns the standard pool sizing with default weights.
func DefaultConfig() Config {
	return Config{
		MaxWorkers:         DefaultMaxWorkers,
		AddressesPerWorker: DefaultAddressesPerWorker,
		Weights:            match.DefaultWeights(),
	}
}

// BatchStats summarises a batch run.
type BatchStats struct {
	RunID       string        `json:"run_id"`
	Total       int           `json:"total"`
	Matched     int           `json:"matched"`
	NoStreets   int           `json:"no_streets"`
	NoAddresses int           `json:"no_addresses"`
	Failed      int           `json:"failed"`
	Workers     int           `json:"workers"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Add counts r.
func (s *BatchStats) Add(r match.Result) {
	switch r.Reason {
	case match.ReasonMatched:
		s.Matched++
	case match.ReasonNoCandidateStreets:
		s.NoStreets++
	case match.ReasonNoCandidateAddresses:
		s.NoAddresses++
	default:
		s.Failed++
	}
}

// Unresolved is the number of queued addresses with no result, which happens
// when a worker stops early.
func (s BatchStats) Unresolved() int {
	return s.Total - s.Matched - s.NoStreets - s.NoAddresses - s.Failed
}

// WorkerCount returns ceil(n/perWorker) capped at maxWorkers, and at least 1.
func WorkerCount(n, perWorker, maxWorkers int) int {
	if perWorker <= 0 {
		perWorker = DefaultAddressesPerWorker
	}
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	workers := (n + perWorker - 1) / perWorker
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// Dispatcher runs batches against stores produced by an Opener.
type Dispatcher struct {
	open gazetteer.Opener
	cfg  Config
	log  *zap.Logger
}

// New creates a dispatcher.
func New(open gazetteer.Opener, cfg Config, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = DefaultMaxWorkers
	}
	if cfg.AddressesPerWorker <= 0 {
		cfg.AddressesPerWorker = DefaultAddressesPerWorker
	}
	return &Dispatcher{open: open, cfg: cfg, log: log}
}

type job struct {
	seq     int
	address string
}

// Run resolves addresses and returns the results in arrival order with the
// batch summary. A single address bypasses the pool and runs with verbose
// diagnostics. The error joins the failures of every worker that stopped
// early; results from the other workers are still returned.
func (d *Dispatcher) Run(ctx context.Context, addresses []string) ([]match.Result, BatchStats, error) {
	runID := uuid.NewString()
	start := time.Now()
	stats := BatchStats{RunID: runID, Total: len(addresses)}
	log := d.log.With(zap.String("run_id", runID))

	if len(addresses) == 0 {
		return nil, stats, nil
	}

	var results []match.Result
	var err error
	if len(addresses) == 1 {
		stats.Workers = 1
		results, err = d.single(ctx, log, addresses[0])
	} else {
		stats.Workers = WorkerCount(len(addresses), d.cfg.AddressesPerWorker, d.cfg.MaxWorkers)
		results, err = d.pool(ctx, log, addresses, stats.Workers)
	}

	for _, r := range results {
		stats.Add(r)
	}
	stats.Elapsed = time.Since(start)

	log.Info("batch complete",
		zap.Int("total", stats.Total),
		zap.Int("matched", stats.Matched),
		zap.Int("absent", stats.NoStreets+stats.NoAddresses),
		zap.Int("failed", stats.Failed),
		zap.Int("unresolved", stats.Unresolved()),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return results, stats, err
}

func (d *Dispatcher) single(ctx context.Context, log *zap.Logger, address string) ([]match.Result, error) {
	store, err := d.open(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "dispatch: open store")
	}
	defer store.Close()

	r, err := d.matcher(store, log).Match(ctx, true, address)
	return []match.Result{r}, err
}

func (d *Dispatcher) pool(ctx context.Context, log *zap.Logger, addresses []string, workers int) ([]match.Result, error) {
	log.Info("starting workers", zap.Int("workers", workers), zap.Int("addresses", len(addresses)))

	work := make(chan job, len(addresses))
	for i, a := range addresses {
		work <- job{seq: i, address: a}
	}
	close(work)

	out := make(chan match.Result, len(addresses))

	var (
		mu   sync.Mutex
		errs []error
	)
	// No shared cancel context: a failed worker leaves its share of the queue
	// to the others, and every worker's error is reported, not just the first.
	var g errgroup.Group
	for id := 0; id < workers; id++ {
		g.Go(func() error {
			err := d.work(ctx, log.With(zap.Int("worker", id)), work, out)
			if err != nil {
				err = eris.Wrapf(err, "dispatch: worker %d", id)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return err
		})
	}
	// The first error is already in errs.
	_ = g.Wait()
	close(out)

	results := make([]match.Result, 0, len(addresses))
	for r := range out {
		results = append(results, r)
	}
	return results, errors.Join(errs...)
}

// work drains the queue on its own connection. A store error emits a failed
// result for that address and stops the worker.
func (d *Dispatcher) work(ctx context.Context, log *zap.Logger, work <-chan job, out chan<- match.Result) error {
	store, err := d.open(ctx)
	if err != nil {
		log.Error("open store failed", zap.Error(err))
		return err
	}
	defer store.Close()
	log.Info("worker started")

	m := d.matcher(store, log)
	var done int
	for j := range work {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := m.Match(ctx, false, j.address)
		r.Seq = j.seq
		out <- r
		done++
		if err != nil {
			log.Error("lookup failed, stopping worker", zap.String("input", j.address), zap.Error(err))
			return err
		}
	}
	log.Info("worker stopped", zap.Int("processed", done))
	return nil
}

func (d *Dispatcher) matcher(store gazetteer.Store, log *zap.Logger) *match.Matcher {
	return match.NewMatcher(store, log,
		match.WithWeights(d.cfg.Weights),
		match.WithPreprocessor(d.cfg.Preprocessor),
	)
}
