package database

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/database/graph"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/database/relational"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/output"
)

const defaultRecordInterval = 60 * time.Second

// Recorder orchestrates the persistence pipeline: Provider -> Flagger
// -> DuckDB, with an async push into the topology graph.
type Recorder struct {
	provider    datasource.SnapshotProvider
	flagger     output.SnapshotFlagger
	store       relational.SnapshotStore
	graphClient graph.GraphClient
	interval    time.Duration
	timeRange   datasource.TimeRange

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup
}

// NewRecorder creates a new recorder instance. The graph client is
// optional; everything else is required.
func NewRecorder(
	p datasource.SnapshotProvider,
	f output.SnapshotFlagger,
	s relational.SnapshotStore,
	g graph.GraphClient,
) (*Recorder, error) {
	if p == nil || f == nil || s == nil {
		return nil, errors.New("provider, flagger, and store are required")
	}
	return &Recorder{
		provider:    p,
		flagger:     f,
		store:       s,
		graphClient: g,
		interval:    defaultRecordInterval,
		timeRange:   datasource.Range7D,
	}, nil
}

// SetInterval overrides the recording period. Only effective before
// Start.
func (w *Recorder) SetInterval(d time.Duration) {
	if d > 0 {
		w.interval = d
	}
}

// Start begins the periodic recording loop.
func (w *Recorder) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("recorder already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

// Stop gracefully stops the recorder.
func (w *Recorder) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.running = false
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()

	// Reset graph data on stop (ephemeral session)
	if w.graphClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		w.graphClient.Reset(ctx)
		w.graphClient.Close(ctx)
	}
}

// PullOnce executes a single record cycle immediately.
func (w *Recorder) PullOnce(ctx context.Context) error {
	return w.execute(ctx)
}

func (w *Recorder) loop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.execute(ctx); err != nil {
				log.Printf("recorder cycle failed: %v", err)
			}
		}
	}
}

func (w *Recorder) execute(ctx context.Context) error {
	payload, err := output.RunPipeline(ctx, w.provider, w.flagger, w.timeRange)
	if err != nil {
		return err
	}

	if _, err := w.store.InsertSnapshot(ctx, payload); err != nil {
		return err
	}

	// Push to the graph asynchronously. A detached context with a
	// timeout lets an in-flight push finish even when the loop stops.
	if w.graphClient != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			pushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := w.graphClient.IngestSnapshot(pushCtx, payload); err != nil {
				log.Printf("graph ingest failed: %v", err)
			}
		}()
	}

	return nil
}
