package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueLowStock = "jobs:low_stock"

	JobTypeLowStock = "low_stock"

	// maxAttempts is how often a job is tried before it goes to the DLQ.
	maxAttempts = 3
)

// popTimeout bounds each BRPOP so workers notice shutdown.
var popTimeout = 5 * time.Second

// A worker that cannot reach Redis waits errorBackoff, doubling up to
// maxErrorBackoff, before popping again.
var (
	errorBackoff    = time.Second
	maxErrorBackoff = 30 * time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// PublishLowStock pushes a low-stock alert job to Redis.
func (d *Dispatcher) PublishLowStock(ctx context.Context, alert dto.LowStockAlert) error {
	return d.enqueue(ctx, QueueLowStock, Job{Type: JobTypeLowStock}, alert)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue string, job Job, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job.Payload = data
	return pushJob(ctx, d.rdb, queue, job)
}

func pushJob(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// WorkerHandlers maps job types to their handlers. Wired in the composition
// root so handlers get the infrastructure they need.
type WorkerHandlers struct {
	LowStock Handler
}

func (h *WorkerHandlers) forType(jobType string) Handler {
	switch jobType {
	case JobTypeLowStock:
		return h.LowStock
	}
	return nil
}

// StartWorkerPool launches numWorkers goroutines consuming the job queues.
// Each goroutine blocks on BRPOP, so idle workers cost nothing when idle. The returned func
// waits for all workers to exit after ctx is cancelled.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) (wait func()) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, rdb, handlers, id)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
	return wg.Wait
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueLowStock}
	backoff := errorBackoff
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			result, err := rdb.BRPop(ctx, popTimeout, queues...).Result()
			switch {
			case err == nil:
				backoff = errorBackoff
			case errors.Is(err, redis.Nil), ctx.Err() != nil:
				continue // timeout or shutdown
			default:
				log.Warn().Err(err).Int("worker", id).Dur("retry_in", backoff).Msg("worker: queue unreachable")
				select {
				case <-ctx.Done():
				case <-time.After(backoff):
				}
				backoff = min(backoff*2, maxErrorBackoff)
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

// processJob runs one raw job. Failures are re-queued until maxAttempts, after
// which the job goes to the DLQ. Jobs that cannot be decoded or have no handler
// go to the DLQ straight away.
func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, queue, Job{Type: "unknown", Payload: rawJSON(raw)}, "undecodable job: "+err.Error())
		return
	}

	h := handlers.forType(job.Type)
	if h == nil {
		SendToDLQ(ctx, rdb, queue, job, fmt.Sprintf("no handler for job type %q", job.Type))
		return
	}

	job.Attempts++
	err := h.Process(ctx, job.Payload)
	if err == nil {
		log.Debug().Str("type", job.Type).Str("queue", queue).Msg("job processed")
		return
	}
	if job.Attempts >= maxAttempts {
		SendToDLQ(ctx, rdb, queue, job, err.Error())
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempts", job.Attempts).Msg("job failed, re-queued")
	if err := pushJob(ctx, rdb, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to re-queue job")
	}
}

// rawJSON keeps a payload as JSON, quoting it when it is not valid JSON.
func rawJSON(s string) json.RawMessage {
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	quoted, _ := json.Marshal(s)
	return quoted
}
