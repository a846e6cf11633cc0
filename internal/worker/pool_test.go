package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/dto"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

type countingHandler struct {
	mu    sync.Mutex
	calls int
	err   error
	seen  []json.RawMessage
}

func (h *countingHandler) Process(_ context.Context, payload json.RawMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	h.seen = append(h.seen, payload)
	return h.err
}

func (h *countingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func popRaw(t *testing.T, rdb *redis.Client, queue string) string {
	t.Helper()
	raw, err := rdb.RPop(context.Background(), queue).Result()
	require.NoError(t, err)
	return raw
}

func sampleAlert() dto.LowStockAlert {
	return dto.LowStockAlert{
		ProductID:     "4c8d3b7e-2f1a-4a5e-9d7c-1b2a3c4d5e6f",
		SKU:           "ELC-001",
		Name:          "Wireless Mouse",
		StockQuantity: decimal.RequireFromString("3"),
		ReorderLevel:  decimal.RequireFromString("5"),
		Unit:          "piece",
	}
}

func TestDispatcher_PublishLowStockEnqueuesJob(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, NewDispatcher(rdb).PublishLowStock(ctx, sampleAlert()))

	var job Job
	require.NoError(t, json.Unmarshal([]byte(popRaw(t, rdb, QueueLowStock)), &job))
	assert.Equal(t, JobTypeLowStock, job.Type)
	assert.Zero(t, job.Attempts)

	var alert dto.LowStockAlert
	require.NoError(t, json.Unmarshal(job.Payload, &alert))
	assert.Equal(t, "ELC-001", alert.SKU)
	assert.True(t, alert.StockQuantity.Equal(decimal.RequireFromString("3")))
}

func TestProcessJob_Success(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()
	h := &countingHandler{}

	require.NoError(t, NewDispatcher(rdb).PublishLowStock(ctx, sampleAlert()))
	processJob(ctx, rdb, &WorkerHandlers{LowStock: h}, QueueLowStock, popRaw(t, rdb, QueueLowStock))

	assert.Equal(t, 1, h.count())
	n, err := DLQLength(ctx, rdb, QueueLowStock)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcessJob_RequeuesThenDeadLetters(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()
	h := &countingHandler{err: errors.New("smtp unreachable")}
	handlers := &WorkerHandlers{LowStock: h}

	require.NoError(t, NewDispatcher(rdb).PublishLowStock(ctx, sampleAlert()))

	for i := 1; i < maxAttempts; i++ {
		processJob(ctx, rdb, handlers, QueueLowStock, popRaw(t, rdb, QueueLowStock))
		qlen, err := rdb.LLen(ctx, QueueLowStock).Result()
		require.NoError(t, err)
		require.EqualValues(t, 1, qlen, "failed job must be re-queued after attempt %d", i)
	}
	processJob(ctx, rdb, handlers, QueueLowStock, popRaw(t, rdb, QueueLowStock))

	assert.Equal(t, maxAttempts, h.count())
	qlen, err := rdb.LLen(ctx, QueueLowStock).Result()
	require.NoError(t, err)
	assert.Zero(t, qlen)

	entries, err := PeekDLQ(ctx, rdb, QueueLowStock, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, JobTypeLowStock, entries[0].JobType)
	assert.Equal(t, maxAttempts, entries[0].Attempts)
	assert.Equal(t, "smtp unreachable", entries[0].Reason)
	assert.False(t, entries[0].FailedAt.IsZero())
}

func TestProcessJob_UndecodableAndUnknownGoToDLQ(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()
	h := &countingHandler{}
	handlers := &WorkerHandlers{LowStock: h}

	processJob(ctx, rdb, handlers, QueueLowStock, "not json")
	processJob(ctx, rdb, handlers, QueueLowStock, `{"type":"mystery","payload":{}}`)

	assert.Zero(t, h.count())
	entries, err := PeekDLQ(ctx, rdb, QueueLowStock, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, "mystery", entries[0].JobType)
	assert.Equal(t, "unknown", entries[1].JobType)
	assert.JSONEq(t, `"not json"`, string(entries[1].Payload))
}

func TestStartWorkerPool_DrainsQueueAndStops(t *testing.T) {
	old := popTimeout
	popTimeout = 50 * time.Millisecond
	t.Cleanup(func() { popTimeout = old })

	rdb := newTestRedis(t)
	h := &countingHandler{}
	ctx, cancel := context.WithCancel(context.Background())

	d := NewDispatcher(rdb)
	for i := 0; i < 5; i++ {
		require.NoError(t, d.PublishLowStock(context.Background(), sampleAlert()))
	}

	wait := StartWorkerPool(ctx, rdb, &WorkerHandlers{LowStock: h}, 2)
	require.Eventually(t, func() bool { return h.count() == 5 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() { wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not stop after cancel")
	}
}

// popCounter counts BRPOP calls sent through a client.
type popCounter struct{ n atomic.Int64 }

func (h *popCounter) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *popCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "brpop" {
			h.n.Add(1)
		}
		return next(ctx, cmd)
	}
}

func (h *popCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestStartWorkerPool_BacksOffWhileRedisIsDown(t *testing.T) {
	oldBackoff, oldMax := errorBackoff, maxErrorBackoff
	errorBackoff, maxErrorBackoff = 100*time.Millisecond, 200*time.Millisecond
	t.Cleanup(func() { errorBackoff, maxErrorBackoff = oldBackoff, oldMax })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	pops := &popCounter{}
	rdb.AddHook(pops)
	mr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	wait := StartWorkerPool(ctx, rdb, &WorkerHandlers{LowStock: &countingHandler{}}, 1)
	time.Sleep(500 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() { wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop while backing off")
	}
	// 0, 100, 300 and 500ms at most; a busy loop would make thousands.
	assert.LessOrEqual(t, pops.n.Load(), int64(5))
	assert.GreaterOrEqual(t, pops.n.Load(), int64(1))
}

type fakeMailer struct {
	to, subject, body string
	err               error
}

func (m *fakeMailer) SendText(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

func TestLowStockWorker(t *testing.T) {
	payload, err := json.Marshal(sampleAlert())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("mails the configured address", func(t *testing.T) {
		m := &fakeMailer{}
		require.NoError(t, NewLowStockWorker(m, "stock@example.com").Process(ctx, payload))
		assert.Equal(t, "stock@example.com", m.to)
		assert.Contains(t, m.subject, "ELC-001")
		assert.Contains(t, m.body, "down to 3 piece")
	})

	t.Run("log only without mailer", func(t *testing.T) {
		assert.NoError(t, NewLowStockWorker(nil, "stock@example.com").Process(ctx, payload))
	})

	t.Run("mail failure is retried", func(t *testing.T) {
		m := &fakeMailer{err: errors.New("connection refused")}
		assert.Error(t, NewLowStockWorker(m, "stock@example.com").Process(ctx, payload))
	})

	t.Run("bad payload", func(t *testing.T) {
		assert.Error(t, NewLowStockWorker(nil, "").Process(ctx, json.RawMessage(`[]`)))
	})
}
