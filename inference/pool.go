package inference

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/Pravallika0730/medical-image-analyzer/model"
)

const (
	// DefaultPoolSize bounds how many inferences run concurrently.
	DefaultPoolSize = 4
	// DefaultAcquireTimeout bounds how long a request waits for a session.
	DefaultAcquireTimeout = 5 * time.Second
)

// PoolMetrics reports session pool usage counters.
type PoolMetrics struct {
	Size            int   `json:"pool_size"`
	InUse           int   `json:"sessions_in_use"`
	TotalAcquired   int64 `json:"total_acquired"`
	TotalReleased   int64 `json:"total_released"`
	AcquireFailures int64 `json:"acquire_failures"`
}

// sessionPool holds a fixed set of model sessions. Acquisition doubles
// as the admission policy: when all sessions are busy, callers queue and
// eventually time out instead of piling unbounded work onto the runtime.
type sessionPool struct {
	sessions       chan *session
	size           int
	acquireTimeout time.Duration

	mu      sync.Mutex
	closed  bool
	metrics PoolMetrics
}

func newSessionPool(modelPath string, m model.Model, size int, acquireTimeout time.Duration) (*sessionPool, error) {
	if size <= 0 {
		size = DefaultPoolSize
	}
	if acquireTimeout <= 0 {
		acquireTimeout = DefaultAcquireTimeout
	}

	pool := &sessionPool{
		sessions:       make(chan *session, size),
		size:           size,
		acquireTimeout: acquireTimeout,
	}
	pool.metrics.Size = size

	for i := 0; i < size; i++ {
		sess, err := newSession(modelPath, m)
		if err != nil {
			pool.close()
			return nil, errors.Wrapf(err, "initialize session %d", i)
		}
		pool.sessions <- sess
	}

	return pool, nil
}

// acquire checks a session out of the pool, waiting until one is free,
// the timeout elapses, or ctx is canceled.
func (p *sessionPool) acquire(ctx context.Context) (*session, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errors.New("session pool is closed")
	}
	p.mu.Unlock()

	timer := time.NewTimer(p.acquireTimeout)
	defer timer.Stop()

	select {
	case sess := <-p.sessions:
		p.mu.Lock()
		p.metrics.InUse++
		p.metrics.TotalAcquired++
		p.mu.Unlock()
		return sess, nil
	case <-timer.C:
		p.mu.Lock()
		p.metrics.AcquireFailures++
		p.mu.Unlock()
		return nil, ErrAcquireTimeout
	case <-ctx.Done():
		p.mu.Lock()
		p.metrics.AcquireFailures++
		p.mu.Unlock()
		return nil, ctx.Err()
	}
}

// release returns a session to the pool.
func (p *sessionPool) release(sess *session) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		sess.Close()
		return
	}
	p.metrics.InUse--
	p.metrics.TotalReleased++
	p.mu.Unlock()

	p.sessions <- sess
}

// close destroys all pooled sessions. Sessions currently checked out are
// destroyed when released.
func (p *sessionPool) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.sessions)
	for sess := range p.sessions {
		sess.Close()
	}
}

// Metrics returns a snapshot of the pool usage counters.
func (p *sessionPool) Metrics() PoolMetrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.metrics
}
