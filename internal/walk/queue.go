package walk

import (
	"context"
	"sync"
)

// workQueue is an unbounded, thread-safe FIFO of pending directory jobs.
// Unlike a bounded channel, submitting to it never blocks the caller: a
// worker that discovers subdirectories can hand them off and immediately
// go back to pulling more work, instead of risking every worker being
// blocked on a full channel with nothing left to drain it.
type workQueue struct {
	mu          sync.Mutex
	cond        *sync.Cond
	items       []job
	outstanding int // submitted but not yet completed
}

func newWorkQueue() *workQueue {
	q := &workQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// submit enqueues a job. Callers must submit a directory's children before
// reporting that directory done, so outstanding never drops to zero while
// descendants are still being handed off.
func (q *workQueue) submit(j job) {
	q.mu.Lock()
	q.items = append(q.items, j)
	q.outstanding++
	q.mu.Unlock()
	q.cond.Signal()
}

// done marks one previously-submitted job complete.
func (q *workQueue) done() {
	q.mu.Lock()
	q.outstanding--
	if q.outstanding == 0 {
		q.cond.Broadcast()
	}
	q.mu.Unlock()
}

// next blocks until a job is ready, every outstanding job has completed, or
// ctx is done, whichever comes first. ok is false once there is no more
// work left or the walk has been cancelled.
func (q *workQueue) next(ctx context.Context) (j job, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && q.outstanding > 0 && ctx.Err() == nil {
		q.cond.Wait()
	}
	if ctx.Err() != nil || len(q.items) == 0 {
		return job{}, false
	}
	j, q.items = q.items[0], q.items[1:]
	return j, true
}

// watchCancel wakes every worker currently blocked in next as soon as ctx
// is done, since sync.Cond has no way to select on a context by itself.
// The returned stop func must be called once the walk finishes normally,
// to release the goroutine.
func (q *workQueue) watchCancel(ctx context.Context) (stop func()) {
	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		case <-stopped:
		}
	}()
	return func() { close(stopped) }
}
