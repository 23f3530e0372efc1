package runners

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Executor runs tasks asynchronously.
type Executor interface {
	Execute(task func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(task func())

func (f ExecutorFunc) Execute(task func()) { f(task) }

// Pool is an Executor that runs at most a fixed number of tasks at once. Tasks that cannot start
// right away wait in an unbounded queue and start in submission order. A Pool has no idle
// workers: each worker goroutine exits as soon as it finds the queue empty, so an unused Pool
// holds no resources and needs no shutdown.
type Pool struct {
	workers *semaphore.Weighted
	queue   []func()
	lock    sync.Mutex
}

// NewPool creates a Pool that runs up to size tasks concurrently. It panics if size is not positive.
func NewPool(size int) *Pool {
	if size <= 0 {
		panic(fmt.Errorf("pool size must be positive, was %d", size))
	}
	return &Pool{workers: semaphore.NewWeighted(int64(size))}
}

func (p *Pool) Execute(task func()) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.queue = append(p.queue, task)
	if p.workers.TryAcquire(1) {
		go p.work()
	}
}

func (p *Pool) work() {
	for {
		p.lock.Lock()
		if len(p.queue) == 0 {
			// released under the lock, so Execute never queues a task with no worker to take it
			p.workers.Release(1)
			p.lock.Unlock()
			return
		}
		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.lock.Unlock()
		task()
	}
}

var sharedPool = sync.OnceValue(func() *Pool { //nolint:gochecknoglobals
	return NewPool(runtime.NumCPU())
})

// SharedPool returns the process-wide Pool used by Concurrent, sized to the number of CPUs. It is
// created the first time it is needed.
func SharedPool() *Pool {
	return sharedPool()
}
