// Package workqueue implements a work-stealing goroutine pool for
// CPU-bound tree traversals. The pool is created once, reused for any
// number of rounds, and shut down explicitly. Within a round each worker
// prefers its own queue and steals from a random victim when idle; a
// round ends when every unit (seeded or pushed mid-round) has been
// processed exactly once.
package workqueue

import (
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Queue is a reusable work-stealing pool over units of type U.
type Queue[U any] struct {
	name    string
	workers []*worker[U]
	quit    chan struct{}
	wg      sync.WaitGroup
	logger  *zap.Logger
}

// round is the shared state of one Run call. Each round owns its
// deques: a worker that has not yet noticed the previous round ending
// holds references only to that round's deques, so it can never pop a
// unit that belongs to the next round.
type round[U any] struct {
	proc    func(unit U, push func(U))
	pending atomic.Int64
	done    chan struct{}
	deques  []*deque[U]
}

type deque[U any] struct {
	mu    sync.Mutex
	items []U
}

type worker[U any] struct {
	index int
	queue *Queue[U]

	newRound chan *round[U]
	rng      *rand.Rand
}

// New starts a pool of the given thread count. The pool goroutines live
// until Shutdown.
func New[U any](name string, threads int, logger *zap.Logger) *Queue[U] {
	if threads < 1 {
		threads = 1
	}
	q := &Queue[U]{
		name:   name,
		quit:   make(chan struct{}),
		logger: logger,
	}
	for i := 0; i < threads; i++ {
		w := &worker[U]{
			index:    i,
			queue:    q,
			newRound: make(chan *round[U]),
			rng:      rand.New(rand.NewSource(int64(i) + 1)),
		}
		q.workers = append(q.workers, w)
		q.wg.Add(1)
		go w.run()
	}
	logger.Debug("workqueue started", zap.String("name", name), zap.Int("threads", threads))
	return q
}

// Threads returns the pool's worker count.
func (q *Queue[U]) Threads() int {
	return len(q.workers)
}

// Run executes one round: seeds are distributed across the workers, proc
// runs for every unit, and units pushed by proc join the same round. Run
// blocks until the round drains. Rounds must not overlap; the pool has a
// single owner.
func (q *Queue[U]) Run(seeds []U, proc func(unit U, push func(U))) {
	if len(seeds) == 0 {
		return
	}

	r := &round[U]{
		proc:   proc,
		done:   make(chan struct{}),
		deques: make([]*deque[U], len(q.workers)),
	}
	for i := range r.deques {
		r.deques[i] = &deque[U]{}
	}
	r.pending.Store(int64(len(seeds)))
	for i, seed := range seeds {
		r.deques[i%len(r.deques)].push(seed)
	}
	for _, w := range q.workers {
		w.newRound <- r
	}
	<-r.done
}

// Shutdown stops the pool's goroutines and waits for them to exit.
func (q *Queue[U]) Shutdown() {
	close(q.quit)
	q.wg.Wait()
	q.logger.Debug("workqueue stopped", zap.String("name", q.name))
}

func (w *worker[U]) run() {
	defer w.queue.wg.Done()
	for {
		select {
		case <-w.queue.quit:
			return
		case r := <-w.newRound:
			w.workRound(r)
		}
	}
}

func (w *worker[U]) workRound(r *round[U]) {
	own := r.deques[w.index]
	push := func(unit U) {
		r.pending.Add(1)
		own.push(unit)
	}
	for {
		if unit, ok := own.pop(); ok {
			process(r, unit, push)
			continue
		}
		if unit, ok := w.steal(r); ok {
			process(r, unit, push)
			continue
		}
		select {
		case <-r.done:
			return
		default:
			// Other workers still hold units we might steal.
			runtime.Gosched()
		}
	}
}

func process[U any](r *round[U], unit U, push func(U)) {
	r.proc(unit, push)
	if r.pending.Add(-1) == 0 {
		close(r.done)
	}
}

// push adds a unit to the bottom of the deque.
func (d *deque[U]) push(unit U) {
	d.mu.Lock()
	d.items = append(d.items, unit)
	d.mu.Unlock()
}

// pop takes from the bottom (LIFO keeps the walk cache-warm).
func (d *deque[U]) pop() (U, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var zero U
	if len(d.items) == 0 {
		return zero, false
	}
	unit := d.items[len(d.items)-1]
	d.items = d.items[:len(d.items)-1]
	return unit, true
}

// steal takes from the top of a random victim's deque in this round.
func (w *worker[U]) steal(r *round[U]) (U, bool) {
	var zero U
	if len(r.deques) == 1 {
		return zero, false
	}
	offset := w.rng.Intn(len(r.deques))
	for i := 0; i < len(r.deques); i++ {
		victim := (offset + i) % len(r.deques)
		if victim == w.index {
			continue
		}
		d := r.deques[victim]
		d.mu.Lock()
		if len(d.items) > 0 {
			unit := d.items[0]
			d.items = d.items[1:]
			d.mu.Unlock()
			return unit, true
		}
		d.mu.Unlock()
	}
	return zero, false
}
