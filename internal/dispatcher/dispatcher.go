// Package dispatcher admits submissions onto a bounded pool of judge
// workers across four priority classes, deduplicating in-flight chal_ids.
package dispatcher

import (
	"context"
	"sync"

	"judgecore/internal/judgelog"
	"judgecore/internal/submission"
)

const priorityClasses = 4

// Callback receives a judged submission's results (or an error) once its
// worker goroutine finishes.
type Callback func(results []submission.Result, err error)

// Judger is anything capable of fully judging one submission; in
// production this is judgedriver.Driver.
type Judger interface {
	Judge(ctx context.Context, sub submission.Submission) ([]submission.Result, error)
}

type pending struct {
	sub submission.Submission
	cb  Callback
}

// Dispatcher is the single shared admission point for all incoming
// submissions, mirroring the original's class-level JudgeDispatcher state.
type Dispatcher struct {
	judger Judger
	maxCnt int

	mu      sync.Mutex
	cond    *sync.Cond
	queues  [priorityClasses][]pending
	inFlight map[int64]struct{}
	running int
}

// New builds a Dispatcher that admits up to maxConcurrent submissions at
// once (the two rejudge priority classes reserve one slot out of that cap).
func New(judger Judger, maxConcurrent int) *Dispatcher {
	d := &Dispatcher{
		judger:   judger,
		maxCnt:   maxConcurrent,
		inFlight: make(map[int64]struct{}),
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Enqueue admits sub into its priority queue unless its chal_id is already
// in flight, in which case it is silently dropped (the original's identical
// dedup behavior).
func (d *Dispatcher) Enqueue(ctx context.Context, sub submission.Submission, cb Callback) {
	d.mu.Lock()
	if _, dup := d.inFlight[sub.ChalID]; dup {
		d.mu.Unlock()
		judgelog.Warn(ctx, "duplicate chal_id rejected at admission")
		return
	}
	d.inFlight[sub.ChalID] = struct{}{}
	d.queues[sub.Pri] = append(d.queues[sub.Pri], pending{sub: sub, cb: cb})
	d.mu.Unlock()
	d.cond.Broadcast()
}

// Run drives the admission loop until ctx is cancelled. It should run in
// its own goroutine for the lifetime of the process.
func (d *Dispatcher) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		d.mu.Lock()
		d.cond.Broadcast()
		d.mu.Unlock()
		close(done)
	}()

	for {
		d.mu.Lock()
		for d.allEmptyLocked() && ctx.Err() == nil {
			d.cond.Wait()
		}
		if ctx.Err() != nil {
			d.mu.Unlock()
			return
		}
		d.admitPassLocked(ctx)
		d.mu.Unlock()
	}
}

func (d *Dispatcher) allEmptyLocked() bool {
	for _, q := range d.queues {
		if len(q) > 0 {
			return false
		}
	}
	return true
}

// admitPassLocked runs one admission pass over every non-empty queue,
// starting a worker goroutine per admitted submission while d.mu is held.
func (d *Dispatcher) admitPassLocked(ctx context.Context) {
	for idx := range d.queues {
		max := d.maxCnt
		if submission.Priority(idx) == submission.PriContestRejudge || submission.Priority(idx) == submission.PriNormalRejudge {
			max--
		}
		for len(d.queues[idx]) > 0 && d.running < max {
			item := d.queues[idx][0]
			d.queues[idx] = d.queues[idx][1:]
			d.running++
			go d.runOne(ctx, item)
		}
	}
}

func (d *Dispatcher) runOne(ctx context.Context, item pending) {
	results, err := d.judger.Judge(ctx, item.sub)

	d.mu.Lock()
	d.running--
	delete(d.inFlight, item.sub.ChalID)
	d.mu.Unlock()
	d.cond.Broadcast()

	item.cb(results, err)
}
