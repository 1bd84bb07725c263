package dispatcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"judgecore/internal/submission"
)

type fakeJudger struct {
	mu      sync.Mutex
	started int
	release chan struct{}
}

func (f *fakeJudger) Judge(ctx context.Context, sub submission.Submission) ([]submission.Result, error) {
	f.mu.Lock()
	f.started++
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return []submission.Result{{}}, nil
}

func (f *fakeJudger) startedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestDispatcherRespectsMaxConcurrent(t *testing.T) {
	judger := &fakeJudger{release: make(chan struct{})}
	d := New(judger, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	var wg sync.WaitGroup
	for i := int64(1); i <= 3; i++ {
		wg.Add(1)
		d.Enqueue(ctx, submission.Submission{ChalID: i, Pri: submission.PriNormal}, func(results []submission.Result, err error) {
			wg.Done()
		})
	}

	waitFor(t, func() bool { return judger.startedCount() == 2 })
	time.Sleep(20 * time.Millisecond)
	if got := judger.startedCount(); got != 2 {
		t.Fatalf("started = %d, want 2 (max concurrent not respected)", got)
	}

	close(judger.release)
	wg.Wait()
	waitFor(t, func() bool { return judger.startedCount() == 3 })
}

func TestDispatcherDedupsInFlightChalID(t *testing.T) {
	judger := &fakeJudger{release: make(chan struct{})}
	close(judger.release)
	d := New(judger, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	done := make(chan struct{}, 2)
	cb := func(results []submission.Result, err error) { done <- struct{}{} }

	d.Enqueue(ctx, submission.Submission{ChalID: 7, Pri: submission.PriNormal}, cb)
	d.Enqueue(ctx, submission.Submission{ChalID: 7, Pri: submission.PriNormal}, cb)

	<-done
	select {
	case <-done:
		t.Fatal("duplicate chal_id should not have been admitted twice")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatcherReservesSlotAgainstRejudgeClasses(t *testing.T) {
	judger := &fakeJudger{release: make(chan struct{})}
	d := New(judger, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	admitted := make(chan struct{}, 1)
	d.Enqueue(ctx, submission.Submission{ChalID: 1, Pri: submission.PriNormalRejudge}, func(results []submission.Result, err error) {
		admitted <- struct{}{}
	})

	select {
	case <-admitted:
		t.Fatal("rejudge class should not consume the last reserved slot")
	case <-time.After(100 * time.Millisecond):
	}
	close(judger.release)
}
