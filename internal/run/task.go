package run

import "context"

// Task is the asynchronous form of a run: a single eventual completion or
// failure. The caller shows its busy indication until Done fires. The
// context is threaded through so a future cancellation token has somewhere
// to live, even though no cancellation is wired today.
type Task struct {
	done    chan struct{}
	outcome Outcome
	err     error
}

// Start launches the run in its own goroutine. Callers are responsible for
// not overlapping runs within one session; nothing here enforces it.
func (r *Runner) Start(ctx context.Context, p Params) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.outcome, t.err = r.Do(ctx, p)
	}()
	return t
}

// Done is closed exactly once, when the run completed or failed.
func (t *Task) Done() <-chan struct{} { return t.done }

// Result blocks until completion and returns the single outcome.
func (t *Task) Result() (Outcome, error) {
	<-t.done
	return t.outcome, t.err
}
