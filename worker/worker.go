package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/groundcheck/oerror"
)

var workerQueue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	for {
		f, ok := <-workerQueue
		if !ok {
			return
		}
		_ = run(f)
	}
}

// run calls f. A panic is reported to sentry and returned as an error so the
// worker survives it.
func run(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			err = oerror.New("worker: task panicked: %v", r)
		}
	}()
	f()
	return nil
}

// Submit queues f on the worker pool. To be used by a function that may be
// CPU intensive.
func Submit(f func()) {
	workerQueue <- f
}

// Run executes every task on the worker pool and waits for all of them to
// finish. The returned slice holds, at the index of each task, the error of
// a task that panicked, or nil.
func Run(tasks []func()) []error {
	errs := make([]error, len(tasks))
	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, task := range tasks {
		Submit(func() {
			defer wg.Done()
			errs[i] = run(task)
		})
	}
	wg.Wait()
	return errs
}
