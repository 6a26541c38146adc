package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrWorkersStopped is returned by RunPool when every worker exited while
// the context was still live, e.g. after the broker connection dropped.
var ErrWorkersStopped = errors.New("all workers stopped")

// RunPool runs count workers and blocks until all of them return. It
// returns nil on cancellation of ctx and ErrWorkersStopped otherwise.
func RunPool(ctx context.Context, count int, run func(ctx context.Context, id int) error) error {
	var wg sync.WaitGroup
	for i := 1; i <= count; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := run(ctx, id); err != nil {
				logrus.WithError(err).Errorf("Worker %d stopped", id)
			}
		}(i)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil
	}
	return ErrWorkersStopped
}
