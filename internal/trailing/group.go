package trailing

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunAll runs several monitors concurrently, one goroutine each. Monitors
// stay fully independent: a failure in one does not stop the others (the
// group carries no shared cancellation), it only surfaces as the returned
// error once every monitor has wound down. Each result is delivered to
// onResult from the monitor's own goroutine.
func RunAll(ctx context.Context, onResult func(Result), monitors ...*Monitor) error {
	var g errgroup.Group
	for _, m := range monitors {
		m := m
		g.Go(func() error {
			result, err := m.Run(ctx)
			if onResult != nil {
				onResult(result)
			}
			return err
		})
	}
	return g.Wait()
}
