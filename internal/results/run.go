package results

import (
	"context"

	"munch/internal/nav"

	"golang.org/x/sync/errgroup"
)

// Run executes one full cycle for loc and waits for every lane. Lane failures
// never fail the run; they leave the lane empty.
func (b *Board) Run(ctx context.Context, loc nav.Location) []LaneState {
	cycle := b.Plan(ctx, loc)

	var g errgroup.Group
	for _, task := range cycle.Tasks {
		task := task
		g.Go(func() error {
			b.Complete(task.Run())
			return nil
		})
	}
	_ = g.Wait()

	b.Stop()
	return b.Snapshot()
}
