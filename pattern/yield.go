package pattern

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/stitchloft/seamline/internal/timeutil"
)

// yieldEvery is the element-count stride between yield points in the
// long per-element loops (feature extraction, assignment passes).
const yieldEvery = 4096

// checkpoint is the cooperative scheduling hook shared by all long-running
// stages. Each stage calls yield at its natural stride; yield hands the
// scheduler a chance to run other goroutines, then checks cancellation and
// the wall-clock budget. Yielding never changes algorithmic state: an
// invocation either runs to completion or fails with no partial result.
type checkpoint struct {
	ctx       context.Context
	clock     timeutil.Clock
	started   time.Time
	budget    time.Duration // 0 = no internal budget
	budgetErr error
}

// newCheckpoint creates a checkpoint for one invocation. budget of zero
// disables the internal wall-clock limit (the context deadline still
// applies); budgetErr is the sentinel reported when the budget expires.
func newCheckpoint(ctx context.Context, clock timeutil.Clock, budget time.Duration, budgetErr error) *checkpoint {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &checkpoint{
		ctx:       ctx,
		clock:     clock,
		started:   clock.Now(),
		budget:    budget,
		budgetErr: budgetErr,
	}
}

// yield gives the scheduler a turn and reports whether the invocation
// should abort: ErrCancelled on context cancellation, ErrTimeout on a
// context deadline, or the stage's budget error when the internal
// wall-clock budget is spent.
func (c *checkpoint) yield() error {
	runtime.Gosched()

	if err := c.ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	if c.budget > 0 && c.clock.Since(c.started) > c.budget {
		return fmt.Errorf("%w: exceeded %v", c.budgetErr, c.budget)
	}
	return nil
}
