package ability

import (
	"context"
	"time"

	"github.com/emberfall-studios/skillforge/internal/clock"
	"github.com/emberfall-studios/skillforge/internal/logger"
)

// Driver advances the simulation clock in real time and runs the
// controller sweep once per second of game time. It is the only
// writer of the tick counter in production; tests drive SimClock
// directly and call TickAll themselves.
type Driver struct {
	clk        *clock.SystemClock
	controller *Controller
}

// NewDriver creates a tick driver over the given clock and controller
func NewDriver(clk *clock.SystemClock, controller *Controller) *Driver {
	return &Driver{clk: clk, controller: controller}
}

// Run ticks until the context is canceled. One tick every 50ms
// (20 ticks per second); the lifecycle sweep runs every 20th tick.
func (d *Driver) Run(ctx context.Context) {
	interval := time.Second / time.Duration(clock.TicksPerSecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info(LogMsgDriverStarted, "tick_interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info(LogMsgDriverStopped)
			return
		case <-ticker.C:
			now := d.clk.Advance(1)
			if now%clock.TicksPerSecond == 0 {
				d.controller.TickAll(ctx, now)
			}
		}
	}
}
