package clock

import (
	"sync/atomic"
	"time"
)

// TicksPerSecond is the host simulation rate
const TicksPerSecond = 20

// DateKeyLayout formats calendar days for challenge rollover
const DateKeyLayout = "2006-01-02"

// TickSource supplies the monotonically increasing simulation tick.
// Cooldowns and ability windows are measured exclusively in ticks.
type TickSource interface {
	CurrentTick() int64
}

// WallClock supplies calendar time. Only the daily-challenge rollover
// reads it; tick-timed logic must never consult the wall clock.
type WallClock interface {
	Now() time.Time
	// DateKey returns the current UTC calendar day as YYYY-MM-DD
	DateKey() string
}

// Clock combines both time sources behind one dependency
type Clock interface {
	TickSource
	WallClock
}

// SystemClock is the production clock: wall time from the OS, tick
// count advanced by the fixed-rate driver loop.
type SystemClock struct {
	tick atomic.Int64
}

// NewSystemClock creates a SystemClock starting at tick 0
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Advance moves the tick counter forward by n steps and returns the
// new value. Called only by the simulation driver.
func (c *SystemClock) Advance(n int64) int64 {
	return c.tick.Add(n)
}

func (c *SystemClock) CurrentTick() int64 {
	return c.tick.Load()
}

func (c *SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func (c *SystemClock) DateKey() string {
	return c.Now().Format(DateKeyLayout)
}

// SimClock is a fully controllable clock for tests
type SimClock struct {
	tick atomic.Int64
	now  atomic.Value // time.Time
}

// NewSimClock creates a SimClock at the given wall time and tick 0
func NewSimClock(start time.Time) *SimClock {
	c := &SimClock{}
	c.now.Store(start.UTC())
	return c
}

// AdvanceTicks moves the tick counter and the wall clock together,
// keeping the two sources consistent at TicksPerSecond.
func (c *SimClock) AdvanceTicks(n int64) {
	c.tick.Add(n)
	c.now.Store(c.Now().Add(time.Duration(n) * time.Second / TicksPerSecond))
}

// SetDate jumps the wall clock to a new time without touching ticks.
// Used to simulate calendar rollover.
func (c *SimClock) SetDate(t time.Time) {
	c.now.Store(t.UTC())
}

func (c *SimClock) CurrentTick() int64 {
	return c.tick.Load()
}

func (c *SimClock) Now() time.Time {
	return c.now.Load().(time.Time)
}

func (c *SimClock) DateKey() string {
	return c.Now().Format(DateKeyLayout)
}
