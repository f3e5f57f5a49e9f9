package telemetry

// Collector divides simulated time into fixed stats windows and counts the
// physics steps and frames run inside the current window.
type Collector struct {
	windowSec   float64
	windowStart float64

	steps  int
	frames int
}

// NewCollector creates a collector with windows of windowSec simulated
// seconds. A non-positive window flushes on every frame.
func NewCollector(windowSec float64) *Collector {
	if windowSec < 0 {
		windowSec = 0
	}
	return &Collector{windowSec: windowSec}
}

// RecordFrame counts a frame that ran the given number of steps.
func (c *Collector) RecordFrame(steps int) {
	c.frames++
	c.steps += steps
}

// ShouldFlush reports whether the window ending at simTime is complete.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return c.frames > 0 && simTime-c.windowStart >= c.windowSec
}

// Window summarizes one closed stats window.
type Window struct {
	Start, End float64
	Steps      int
	Frames     int
}

// Flush closes the current window at simTime and starts the next one.
func (c *Collector) Flush(simTime float64) Window {
	w := Window{
		Start:  c.windowStart,
		End:    simTime,
		Steps:  c.steps,
		Frames: c.frames,
	}
	c.windowStart = simTime
	c.steps = 0
	c.frames = 0
	return w
}

// WindowSeconds returns the configured window length.
func (c *Collector) WindowSeconds() float64 {
	return c.windowSec
}
