package telemetry

import "testing"

func TestCollector_Windows(t *testing.T) {
	c := NewCollector(1.0)

	if c.ShouldFlush(5) {
		t.Error("empty window should not flush")
	}

	c.RecordFrame(2)
	c.RecordFrame(3)
	if c.ShouldFlush(0.5) {
		t.Error("window flushed early")
	}
	if !c.ShouldFlush(1.0) {
		t.Fatal("expected window to close at 1s")
	}

	w := c.Flush(1.0)
	if w.Start != 0 || w.End != 1.0 || w.Steps != 5 || w.Frames != 2 {
		t.Errorf("unexpected window %+v", w)
	}

	c.RecordFrame(1)
	if c.ShouldFlush(1.5) {
		t.Error("second window flushed early")
	}
	w = c.Flush(2.0)
	if w.Start != 1.0 || w.Steps != 1 {
		t.Errorf("unexpected second window %+v", w)
	}
}

func TestCollector_ZeroWindow(t *testing.T) {
	c := NewCollector(-3)
	if c.WindowSeconds() != 0 {
		t.Errorf("expected negative window clamped to 0, got %v", c.WindowSeconds())
	}
	c.RecordFrame(0)
	if !c.ShouldFlush(0) {
		t.Error("zero window should flush every frame")
	}
}
