package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseForces)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDraw)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration")
	}
	if stats.PhaseAvg[PhaseForces] <= 0 {
		t.Error("expected forces phase to be tracked")
	}
	if stats.PhaseAvg[PhaseDraw] <= 0 {
		t.Error("expected draw phase to be tracked")
	}
	if stats.PhaseAvg[PhaseIntegrate] != 0 {
		t.Errorf("integrate phase never ran, got %v", stats.PhaseAvg[PhaseIntegrate])
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseIntegrate)
		time.Sleep(10 * time.Microsecond)
		pc.EndFrame()
	}

	if pc.Samples() != 5 {
		t.Errorf("expected window of 5 samples, got %d", pc.Samples())
	}
	stats := pc.Stats()
	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration after window filled")
	}
	if stats.FramesPerSecond <= 0 {
		t.Error("expected positive frames per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseEvents)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseDraw)
		time.Sleep(2 * time.Millisecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	fastPct := stats.PhasePct[PhaseEvents]
	slowPct := stats.PhasePct[PhaseDraw]

	if slowPct <= fastPct {
		t.Errorf("expected draw phase (%v%%) > events phase (%v%%)", slowPct, fastPct)
	}
	if slowPct > 100.0001 {
		t.Errorf("phase percentage above 100: %v", slowPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgFrameDuration != 0 || stats.FramesPerSecond != 0 {
		t.Errorf("expected zero stats for empty collector, got %+v", stats)
	}
}

func TestPerfCollector_PresentTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordPresent()
	time.Sleep(16 * time.Millisecond)
	pc.RecordPresent()

	stats := pc.Stats()

	if stats.FrameInterval < 15*time.Millisecond {
		t.Errorf("expected frame interval >= 15ms, got %v", stats.FrameInterval)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frames, got %v", stats.FPS)
	}
}

func TestPerfCollector_NoAllocs(t *testing.T) {
	pc := NewPerfCollector(60)

	allocs := testing.AllocsPerRun(100, func() {
		pc.StartFrame()
		pc.StartPhase(PhaseEvents)
		pc.StartPhase(PhaseForces)
		pc.StartPhase(PhaseIntegrate)
		pc.StartPhase(PhaseDraw)
		pc.StartPhase(PhaseTelemetry)
		pc.EndFrame()
	})
	if allocs != 0 {
		t.Errorf("expected no allocations per frame, got %v", allocs)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseIntegrate.String() != "integrate" {
		t.Errorf("got %q", PhaseIntegrate.String())
	}
	if Phase(99).String() != "Phase(99)" {
		t.Errorf("got %q", Phase(99).String())
	}
}

func TestPerfToCSV(t *testing.T) {
	s := PerfStats{AvgFrameDuration: 1500 * time.Microsecond}
	s.PhasePct[PhaseDraw] = 42

	row := s.ToCSV(3)
	if row.Window != 3 || row.AvgFrameUS != 1500 || row.DrawPct != 42 {
		t.Errorf("unexpected CSV row: %+v", row)
	}
}
