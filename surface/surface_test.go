package surface

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	s := New(2)

	st := s.State()
	if !st.Degenerate() {
		t.Errorf("new surface should be degenerate, got %+v", st)
	}
	if st.DPR != 1 {
		t.Errorf("expected DPR 1, got %f", st.DPR)
	}
}

func TestResizeBackingStore(t *testing.T) {
	s := New(2)

	if !s.Resize(1000, 800, 1.5) {
		t.Fatal("expected resize to report a change")
	}
	st := s.State()
	if st.BackingWidth != 1500 || st.BackingHeight != 1200 {
		t.Errorf("expected backing 1500x1200, got %dx%d", st.BackingWidth, st.BackingHeight)
	}

	// Same geometry again is not a change
	if s.Resize(1000, 800, 1.5) {
		t.Error("identical resize should report no change")
	}
}

func TestResizeFloorsBacking(t *testing.T) {
	s := New(2)
	s.Resize(333, 101, 1.25)

	st := s.State()
	// 333*1.25 = 416.25, 101*1.25 = 126.25
	if st.BackingWidth != 416 || st.BackingHeight != 126 {
		t.Errorf("expected floored backing 416x126, got %dx%d", st.BackingWidth, st.BackingHeight)
	}
}

func TestClampDPR(t *testing.T) {
	testCases := []struct {
		name     string
		dpr, max float32
		want     float32
	}{
		{"within range", 1.5, 2, 1.5},
		{"above max", 3, 2, 2},
		{"below one", 0.5, 2, 1},
		{"zero", 0, 2, 1},
		{"nan", float32(math.NaN()), 2, 1},
		{"inf", float32(math.Inf(1)), 2, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampDPR(tc.dpr, tc.max); got != tc.want {
				t.Errorf("ClampDPR(%v, %v) = %v, want %v", tc.dpr, tc.max, got, tc.want)
			}
		})
	}
}

func TestResizeInvalidExtent(t *testing.T) {
	s := New(2)
	s.Resize(-10, float32(math.NaN()), 1)

	st := s.State()
	if st.Width != 0 || st.Height != 0 {
		t.Errorf("expected invalid extents to become zero, got %fx%f", st.Width, st.Height)
	}
	if !st.Degenerate() {
		t.Error("expected degenerate surface")
	}
	if st.BackingWidth != 0 || st.BackingHeight != 0 {
		t.Errorf("expected empty backing store, got %dx%d", st.BackingWidth, st.BackingHeight)
	}
}

func TestTransformRoundtrip(t *testing.T) {
	s := New(2)
	s.Resize(1280, 720, 2)
	tr := s.State().Transform()

	testCases := []struct{ x, y float32 }{
		{0, 0},
		{640, 360},
		{1279.5, 10.25},
	}

	for _, tc := range testCases {
		bx, by := tr.ToBacking(tc.x, tc.y)
		if bx != tc.x*2 || by != tc.y*2 {
			t.Errorf("ToBacking(%f,%f) = (%f,%f)", tc.x, tc.y, bx, by)
		}
		x, y := tr.ToLogical(bx, by)
		if math.Abs(float64(x-tc.x)) > 0.001 || math.Abs(float64(y-tc.y)) > 0.001 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)", tc.x, tc.y, bx, by, x, y)
		}
	}
}

func TestContains(t *testing.T) {
	s := New(2)
	s.Resize(400, 300, 1)
	st := s.State()

	if !st.Contains(0, 0) || !st.Contains(400, 300) {
		t.Error("edges should be on the surface")
	}
	if st.Contains(401, 10) || st.Contains(10, -0.5) {
		t.Error("points past the edges should be off the surface")
	}
}

func TestNewInvalidMax(t *testing.T) {
	s := New(0)
	if s.MaxDPR() != DefaultDPR {
		t.Errorf("expected default max DPR, got %f", s.MaxDPR())
	}
	s.Resize(100, 100, 4)
	if s.State().DPR != DefaultDPR {
		t.Errorf("expected DPR clamped to %f, got %f", DefaultDPR, s.State().DPR)
	}
}
