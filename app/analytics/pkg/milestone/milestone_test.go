package milestone

import (
	"testing"
)

func TestCompute_ZeroStreak(t *testing.T) {
	for _, p := range Compute(0, DefaultLadder) {
		if p.Percent != 0 || p.Completed {
			t.Errorf("Compute(0) rung %d = %+v, want 0%% not completed", p.Target, p)
		}
	}
}

func TestCompute_CapsAtHundred(t *testing.T) {
	got := Compute(150, []Milestone{{Target: 100, Label: "Wellness Master"}})
	if len(got) != 1 || got[0].Percent != 100 || !got[0].Completed {
		t.Errorf("Compute(150) = %+v, want 100%% completed", got)
	}
	for _, p := range Compute(1000, DefaultLadder) {
		if p.Percent != 100 || !p.Completed {
			t.Errorf("Compute(1000) rung %d = %+v, want 100%% completed", p.Target, p)
		}
	}
}

func TestCompute_Partial(t *testing.T) {
	got := Compute(15, DefaultLadder)
	want := []struct {
		percent   float64
		completed bool
	}{
		{100, true},
		{100, true},
		{50, false},
		{15, false},
	}
	for i, w := range want {
		if got[i].Percent != w.percent || got[i].Completed != w.completed {
			t.Errorf("Compute(15)[%d] = %+v, want %v%% completed=%v", i, got[i], w.percent, w.completed)
		}
	}
}

func TestCompute_NegativeAndInvalidTarget(t *testing.T) {
	got := Compute(-4, []Milestone{{Target: 3}, {Target: 0}})
	if got[0].Percent != 0 || got[0].Completed {
		t.Errorf("Compute(-4)[0] = %+v, want 0%%", got[0])
	}
	if got[1].Percent != 0 || got[1].Completed {
		t.Errorf("Compute(-4)[1] = %+v, want zero progress for invalid target", got[1])
	}
}

func TestNext(t *testing.T) {
	p, remaining, ok := Next(Compute(5, DefaultLadder), 5)
	if !ok || p.Target != 7 || remaining != 2 {
		t.Errorf("Next(5) = %+v %d %v, want target 7, 2 days", p, remaining, ok)
	}
	if _, _, ok := Next(Compute(100, DefaultLadder), 100); ok {
		t.Errorf("Next(100) ok = true, want false")
	}
}
