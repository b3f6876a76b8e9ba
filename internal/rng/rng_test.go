package rng

import "testing"

func TestRand_IntInclusive(t *testing.T) {
	r := NewRand(1)
	sawMin, sawMax := false, false
	for i := 0; i < 5000; i++ {
		v := r.Int(2, 8)
		if v < 2 || v > 8 {
			t.Fatalf("Int(2,8) returned %d", v)
		}
		if v == 2 {
			sawMin = true
		}
		if v == 8 {
			sawMax = true
		}
	}
	if !sawMin || !sawMax {
		t.Fatalf("expected both endpoints to be drawn (min=%v max=%v)", sawMin, sawMax)
	}
}

func TestRand_FloatInRange(t *testing.T) {
	r := NewRand(2)
	for i := 0; i < 5000; i++ {
		v := r.Float(-0.4, 0.4)
		if v < -0.4 || v > 0.4 {
			t.Fatalf("Float(-0.4,0.4) returned %f", v)
		}
	}
}

func TestLerp_ReachesBothEndpoints(t *testing.T) {
	cases := [][2]float32{{-0.4, 0.4}, {0.004, 0.009}, {0.3, 0.7}}
	for _, c := range cases {
		if v := lerp(c[0], c[1], 0); v != c[0] {
			t.Errorf("lerp(%v,%v,0) = %v", c[0], c[1], v)
		}
		if v := lerp(c[0], c[1], 1); v != c[1] {
			t.Errorf("lerp(%v,%v,1) = %v, want the upper bound", c[0], c[1], v)
		}
	}
}

func TestRand_DegenerateRange(t *testing.T) {
	r := NewRand(3)
	if v := r.Int(5, 5); v != 5 {
		t.Fatalf("Int(5,5) = %d", v)
	}
	if v := r.Float(1.5, 1.5); v != 1.5 {
		t.Fatalf("Float(1.5,1.5) = %f", v)
	}
}

func TestRand_SameSeedSameSequence(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 100; i++ {
		if a.Int(0, 999) != b.Int(0, 999) {
			t.Fatalf("sequences diverged at draw %d", i)
		}
		if a.Float(0, 1) != b.Float(0, 1) {
			t.Fatalf("float sequences diverged at draw %d", i)
		}
	}
}

func TestMinMax(t *testing.T) {
	var lo Source = Min{}
	var hi Source = Max{}
	if lo.Int(2, 8) != 2 || hi.Int(2, 8) != 8 {
		t.Fatal("Min/Max Int returned wrong endpoint")
	}
	if lo.Float(0.004, 0.009) != 0.004 || hi.Float(0.004, 0.009) != 0.009 {
		t.Fatal("Min/Max Float returned wrong endpoint")
	}
}

func TestScript_ReplaysThenFallsBack(t *testing.T) {
	s := &Script{Ints: []int{3, 100}, Floats: []float32{0.5}}
	if v := s.Int(0, 5); v != 3 {
		t.Fatalf("first scripted Int = %d, want 3", v)
	}
	if v := s.Int(0, 5); v != 5 {
		t.Fatalf("out-of-range scripted Int = %d, want clamp to 5", v)
	}
	if v := s.Int(1, 5); v != 1 {
		t.Fatalf("exhausted Int = %d, want min 1", v)
	}
	if v := s.Float(0, 1); v != 0.5 {
		t.Fatalf("scripted Float = %f", v)
	}
	if v := s.Float(0.25, 1); v != 0.25 {
		t.Fatalf("exhausted Float = %f", v)
	}
}
