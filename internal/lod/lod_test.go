package lod

import (
	gomath "math"
	"testing"
)

func TestTierForEnds(t *testing.T) {
	tests := []struct {
		name        string
		distance    float32
		maxDistance float32
		want        Tier
	}{
		{"zero", 0, 50, MaxTier()},
		{"negative", -3, 50, MaxTier()},
		{"at max", 50, 50, CardOnly},
		{"beyond max", 500, 50, CardOnly},
		{"nan", float32(gomath.NaN()), 50, CardOnly},
		{"zero max", 1, 0, CardOnly},
		{"negative max", 1, -5, CardOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TierFor(tt.distance, tt.maxDistance); got != tt.want {
				t.Errorf("TierFor(%v, %v) = %+v, want %+v", tt.distance, tt.maxDistance, got, tt.want)
			}
		})
	}

	if CardOnly.StrandCount != 0 || CardOnly.ControlPointsPerStrand != 0 || CardOnly.TubeSegments != 0 {
		t.Errorf("CardOnly draws strands: %+v", CardOnly)
	}
}

func TestTierForMonotonic(t *testing.T) {
	const maxDistance = 40
	prev := TierFor(0, maxDistance)
	for i := 1; i <= 1000; i++ {
		d := float32(i) * maxDistance * 1.2 / 1000
		cur := TierFor(d, maxDistance)
		if cur.StrandCount > prev.StrandCount ||
			cur.ControlPointsPerStrand > prev.ControlPointsPerStrand ||
			cur.TubeSegments > prev.TubeSegments {
			t.Fatalf("quality increased at %v: %+v after %+v", d, cur, prev)
		}
		if prev.UseCardFallback && !cur.UseCardFallback {
			t.Fatalf("card fallback dropped at %v", d)
		}
		prev = cur
	}
}

func TestTierForScaleInvariant(t *testing.T) {
	for _, r := range []float32{0, 0.05, 0.2, 0.4, 0.6, 0.9, 1} {
		if a, b := TierFor(r*10, 10), TierFor(r*1000, 1000); a != b {
			t.Errorf("ratio %v: %+v vs %+v", r, a, b)
		}
	}
}

func TestSelectorFirstUpdateSnaps(t *testing.T) {
	s := NewSelector(DefaultConfig())
	if got := s.Update(1000, 0); got != CardOnly {
		t.Errorf("tier = %+v, want CardOnly", got)
	}
	if s.CardBlend() != 1 || s.Fading() {
		t.Errorf("blend = %v fading = %v, want snapped to card", s.CardBlend(), s.Fading())
	}
}

func TestSelectorHysteresis(t *testing.T) {
	cfg := Config{MaxDistance: 100, Margin: 0.05}
	s := NewSelector(cfg)

	near := s.Update(5, 0)
	if near != MaxTier() {
		t.Fatalf("start tier = %+v", near)
	}

	// Wobbling around the 0.10 edge inside the margin keeps the tier.
	for _, d := range []float32{9, 11, 14, 10, 12, 8} {
		if got := s.Update(d, 0.016); got != near {
			t.Fatalf("tier changed at %v: %+v", d, got)
		}
	}

	// Well past the edge it switches.
	far := s.Update(16, 0.016)
	if far == near {
		t.Fatal("tier did not change past the margin")
	}
	if far != TierFor(16, 100) {
		t.Errorf("tier = %+v, want %+v", far, TierFor(16, 100))
	}

	// Coming back needs to clear the margin on the other side too.
	if got := s.Update(7, 0.016); got != far {
		t.Errorf("tier changed inside the margin on the way back: %+v", got)
	}
	if got := s.Update(4, 0.016); got != near {
		t.Errorf("tier = %+v, want %+v", got, near)
	}
}

func TestSelectorJumpsSeveralBands(t *testing.T) {
	s := NewSelector(Config{MaxDistance: 100, Margin: 0.02})
	s.Update(0, 0)
	if got := s.Update(200, 0); got != CardOnly {
		t.Errorf("tier = %+v, want CardOnly", got)
	}
	if got := s.Update(0, 0); got != MaxTier() {
		t.Errorf("tier = %+v, want MaxTier", got)
	}
}

func TestSelectorFade(t *testing.T) {
	s := NewSelector(Config{MaxDistance: 100, Margin: 0.02, FadeDuration: 1})
	s.Update(0, 0)

	s.Update(200, 0)
	if !s.Fading() {
		t.Fatal("expected a fade toward the card")
	}

	prev := s.CardBlend()
	for range 9 {
		s.Update(200, 0.1)
		b := s.CardBlend()
		if b < prev || b > 1 {
			t.Fatalf("blend went from %v to %v", prev, b)
		}
		prev = b
	}
	if prev <= 0 || prev >= 1 {
		t.Errorf("mid-fade blend = %v", prev)
	}

	s.Update(200, 0.5)
	if s.CardBlend() != 1 || s.Fading() {
		t.Errorf("after fade blend = %v fading = %v", s.CardBlend(), s.Fading())
	}
}

func TestSelectorZeroFadeSnaps(t *testing.T) {
	s := NewSelector(Config{MaxDistance: 100})
	s.Update(0, 0)
	s.Update(200, 0)
	if s.CardBlend() != 1 || s.Fading() {
		t.Errorf("blend = %v fading = %v, want snapped", s.CardBlend(), s.Fading())
	}
}
