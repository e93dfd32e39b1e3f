package bitrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var reelBounds = Bounds{MinKbps: 4000, MaxKbps: 12000}

func TestPlan(t *testing.T) {
	tests := []struct {
		name        string
		durationSec float64
		ceilingMB   int
		want        int
	}{
		{
			// 95MB over 60s = 12666 kbps total, minus audio, floored,
			// clamped to the 12000 max.
			name:        "short clip hits quality ceiling",
			durationSec: 60,
			ceilingMB:   95,
			want:        12000,
		},
		{
			// 95*8000/100 = 7600 - 192 = 7408 -> 7400.
			name:        "mid length lands in range",
			durationSec: 100,
			ceilingMB:   95,
			want:        7400,
		},
		{
			// 95*8000/180 = 4222 - 192 = 4030 -> 4000.
			name:        "result floored to 100 kbps step",
			durationSec: 180,
			ceilingMB:   95,
			want:        4000,
		},
		{
			// Budget below min, but 4000+192 kbps over 190s is ~99.6MB,
			// still under the 100MB hard cap: min quality wins.
			name:        "min quality fits under hard cap",
			durationSec: 190,
			ceilingMB:   95,
			want:        4000,
		},
		{
			// 600s: min quality would be ~314MB, way past the cap, and the
			// clip is long-form, so replan at 85MB: 85*8000/600 = 1133 - 192
			// -> 900, lifted to the 2000 floor.
			name:        "long form degrades to quality floor",
			durationSec: 600,
			ceilingMB:   95,
			want:        2000,
		},
		{
			// 400s long-form: 85*8000/400 = 1700 - 192 -> 1500, floor 2000.
			name:        "long form relaxed plan below floor",
			durationSec: 400,
			ceilingMB:   95,
			want:        2000,
		},
		{
			name:        "zero duration treated as one second",
			durationSec: 0,
			ceilingMB:   95,
			want:        12000,
		},
		{
			name:        "negative duration treated as one second",
			durationSec: -5,
			ceilingMB:   95,
			want:        12000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.durationSec, tt.ceilingMB, reelBounds, DefaultPolicy)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanModerateOverlengthHoldsFloor(t *testing.T) {
	// 250s with an 8MB ceiling: budget is 64 kbps, min quality would blow
	// the hard cap, and the clip is under the long-form threshold. The
	// planner holds the floor and relies on the post-encode size check.
	p := DefaultPolicy
	p.HardCapMB = 10
	got := Plan(250, 8, Bounds{MinKbps: 1000, MaxKbps: 6000}, p)
	assert.Equal(t, p.FloorKbps, got)
}

// Longer clips never get a higher bitrate than shorter ones.
func TestPlanMonotonicInDuration(t *testing.T) {
	prev := 1 << 30
	for d := 1.0; d <= 1200; d += 1.0 {
		got := Plan(d, 95, reelBounds, DefaultPolicy)
		if got > prev {
			t.Fatalf("Plan not monotonic: duration=%v got=%d prev=%d", d, got, prev)
		}
		prev = got
	}
}

// Whenever the budget covers the minimum quality, the result stays in range.
func TestPlanRespectsBounds(t *testing.T) {
	for d := 1.0; d <= 600; d += 0.5 {
		got := Plan(d, 95, reelBounds, DefaultPolicy)
		if got >= reelBounds.MinKbps {
			assert.LessOrEqual(t, got, reelBounds.MaxKbps)
		}
	}
}

func TestEstimateMB(t *testing.T) {
	// 8000+192 kbps over 100s = 102.4MB.
	assert.InDelta(t, 102.4, EstimateMB(100, 8000, DefaultPolicy), 0.01)
	assert.Greater(t, EstimateMB(0, 8000, DefaultPolicy), 0.0)
}
