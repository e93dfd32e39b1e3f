// Package bitrate computes size-constrained video bitrates. Given a clip
// duration and a platform's file-size ceiling it picks the highest bitrate
// that fits, degrading in stages for clips too long to encode at the
// platform's minimum acceptable quality.
package bitrate

// Bounds holds a platform's acceptable video bitrate range in kbps.
type Bounds struct {
	MinKbps int
	MaxKbps int
}

// Policy carries the degradation parameters used when a clip cannot reach
// MinKbps within the soft ceiling. HardCapMB is the platform's absolute
// limit (always >= the soft ceiling used for planning headroom).
type Policy struct {
	HardCapMB   int
	RelaxedMB   int     // replanning target for long-form clips
	LongFormSec float64 // duration beyond which RelaxedMB applies
	FloorKbps   int     // lowest quality ever emitted
	AudioKbps   int
}

// DefaultPolicy mirrors the degradation ladder used for the capped vertical
// targets: 100MB absolute limit, 85MB relaxed target past five minutes, and
// a 2000 kbps floor.
var DefaultPolicy = Policy{
	HardCapMB:   100,
	RelaxedMB:   85,
	LongFormSec: 300,
	FloorKbps:   2000,
	AudioKbps:   192,
}

// Plan returns the target video bitrate in kbps for a clip of the given
// duration that should come out at or under ceilingMB, clamped to b when
// the budget allows. Rounds down to 100 kbps steps so rounding error never
// pushes the encode past the target.
func Plan(durationSec float64, ceilingMB int, b Bounds, p Policy) int {
	if durationSec <= 0 {
		durationSec = 1
	}

	avail := available(durationSec, ceilingMB, p.AudioKbps)

	if avail >= b.MinKbps {
		return clamp(avail, b.MinKbps, b.MaxKbps)
	}

	// Budget cannot reach minimum quality. If encoding at MinKbps would
	// still land under the hard cap, the soft ceiling was just conservative.
	if estimateMB(durationSec, b.MinKbps, p.AudioKbps) <= float64(p.HardCapMB) {
		return b.MinKbps
	}

	// Long-form clips replan against the relaxed target and accept visibly
	// lower quality rather than failing outright.
	if durationSec > p.LongFormSec {
		relaxed := available(durationSec, p.RelaxedMB, p.AudioKbps)
		if relaxed < p.FloorKbps {
			relaxed = p.FloorKbps
		}
		return relaxed
	}

	// Moderate overlength: hold the quality floor and let the empirical
	// size check catch any overshoot.
	if avail < p.FloorKbps {
		return p.FloorKbps
	}
	return avail
}

// EstimateMB returns the projected output size in MB for a clip encoded at
// videoKbps plus the policy's audio share.
func EstimateMB(durationSec float64, videoKbps int, p Policy) float64 {
	if durationSec <= 0 {
		durationSec = 1
	}
	totalKbps := float64(videoKbps + p.AudioKbps)
	return totalKbps * durationSec / 8 / 1000
}

// available converts a size budget to a video bitrate: total kbps for the
// ceiling minus the audio share, floored to the nearest 100 kbps.
func available(durationSec float64, ceilingMB, audioKbps int) int {
	totalKbps := float64(ceilingMB) * 8 * 1000 / durationSec
	videoKbps := int(totalKbps) - audioKbps
	return videoKbps / 100 * 100
}

func estimateMB(durationSec float64, videoKbps, audioKbps int) float64 {
	return float64(videoKbps+audioKbps) * durationSec / 8 / 1000
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
