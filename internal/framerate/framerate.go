// Package framerate snaps measured frame rates to broadcast-standard
// constant rates and detects audio/video duration drift.
package framerate

import "math"

// Canonical constant frame rates, ordered. Phone cameras report slightly
// jittered values around these (e.g. 29.2 for a 29.97 sensor).
var canonicalRates = []float64{23.976, 24, 25, 29.97, 30, 60}

// snapTolerance is the maximum distance from a canonical rate at which the
// source rate is treated as jitter rather than an intentional rate. Phone
// VFR footage averages out as much as 0.8fps below its sensor rate, so the
// window is a full frame per second.
const snapTolerance = 1.0

// audioDriftTolerance is the maximum audio/video duration mismatch in
// seconds before the audio track must be re-timed.
const audioDriftTolerance = 0.1

// Normalize returns the constant frame rate a clip should be encoded at.
// Rates within snapTolerance of a canonical rate snap to it; anything
// further off is kept as-is, rounded to two decimals.
func Normalize(sourceFps float64) float64 {
	best := canonicalRates[0]
	bestDist := math.Abs(sourceFps - best)
	for _, r := range canonicalRates[1:] {
		if d := math.Abs(sourceFps - r); d < bestDist {
			best, bestDist = r, d
		}
	}
	if bestDist < snapTolerance {
		return best
	}
	return math.Round(sourceFps*100) / 100
}

// KeyframeInterval returns the GOP length for a rate: one keyframe per second.
func KeyframeInterval(fps float64) int {
	g := int(math.Round(fps))
	if g < 1 {
		g = 1
	}
	return g
}

// AudioNeedsResample reports whether the audio track drifted far enough from
// the video duration that it must be stretched or padded to match before
// final composition.
func AudioNeedsResample(videoDuration, audioDuration float64) bool {
	return math.Abs(videoDuration-audioDuration) > audioDriftTolerance
}
