// Package geometry computes letterbox/pillarbox placement of a source frame
// inside a target frame without cropping.
package geometry

import "math"

// Placement describes how a scaled source frame sits inside a target canvas.
type Placement struct {
	ScaledWidth  int
	ScaledHeight int
	OffsetX      int
	OffsetY      int
}

// Fit scales (srcW, srcH) to fit entirely inside (dstW, dstH) preserving
// aspect ratio and centers the result. The smaller of the two candidate
// scale factors is always chosen so no content is lost; unused margin is
// left for the encoder to pad.
func Fit(srcW, srcH, dstW, dstH int) Placement {
	scale := math.Min(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))

	scaledW := int(math.Round(float64(srcW) * scale))
	scaledH := int(math.Round(float64(srcH) * scale))

	// Rounding can push a dimension one pixel past the canvas.
	if scaledW > dstW {
		scaledW = dstW
	}
	if scaledH > dstH {
		scaledH = dstH
	}

	return Placement{
		ScaledWidth:  scaledW,
		ScaledHeight: scaledH,
		OffsetX:      (dstW - scaledW) / 2,
		OffsetY:      (dstH - scaledH) / 2,
	}
}

// IsIdentity reports whether the placement fills the canvas exactly, meaning
// no padding is needed.
func (p Placement) IsIdentity(dstW, dstH int) bool {
	return p.ScaledWidth == dstW && p.ScaledHeight == dstH
}
