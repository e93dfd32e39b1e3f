package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH int
		want                   Placement
	}{
		{
			name: "landscape into vertical canvas (letterbox)",
			srcW: 1920, srcH: 1080, dstW: 1080, dstH: 1920,
			want: Placement{ScaledWidth: 1080, ScaledHeight: 608, OffsetX: 0, OffsetY: 656},
		},
		{
			name: "portrait into vertical canvas (exact fit)",
			srcW: 1080, srcH: 1920, dstW: 1080, dstH: 1920,
			want: Placement{ScaledWidth: 1080, ScaledHeight: 1920, OffsetX: 0, OffsetY: 0},
		},
		{
			name: "square into vertical canvas",
			srcW: 1000, srcH: 1000, dstW: 1080, dstH: 1920,
			want: Placement{ScaledWidth: 1080, ScaledHeight: 1080, OffsetX: 0, OffsetY: 420},
		},
		{
			name: "matching aspect scales up",
			srcW: 540, srcH: 960, dstW: 1080, dstH: 1920,
			want: Placement{ScaledWidth: 1080, ScaledHeight: 1920, OffsetX: 0, OffsetY: 0},
		},
		{
			name: "narrow source pillarboxed",
			srcW: 500, srcH: 1920, dstW: 1080, dstH: 1920,
			want: Placement{ScaledWidth: 500, ScaledHeight: 1920, OffsetX: 290, OffsetY: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.srcW, tt.srcH, tt.dstW, tt.dstH)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The scaled frame must always fit inside the canvas and at least one axis
// must reach the canvas edge within a pixel of rounding.
func TestFitInvariants(t *testing.T) {
	sizes := []int{1, 2, 7, 99, 480, 608, 719, 720, 1080, 1081, 1920, 3840}
	for _, srcW := range sizes {
		for _, srcH := range sizes {
			for _, dstW := range sizes {
				for _, dstH := range sizes {
					p := Fit(srcW, srcH, dstW, dstH)
					if p.ScaledWidth > dstW || p.ScaledHeight > dstH {
						t.Fatalf("Fit(%d,%d,%d,%d) overflows canvas: %+v",
							srcW, srcH, dstW, dstH, p)
					}
					slackW := dstW - p.ScaledWidth
					slackH := dstH - p.ScaledHeight
					if slackW >= 2 && slackH >= 2 {
						t.Fatalf("Fit(%d,%d,%d,%d) wastes scale headroom: %+v",
							srcW, srcH, dstW, dstH, p)
					}
					if p.OffsetX < 0 || p.OffsetY < 0 {
						t.Fatalf("Fit(%d,%d,%d,%d) negative offset: %+v",
							srcW, srcH, dstW, dstH, p)
					}
				}
			}
		}
	}
}

func TestIsIdentity(t *testing.T) {
	assert.True(t, Fit(1080, 1920, 1080, 1920).IsIdentity(1080, 1920))
	assert.False(t, Fit(1920, 1080, 1080, 1920).IsIdentity(1080, 1920))
}
