package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajlorans/amazon-review-automation/internal/geometry"
)

func verticalPlan() RenditionPlan {
	return RenditionPlan{
		InputPath:    "in.mp4",
		OutputPath:   "out.mp4",
		TargetWidth:  1080,
		TargetHeight: 1920,
		Placement:    geometry.Fit(1920, 1080, 1080, 1920),
		FrameRate:    29.97,
		KeyInt:       30,
		VideoKbps:    7400,
		AudioKbps:    192,
		Preset:       "medium",
		HasAudio:     true,
	}
}

func TestBuildOutputArgs(t *testing.T) {
	kwargs := buildOutputArgs(verticalPlan())

	assert.Equal(t, "libx264", kwargs["c:v"])
	assert.Equal(t, "7400k", kwargs["b:v"])
	assert.Equal(t, "7400k", kwargs["maxrate"])
	assert.Equal(t, "14800k", kwargs["bufsize"])
	assert.Equal(t, "aac", kwargs["c:a"])
	assert.Equal(t, "192k", kwargs["b:a"])
	assert.Equal(t, "yuv420p", kwargs["pix_fmt"])
	assert.Equal(t, "+faststart", kwargs["movflags"])
	assert.Equal(t, 30, kwargs["g"])
	assert.Equal(t, 30, kwargs["keyint_min"])
	assert.Equal(t, "29.97", kwargs["r"])
	assert.Equal(t, "cfr", kwargs["vsync"])
	assert.NotContains(t, kwargs, "af")
	assert.NotContains(t, kwargs, "an")
}

func TestBuildOutputArgsAudioResample(t *testing.T) {
	plan := verticalPlan()
	plan.ResampleAudio = true
	kwargs := buildOutputArgs(plan)
	assert.Equal(t, "aresample=async=1000:first_pts=0", kwargs["af"])
}

func TestBuildOutputArgsNoAudio(t *testing.T) {
	plan := verticalPlan()
	plan.HasAudio = false
	kwargs := buildOutputArgs(plan)
	assert.Contains(t, kwargs, "an")
	assert.NotContains(t, kwargs, "c:a")
}

func TestBuildFilterChain(t *testing.T) {
	tests := []struct {
		name string
		plan RenditionPlan
		want string
	}{
		{
			name: "landscape letterboxed onto vertical canvas",
			plan: RenditionPlan{
				TargetWidth:  1080,
				TargetHeight: 1920,
				Placement:    geometry.Fit(1920, 1080, 1080, 1920),
			},
			want: "scale=1080:608,pad=1080:1920:0:656:black",
		},
		{
			name: "matching aspect needs scale only",
			plan: RenditionPlan{
				TargetWidth:  1080,
				TargetHeight: 1920,
				Placement:    geometry.Fit(540, 960, 1080, 1920),
			},
			want: "scale=1080:1920",
		},
		{
			name: "unchanged dimensions need no filter",
			plan: RenditionPlan{},
			want: "",
		},
		{
			name: "odd scaled height forced even",
			plan: RenditionPlan{
				TargetWidth:  1080,
				TargetHeight: 1920,
				Placement:    geometry.Placement{ScaledWidth: 1080, ScaledHeight: 607, OffsetX: 0, OffsetY: 656},
			},
			want: "scale=1080:606,pad=1080:1920:0:657:black",
		},
		{
			name: "banner only on unchanged canvas",
			plan: RenditionPlan{
				Overlay: OverlayStyle{
					Text:      "Shop this product: https://amzn.to/x",
					Position:  "bottom",
					FontSize:  40,
					TextColor: "white",
					BoxColor:  "black",
					Opacity:   0.8,
				},
			},
			want: `drawtext=text='Shop this product\: https\://amzn.to/x':fontsize=40:fontcolor=white:box=1:boxcolor=black@0.80:boxborderw=10:x=(w-text_w)/2:y=h-text_h-40`,
		},
		{
			name: "letterbox then banner",
			plan: RenditionPlan{
				TargetWidth:  1080,
				TargetHeight: 1920,
				Placement:    geometry.Fit(1920, 1080, 1080, 1920),
				Overlay: OverlayStyle{
					Text:      "Shop now",
					Position:  "top",
					FontSize:  40,
					TextColor: "white",
					BoxColor:  "black",
					Opacity:   0.8,
				},
			},
			want: `scale=1080:608,pad=1080:1920:0:656:black,drawtext=text='Shop now':fontsize=40:fontcolor=white:box=1:boxcolor=black@0.80:boxborderw=10:x=(w-text_w)/2:y=40`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildFilterChain(tt.plan))
		})
	}
}

func TestDrawtextFilterCenterPosition(t *testing.T) {
	got := drawtextFilter(OverlayStyle{
		Text:      "Shop",
		Position:  "center",
		FontSize:  32,
		TextColor: "white",
		BoxColor:  "black",
		Opacity:   0.5,
	})
	assert.Contains(t, got, "y=(h-text_h)/2")
	assert.Contains(t, got, "boxcolor=black@0.50")
	assert.Contains(t, got, "boxborderw=8")
}

func TestEscapeDrawtext(t *testing.T) {
	assert.Equal(t, `it\'s 100%% off\: yes`, escapeDrawtext("it's 100% off: yes"))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "29.97", formatRate(29.97))
	assert.Equal(t, "23.976", formatRate(23.976))
	assert.Equal(t, "30", formatRate(30))
}

func TestOptimalThreadCount(t *testing.T) {
	assert.GreaterOrEqual(t, OptimalThreadCount(), 1)
}
