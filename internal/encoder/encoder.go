// Package encoder invokes ffmpeg to materialize rendition plans.
package encoder

import (
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/ajlorans/amazon-review-automation/internal/geometry"
)

// RenditionPlan carries every parameter of one encode attempt.
type RenditionPlan struct {
	InputPath  string
	OutputPath string

	// TargetWidth/TargetHeight define the output canvas. Zero on both axes
	// keeps the source dimensions (no geometric change).
	TargetWidth  int
	TargetHeight int
	Placement    geometry.Placement

	FrameRate float64
	KeyInt    int
	VideoKbps int
	AudioKbps int
	Preset    string

	// DurationSec trims the clip; zero keeps the full length.
	DurationSec float64

	// ResampleAudio re-times the audio track against video timestamps to
	// correct VFR drift.
	ResampleAudio bool
	HasAudio      bool

	// Overlay burns the call-to-action banner onto the frame. Empty text
	// skips the stage.
	Overlay OverlayStyle
}

// OverlayStyle describes the burned-in call-to-action banner.
type OverlayStyle struct {
	Text      string
	Position  string // "top", "bottom" or "center"
	FontSize  int
	TextColor string
	BoxColor  string
	Opacity   float64
}

// Processor wraps ffmpeg invocation.
type Processor struct {
	verbose bool
}

// NewProcessor creates an encoder processor.
func NewProcessor(verbose bool) *Processor {
	return &Processor{verbose: verbose}
}

// Encode runs ffmpeg with the plan's parameters, overwriting any existing
// file at the plan's output path.
func (p *Processor) Encode(plan RenditionPlan) error {
	inputKwargs := ffmpeg.KwArgs{}
	if plan.DurationSec > 0 {
		inputKwargs["t"] = plan.DurationSec
	}

	stream := ffmpeg.Input(plan.InputPath, inputKwargs)
	out := stream.Output(plan.OutputPath, buildOutputArgs(plan)).
		OverWriteOutput()
	if p.verbose {
		out = out.ErrorToStdOut()
	}

	if err := out.Run(); err != nil {
		return errors.Wrapf(err, "ffmpeg failed for %s", plan.OutputPath)
	}
	return nil
}

// buildOutputArgs assembles the ffmpeg output options for a plan: x264 with
// broad-compatibility flags, one keyframe per second, constant frame rate,
// and the letterbox filter chain when the canvas differs from the source.
func buildOutputArgs(plan RenditionPlan) ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"c:v":        "libx264",
		"b:v":        fmt.Sprintf("%dk", plan.VideoKbps),
		"maxrate":    fmt.Sprintf("%dk", plan.VideoKbps),
		"bufsize":    fmt.Sprintf("%dk", 2*plan.VideoKbps),
		"preset":     plan.Preset,
		"profile:v":  "high",
		"level":      "4.0",
		"pix_fmt":    "yuv420p",
		"movflags":   "+faststart",
		"threads":    OptimalThreadCount(),
		"x264opts":   "no-scenecut",
		"g":          plan.KeyInt,
		"keyint_min": plan.KeyInt,
	}

	if plan.FrameRate > 0 {
		kwargs["r"] = formatRate(plan.FrameRate)
		// Constant-rate resample without changing total duration.
		kwargs["vsync"] = "cfr"
	}

	if filter := buildFilterChain(plan); filter != "" {
		kwargs["filter_complex"] = filter
	}

	if plan.HasAudio {
		kwargs["c:a"] = "aac"
		kwargs["b:a"] = fmt.Sprintf("%dk", plan.AudioKbps)
		if plan.ResampleAudio {
			// Stretch/pad drifted audio back onto the video timeline.
			kwargs["af"] = "aresample=async=1000:first_pts=0"
		}
	} else {
		kwargs["an"] = ""
	}

	return kwargs
}

// buildFilterChain returns the video filter stages for a plan: the
// scale+pad chain placing the source on the target canvas when the canvas
// differs, then the call-to-action banner. Empty when neither applies.
func buildFilterChain(plan RenditionPlan) string {
	var stages []string

	if plan.TargetWidth > 0 && plan.TargetHeight > 0 {
		pl := plan.Placement
		// x264 with yuv420p needs even dimensions.
		scaleW := pl.ScaledWidth - pl.ScaledWidth%2
		scaleH := pl.ScaledHeight - pl.ScaledHeight%2

		if scaleW == plan.TargetWidth && scaleH == plan.TargetHeight {
			stages = append(stages, fmt.Sprintf("scale=%d:%d", scaleW, scaleH))
		} else {
			stages = append(stages, fmt.Sprintf(
				"scale=%d:%d,pad=%d:%d:%d:%d:black",
				scaleW, scaleH,
				plan.TargetWidth, plan.TargetHeight,
				(plan.TargetWidth-scaleW)/2, (plan.TargetHeight-scaleH)/2,
			))
		}
	}

	if plan.Overlay.Text != "" {
		stages = append(stages, drawtextFilter(plan.Overlay))
	}

	return strings.Join(stages, ",")
}

// drawtextFilter renders the banner as a centered drawtext box. The box
// carries the opacity; the text itself stays fully opaque for readability.
func drawtextFilter(o OverlayStyle) string {
	y := fmt.Sprintf("h-text_h-%d", o.FontSize)
	switch o.Position {
	case "top":
		y = fmt.Sprintf("%d", o.FontSize)
	case "center":
		y = "(h-text_h)/2"
	}
	return fmt.Sprintf(
		"drawtext=text='%s':fontsize=%d:fontcolor=%s:box=1:boxcolor=%s@%.2f:boxborderw=%d:x=(w-text_w)/2:y=%s",
		escapeDrawtext(o.Text), o.FontSize, o.TextColor, o.BoxColor, o.Opacity,
		o.FontSize/4, y,
	)
}

// escapeDrawtext quotes the characters drawtext treats specially inside a
// filter argument.
func escapeDrawtext(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, ":", `\:`, "%", "%%")
	return r.Replace(s)
}

// OptimalThreadCount uses 75% of available cores so compression never
// starves the rest of the machine.
func OptimalThreadCount() int {
	return int(math.Max(1, float64(runtime.NumCPU())*0.75))
}

func formatRate(fps float64) string {
	s := fmt.Sprintf("%.3f", fps)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
