// Package probe inspects source video files via ffprobe.
package probe

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// SourceAsset is the immutable description of an input video.
type SourceAsset struct {
	Path          string
	Width         int
	Height        int
	Duration      float64
	FrameRate     float64
	HasAudio      bool
	AudioDuration float64
}

// Stem returns the filename without directory or extension.
func (a SourceAsset) Stem() string {
	name := a.Path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

// Probe inspects the file at inputPath and returns its SourceAsset.
func Probe(inputPath string) (SourceAsset, error) {
	raw, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return SourceAsset{}, errors.Wrap(err, "error probing video")
	}
	return parse(inputPath, raw)
}

func parse(inputPath, raw string) (SourceAsset, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return SourceAsset{}, errors.WithStack(err)
	}

	streams, ok := data["streams"].([]interface{})
	if !ok || len(streams) == 0 {
		return SourceAsset{}, errors.New("no streams found in video")
	}

	asset := SourceAsset{Path: inputPath}
	var videoStream map[string]interface{}

	for _, stream := range streams {
		s, ok := stream.(map[string]interface{})
		if !ok {
			continue
		}
		switch s["codec_type"] {
		case "video":
			if videoStream == nil {
				videoStream = s
			}
		case "audio":
			asset.HasAudio = true
			if d := parseFloatField(s, "duration"); d > 0 {
				asset.AudioDuration = d
			}
		}
	}

	if videoStream == nil {
		return SourceAsset{}, errors.New("no video stream found")
	}

	asset.Width = intField(videoStream, "width")
	asset.Height = intField(videoStream, "height")
	if asset.Width <= 0 || asset.Height <= 0 {
		return SourceAsset{}, errors.Errorf("invalid dimensions %dx%d", asset.Width, asset.Height)
	}

	asset.FrameRate = parseFrameRate(videoStream)

	// Stream duration, falling back to container duration, falling back to
	// frame count over rate. Phone captures often omit the first two.
	asset.Duration = parseFloatField(videoStream, "duration")
	if asset.Duration == 0 {
		if format, ok := data["format"].(map[string]interface{}); ok {
			asset.Duration = parseFloatField(format, "duration")
		}
	}
	if asset.Duration == 0 && asset.FrameRate > 0 {
		if frames := parseFloatField(videoStream, "nb_frames"); frames > 0 {
			asset.Duration = frames / asset.FrameRate
		}
	}
	if asset.Duration == 0 {
		return SourceAsset{}, errors.New("could not determine video duration")
	}

	if asset.HasAudio && asset.AudioDuration == 0 {
		asset.AudioDuration = asset.Duration
	}

	return asset, nil
}

func parseFrameRate(stream map[string]interface{}) float64 {
	rate, ok := stream["r_frame_rate"].(string)
	if !ok {
		return 0
	}
	parts := strings.Split(rate, "/")
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}

func parseFloatField(m map[string]interface{}, key string) float64 {
	s, ok := m[key].(string)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func intField(m map[string]interface{}, key string) int {
	v, ok := m[key].(float64)
	if !ok {
		return 0
	}
	return int(v)
}
