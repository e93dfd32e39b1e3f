package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const probeJSON = `{
  "streams": [
    {
      "codec_type": "video",
      "codec_name": "h264",
      "width": 1920,
      "height": 1080,
      "r_frame_rate": "30000/1001",
      "duration": "63.500000"
    },
    {
      "codec_type": "audio",
      "codec_name": "aac",
      "duration": "63.310000"
    }
  ],
  "format": {
    "duration": "63.520000"
  }
}`

func TestParse(t *testing.T) {
	asset, err := parse("storage/inputs/red_mug_review.mp4", probeJSON)
	require.NoError(t, err)

	assert.Equal(t, 1920, asset.Width)
	assert.Equal(t, 1080, asset.Height)
	assert.InDelta(t, 63.5, asset.Duration, 1e-6)
	assert.InDelta(t, 29.97, asset.FrameRate, 0.01)
	assert.True(t, asset.HasAudio)
	assert.InDelta(t, 63.31, asset.AudioDuration, 1e-6)
}

func TestParseFallsBackToFormatDuration(t *testing.T) {
	raw := `{
	  "streams": [
	    {"codec_type": "video", "width": 640, "height": 480, "r_frame_rate": "25/1"}
	  ],
	  "format": {"duration": "12.000000"}
	}`
	asset, err := parse("clip.mp4", raw)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, asset.Duration, 1e-6)
	assert.False(t, asset.HasAudio)
}

func TestParseRejectsAudioOnly(t *testing.T) {
	raw := `{"streams": [{"codec_type": "audio", "codec_name": "aac"}]}`
	_, err := parse("audio.m4a", raw)
	assert.Error(t, err)
}

func TestParseRejectsMissingDuration(t *testing.T) {
	raw := `{
	  "streams": [
	    {"codec_type": "video", "width": 640, "height": 480}
	  ],
	  "format": {}
	}`
	_, err := parse("clip.mp4", raw)
	assert.Error(t, err)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "red_mug_review", SourceAsset{Path: "storage/inputs/red_mug_review.mp4"}.Stem())
	assert.Equal(t, "clip", SourceAsset{Path: "clip.mp4"}.Stem())
	assert.Equal(t, "noext", SourceAsset{Path: "dir/noext"}.Stem())
}
