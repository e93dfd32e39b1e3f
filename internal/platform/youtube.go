package platform

import (
	"github.com/ajlorans/amazon-review-automation/internal/bitrate"
	"github.com/ajlorans/amazon-review-automation/pkg/types"
)

// YouTube is the wide landscape target. Dimensions are preserved and there
// is no practical size cap, so the rendition skips the empirical size check.
type YouTube struct{}

func init() {
	Register(&YouTube{})
}

func (p *YouTube) GetName() types.PublishPlatform {
	return types.PublishPlatformYouTube
}

func (p *YouTube) GetTargetDimensions() (width, height int) {
	return 0, 0
}

func (p *YouTube) GetSizeCeilingMB() int {
	return 0
}

func (p *YouTube) GetHardCapMB() int {
	return 0
}

func (p *YouTube) GetBitrateBounds() bitrate.Bounds {
	return bitrate.Bounds{MinKbps: 4000, MaxKbps: 16000}
}

func (p *YouTube) GetAudioBitrateKbps() int {
	return 192
}

func (p *YouTube) GetPreset() string {
	return "medium"
}

func (p *YouTube) GetMaxDurationSec() float64 {
	return 0
}
