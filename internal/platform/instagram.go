package platform

import (
	"github.com/ajlorans/amazon-review-automation/internal/bitrate"
	"github.com/ajlorans/amazon-review-automation/pkg/types"
)

// Instagram is the tightly size-capped vertical reel target: 1080x1920
// letterboxed, planned against a 95MB soft ceiling with a 100MB hard cap.
type Instagram struct{}

func init() {
	Register(&Instagram{})
}

func (p *Instagram) GetName() types.PublishPlatform {
	return types.PublishPlatformInstagram
}

func (p *Instagram) GetTargetDimensions() (width, height int) {
	return 1080, 1920
}

func (p *Instagram) GetSizeCeilingMB() int {
	return 95
}

func (p *Instagram) GetHardCapMB() int {
	return 100
}

func (p *Instagram) GetBitrateBounds() bitrate.Bounds {
	return bitrate.Bounds{MinKbps: 4000, MaxKbps: 12000}
}

func (p *Instagram) GetAudioBitrateKbps() int {
	return 192
}

func (p *Instagram) GetPreset() string {
	return "medium"
}

func (p *Instagram) GetMaxDurationSec() float64 {
	return 90
}
