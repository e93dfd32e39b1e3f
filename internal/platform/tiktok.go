package platform

import (
	"github.com/ajlorans/amazon-review-automation/internal/bitrate"
	"github.com/ajlorans/amazon-review-automation/pkg/types"
)

// TikTok is the loosely size-capped vertical target: same 1080x1920 canvas
// as reels but with a much roomier ceiling.
type TikTok struct{}

func init() {
	Register(&TikTok{})
}

func (p *TikTok) GetName() types.PublishPlatform {
	return types.PublishPlatformTikTok
}

func (p *TikTok) GetTargetDimensions() (width, height int) {
	return 1080, 1920
}

func (p *TikTok) GetSizeCeilingMB() int {
	return 250
}

func (p *TikTok) GetHardCapMB() int {
	return 287
}

func (p *TikTok) GetBitrateBounds() bitrate.Bounds {
	return bitrate.Bounds{MinKbps: 4000, MaxKbps: 12000}
}

func (p *TikTok) GetAudioBitrateKbps() int {
	return 192
}

func (p *TikTok) GetPreset() string {
	return "medium"
}

func (p *TikTok) GetMaxDurationSec() float64 {
	return 180
}
