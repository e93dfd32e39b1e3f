package platform

import (
	"fmt"
	"sort"

	"github.com/ajlorans/amazon-review-automation/internal/bitrate"
	"github.com/ajlorans/amazon-review-automation/pkg/types"
)

// Platform defines the output policy for one publishing target.
type Platform interface {
	// GetName returns the platform name
	GetName() types.PublishPlatform

	// GetTargetDimensions returns the output canvas size. A zero value on
	// both axes means the source dimensions are kept unchanged.
	GetTargetDimensions() (width, height int)

	// GetSizeCeilingMB returns the soft file-size target in MB used for
	// bitrate planning. Zero means the platform is unconstrained and the
	// post-encode size check is skipped.
	GetSizeCeilingMB() int

	// GetHardCapMB returns the platform's absolute enforced size limit in
	// MB, always >= the soft ceiling.
	GetHardCapMB() int

	// GetBitrateBounds returns the acceptable video bitrate range
	GetBitrateBounds() bitrate.Bounds

	// GetAudioBitrateKbps returns the audio bitrate in kbps
	GetAudioBitrateKbps() int

	// GetPreset returns the x264 speed/quality preset
	GetPreset() string

	// GetMaxDurationSec returns the longest clip segment the platform
	// accepts, in seconds. Zero means unlimited.
	GetMaxDurationSec() float64
}

var platforms = make(map[types.PublishPlatform]Platform)

// Register adds a platform to the registry
func Register(p Platform) {
	platforms[p.GetName()] = p
}

// Get returns a platform by name
func Get(name types.PublishPlatform) (Platform, error) {
	p, ok := platforms[name]
	if !ok {
		return nil, fmt.Errorf("unsupported platform: %s", name)
	}
	return p, nil
}

// GetSupportedPlatforms returns a sorted list of supported platform names
func GetSupportedPlatforms() []string {
	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}
