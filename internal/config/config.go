// Package config loads the process-wide settings once at startup. The
// resulting Config is immutable and passed explicitly into each component.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the read-only configuration for one run.
type Config struct {
	// CreatorLink is the generic Amazon creator/shop link used in captions
	// and as the product-link fallback.
	CreatorLink string

	// InputDir, OutputDir, ArchiveDir and LogDir are the storage folders.
	InputDir   string
	OutputDir  string
	ArchiveDir string
	LogDir     string

	// Hashtags holds the per-platform default hashtag lists.
	Hashtags map[string][]string

	// EnabledPlatforms lists the platform targets produced per asset.
	EnabledPlatforms []string

	// MaxClipSec trims the source to this length before transforming.
	// Defaults to 45s; zero keeps the full clip.
	MaxClipSec float64

	// RetryCeilingsMB are the staged replanning targets applied on each
	// re-encode after a size violation; MaxEncodeRetries bounds the loop.
	RetryCeilingsMB  []int
	MaxEncodeRetries int

	// Upload settings.
	AutoUpload         bool
	UploadPrivacy      string
	UploadPlatforms    []string
	UploadPollWindow   time.Duration
	UploadPollInterval time.Duration

	// Overlay configures the burned-in call-to-action banner.
	Overlay Overlay

	// Credentials for the upload collaborators, keyed by platform.
	Credentials map[string]Credentials

	Verbose bool
}

// Overlay holds the call-to-action banner settings. Text defaults to
// "Shop this product: <creator link>" when unset.
type Overlay struct {
	Enabled   bool
	Text      string
	Position  string // "top", "bottom" or "center"
	FontSize  int
	TextColor string
	BoxColor  string
	Opacity   float64
}

// Credentials holds the pre-acquired OAuth material for one platform.
// Token acquisition itself is out of scope; tokens arrive via env/config.
type Credentials struct {
	AccessToken string
	AccountID   string
	ClientKey   string
}

var defaultHashtags = map[string][]string{
	"youtube": {
		"#AmazonReview", "#ProductReview", "#AmazonFinds", "#Unboxing", "#Review",
	},
	"instagram": {
		"#AmazonReview", "#ProductReview", "#AmazonFinds", "#Unboxing", "#Review",
		"#Amazon", "#Shopping",
	},
	"tiktok": {
		"#AmazonReview", "#ProductReview", "#AmazonFinds", "#Unboxing", "#Review",
		"#Amazon", "#Shopping", "#FYP",
	},
}

// Load reads configuration from the environment (REVIEWBOT_* variables) and
// an optional config.{yaml,json,toml} in the working directory, applying
// defaults for everything unset.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("REVIEWBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("creator_link", "https://amazon.com/shop/YOUR_CREATOR_NAME")
	v.SetDefault("storage_dir", "storage")
	v.SetDefault("enabled_platforms", []string{"youtube", "instagram", "tiktok"})
	v.SetDefault("max_clip_sec", 45)
	v.SetDefault("retry_ceilings_mb", []int{90, 85})
	v.SetDefault("max_encode_retries", 1)
	v.SetDefault("cta_enabled", true)
	v.SetDefault("cta_position", "bottom")
	v.SetDefault("cta_font_size", 40)
	v.SetDefault("cta_text_color", "white")
	v.SetDefault("cta_background_color", "black")
	v.SetDefault("cta_opacity", 0.8)
	v.SetDefault("auto_upload", false)
	v.SetDefault("upload_privacy", "private")
	v.SetDefault("upload_platforms", []string{"youtube", "instagram", "tiktok"})
	v.SetDefault("upload_poll_window", 2*time.Minute)
	v.SetDefault("upload_poll_interval", 5*time.Second)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	storage := v.GetString("storage_dir")

	cfg := Config{
		CreatorLink:        v.GetString("creator_link"),
		InputDir:           filepath.Join(storage, "inputs"),
		OutputDir:          filepath.Join(storage, "outputs"),
		ArchiveDir:         filepath.Join(storage, "archive"),
		LogDir:             filepath.Join(storage, "logs"),
		Hashtags:           loadHashtags(v),
		EnabledPlatforms:   v.GetStringSlice("enabled_platforms"),
		MaxClipSec:         v.GetFloat64("max_clip_sec"),
		RetryCeilingsMB:    v.GetIntSlice("retry_ceilings_mb"),
		MaxEncodeRetries:   v.GetInt("max_encode_retries"),
		AutoUpload:         v.GetBool("auto_upload"),
		UploadPrivacy:      v.GetString("upload_privacy"),
		UploadPlatforms:    v.GetStringSlice("upload_platforms"),
		UploadPollWindow:   v.GetDuration("upload_poll_window"),
		UploadPollInterval: v.GetDuration("upload_poll_interval"),
		Overlay:            loadOverlay(v),
		Credentials:        loadCredentials(v),
	}
	return cfg, nil
}

// HashtagsFor returns the hashtag list for a platform, empty when unknown.
func (c Config) HashtagsFor(platform string) []string {
	return c.Hashtags[platform]
}

func loadHashtags(v *viper.Viper) map[string][]string {
	tags := make(map[string][]string, len(defaultHashtags))
	for name, def := range defaultHashtags {
		key := "hashtags." + name
		if v.IsSet(key) {
			tags[name] = v.GetStringSlice(key)
		} else {
			tags[name] = def
		}
	}
	return tags
}

func loadOverlay(v *viper.Viper) Overlay {
	text := v.GetString("cta_text")
	if text == "" {
		text = "Shop this product: " + v.GetString("creator_link")
	}
	return Overlay{
		Enabled:   v.GetBool("cta_enabled"),
		Text:      text,
		Position:  v.GetString("cta_position"),
		FontSize:  v.GetInt("cta_font_size"),
		TextColor: v.GetString("cta_text_color"),
		BoxColor:  v.GetString("cta_background_color"),
		Opacity:   v.GetFloat64("cta_opacity"),
	}
}

func loadCredentials(v *viper.Viper) map[string]Credentials {
	creds := make(map[string]Credentials)
	for _, name := range []string{"youtube", "instagram", "tiktok"} {
		creds[name] = Credentials{
			AccessToken: v.GetString(name + "_access_token"),
			AccountID:   v.GetString(name + "_account_id"),
			ClientKey:   v.GetString(name + "_client_key"),
		}
	}
	return creds
}
