// Package pipeline orchestrates the load → normalize → plan → encode →
// size-check workflow that turns one source video into per-platform
// renditions.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ajlorans/amazon-review-automation/internal/bitrate"
	"github.com/ajlorans/amazon-review-automation/internal/config"
	"github.com/ajlorans/amazon-review-automation/internal/encoder"
	"github.com/ajlorans/amazon-review-automation/internal/framerate"
	"github.com/ajlorans/amazon-review-automation/internal/geometry"
	"github.com/ajlorans/amazon-review-automation/internal/metadata"
	"github.com/ajlorans/amazon-review-automation/internal/platform"
	"github.com/ajlorans/amazon-review-automation/internal/probe"
	"github.com/ajlorans/amazon-review-automation/internal/uploader"
	"github.com/ajlorans/amazon-review-automation/pkg/types"
)

// Encoder materializes one rendition plan. Satisfied by encoder.Processor.
type Encoder interface {
	Encode(plan encoder.RenditionPlan) error
}

// RenditionResult reports the outcome of one (asset, platform) pair.
type RenditionResult struct {
	Platform        string
	OutputPath      string
	SizeBytes       int64
	BitrateKbps     int
	Attempts        int
	PolicyViolation bool
	Metadata        metadata.Metadata
	Err             error
}

// AssetResult reports the outcome of one source asset.
type AssetResult struct {
	InputPath  string
	Renditions []RenditionResult
	Err        error
}

// Succeeded reports whether the shared phase completed and every rendition
// finished without a fatal error.
func (r AssetResult) Succeeded() bool {
	if r.Err != nil {
		return false
	}
	for _, rr := range r.Renditions {
		if rr.Err != nil {
			return false
		}
	}
	return true
}

// Service runs the rendition pipeline.
type Service struct {
	cfg         config.Config
	enc         Encoder
	probeFn     func(path string) (probe.SourceAsset, error)
	fileSize    func(path string) (int64, error)
	now         func() time.Time
	newUploader func(platform string, opts uploader.Options) (uploader.Uploader, error)
}

// Option configures a Service.
type Option func(*Service)

// WithEncoder injects the encoder implementation.
func WithEncoder(e Encoder) Option {
	return func(s *Service) { s.enc = e }
}

// WithProber injects the source probing function.
func WithProber(fn func(path string) (probe.SourceAsset, error)) Option {
	return func(s *Service) { s.probeFn = fn }
}

// WithFileSizer injects the on-disk size measurement (useful for testing).
func WithFileSizer(fn func(path string) (int64, error)) Option {
	return func(s *Service) { s.fileSize = fn }
}

// WithClock injects the time source used for date folders.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// WithUploaderFactory injects the uploader constructor.
func WithUploaderFactory(fn func(platform string, opts uploader.Options) (uploader.Uploader, error)) Option {
	return func(s *Service) { s.newUploader = fn }
}

// NewService constructs a pipeline service, defaulting to the real encoder,
// prober and filesystem.
func NewService(cfg config.Config, opts ...Option) *Service {
	s := &Service{cfg: cfg}
	for _, o := range opts {
		o(s)
	}
	if s.enc == nil {
		s.enc = encoder.NewProcessor(cfg.Verbose)
	}
	if s.probeFn == nil {
		s.probeFn = probe.Probe
	}
	if s.fileSize == nil {
		s.fileSize = func(path string) (int64, error) {
			info, err := os.Stat(path)
			if err != nil {
				return 0, err
			}
			return info.Size(), nil
		}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newUploader == nil {
		s.newUploader = uploader.New
	}
	return s
}

// ProcessAsset runs the full pipeline for one source video. Errors in the
// shared load/normalize phase set AssetResult.Err and abort all targets;
// errors local to one target are recorded on its RenditionResult only.
func (s *Service) ProcessAsset(inputPath string) AssetResult {
	res := AssetResult{InputPath: inputPath}

	asset, err := s.probeFn(inputPath)
	if err != nil {
		res.Err = errors.Wrap(err, "load source")
		return res
	}
	if asset.Duration <= 0 {
		res.Err = errors.New("zero-duration video")
		return res
	}

	// Normalize once, shared across all targets.
	fps := framerate.Normalize(asset.FrameRate)
	resampleAudio := asset.HasAudio &&
		framerate.AudioNeedsResample(asset.Duration, asset.AudioDuration)

	productLink := metadata.ResolveProductLink(inputPath)
	dateFolder := s.now().Format("2006-01-02")

	log.Info().
		Str("input", filepath.Base(inputPath)).
		Int("width", asset.Width).
		Int("height", asset.Height).
		Float64("duration_sec", asset.Duration).
		Float64("fps", fps).
		Bool("resample_audio", resampleAudio).
		Msg("source loaded")

	for _, name := range s.cfg.EnabledPlatforms {
		target, err := platform.Get(types.PublishPlatform(name))
		if err != nil {
			res.Renditions = append(res.Renditions, RenditionResult{Platform: name, Err: err})
			continue
		}
		rr := s.renderTarget(asset, target, fps, resampleAudio, productLink, dateFolder)
		if rr.Err != nil {
			log.Error().Err(rr.Err).Str("platform", name).
				Str("input", filepath.Base(inputPath)).Msg("rendition failed")
		}
		res.Renditions = append(res.Renditions, rr)
	}

	return res
}

// renderTarget produces one rendition: plan, encode, size-check, with a
// bounded re-encode loop against staged lower ceilings.
func (s *Service) renderTarget(asset probe.SourceAsset, target platform.Platform, fps float64, resampleAudio bool, productLink, dateFolder string) RenditionResult {
	name := string(target.GetName())
	rr := RenditionResult{Platform: name}

	outDir := filepath.Join(s.cfg.OutputDir, name, dateFolder)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		rr.Err = errors.Wrap(err, "create output dir")
		return rr
	}
	finalPath := filepath.Join(outDir, asset.Stem()+".mp4")
	rr.OutputPath = finalPath

	plan := s.basePlan(asset, target, fps, resampleAudio)

	policy := bitrate.DefaultPolicy
	policy.AudioKbps = target.GetAudioBitrateKbps()
	if hardCap := target.GetHardCapMB(); hardCap > 0 {
		policy.HardCapMB = hardCap
	}

	constrained := target.GetSizeCeilingMB() > 0
	ceilings := s.ceilings(target)
	capBytes := int64(policy.HardCapMB) * 1024 * 1024

	type candidate struct {
		path string
		size int64
	}
	var candidates []candidate
	defer func() {
		for _, c := range candidates {
			_ = os.Remove(c.path)
		}
	}()

	for attempt := 0; attempt < len(ceilings); attempt++ {
		rr.Attempts = attempt + 1

		ceiling := ceilings[attempt]
		if constrained {
			plan.VideoKbps = bitrate.Plan(plan.DurationSec, ceiling, target.GetBitrateBounds(), policy)
		} else {
			plan.VideoKbps = target.GetBitrateBounds().MaxKbps
		}
		rr.BitrateKbps = plan.VideoKbps

		// Each attempt writes its own candidate; the winner is promoted
		// onto the final path so a partial encode is never observable there.
		plan.OutputPath = fmt.Sprintf("%s.attempt-%d.mp4", finalPath, attempt+1)

		if err := s.enc.Encode(plan); err != nil {
			rr.Err = errors.Wrapf(err, "encode for %s", name)
			return rr
		}

		size, err := s.fileSize(plan.OutputPath)
		if err != nil {
			rr.Err = errors.Wrap(err, "measure output")
			return rr
		}
		candidates = append(candidates, candidate{path: plan.OutputPath, size: size})

		if !constrained || size <= capBytes {
			rr.SizeBytes = size
			if err := promote(plan.OutputPath, finalPath); err != nil {
				rr.Err = err
				return rr
			}
			candidates = candidates[:len(candidates)-1]
			rr.Metadata = s.writeMetadata(asset, name, productLink, finalPath)
			return rr
		}

		log.Warn().
			Str("platform", name).
			Int("attempt", attempt+1).
			Int64("size_bytes", size).
			Int("ceiling_mb", ceiling).
			Msg("rendition exceeds size cap")
	}

	// Retry budget exhausted: promote the smallest candidate, flagged,
	// rather than shipping nothing.
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.size < best.size {
			best = c
		}
	}
	rr.SizeBytes = best.size
	rr.PolicyViolation = true
	if err := promote(best.path, finalPath); err != nil {
		rr.Err = err
		return rr
	}
	for i := range candidates {
		if candidates[i].path == best.path {
			candidates = append(candidates[:i], candidates[i+1:]...)
			break
		}
	}
	log.Warn().
		Str("platform", name).
		Str("output", finalPath).
		Int64("size_bytes", best.size).
		Msg("size cap still exceeded after retries; keeping flagged asset")

	rr.Metadata = s.writeMetadata(asset, name, productLink, finalPath)
	return rr
}

// basePlan builds the per-target plan fields that stay fixed across encode
// attempts.
func (s *Service) basePlan(asset probe.SourceAsset, target platform.Platform, fps float64, resampleAudio bool) encoder.RenditionPlan {
	plan := encoder.RenditionPlan{
		InputPath:     asset.Path,
		FrameRate:     fps,
		KeyInt:        framerate.KeyframeInterval(fps),
		AudioKbps:     target.GetAudioBitrateKbps(),
		Preset:        target.GetPreset(),
		DurationSec:   asset.Duration,
		HasAudio:      asset.HasAudio,
		ResampleAudio: resampleAudio,
	}

	if limit := target.GetMaxDurationSec(); limit > 0 && plan.DurationSec > limit {
		plan.DurationSec = limit
	}
	if s.cfg.MaxClipSec > 0 && plan.DurationSec > s.cfg.MaxClipSec {
		plan.DurationSec = s.cfg.MaxClipSec
	}

	w, h := target.GetTargetDimensions()
	if w > 0 && h > 0 && !(asset.Width == w && asset.Height == h) {
		plan.TargetWidth = w
		plan.TargetHeight = h
		plan.Placement = geometry.Fit(asset.Width, asset.Height, w, h)
	}

	if ov := s.cfg.Overlay; ov.Enabled {
		plan.Overlay = encoder.OverlayStyle{
			Text:      ov.Text,
			Position:  ov.Position,
			FontSize:  ov.FontSize,
			TextColor: ov.TextColor,
			BoxColor:  ov.BoxColor,
			Opacity:   ov.Opacity,
		}
	}
	return plan
}

// ceilings returns the staged size targets for the attempt loop: the soft
// ceiling first, then the configured relaxation steps, bounded by the retry
// budget. Unconstrained targets get a single attempt.
func (s *Service) ceilings(target platform.Platform) []int {
	soft := target.GetSizeCeilingMB()
	if soft == 0 {
		return []int{0}
	}
	out := []int{soft}
	for _, mb := range s.cfg.RetryCeilingsMB {
		if len(out) > s.cfg.MaxEncodeRetries {
			break
		}
		if mb < soft {
			out = append(out, mb)
		}
	}
	return out
}

func (s *Service) writeMetadata(asset probe.SourceAsset, name, productLink, finalPath string) metadata.Metadata {
	md := metadata.Generate(asset.Stem(), types.PublishPlatform(name), productLink, s.cfg.CreatorLink, s.cfg.HashtagsFor(name))
	if err := metadata.WriteSidecar(finalPath, md); err != nil {
		// Metadata loss is not worth discarding a finished encode.
		log.Error().Err(err).Str("output", finalPath).Msg("sidecar write failed")
	}
	return md
}

// promote atomically moves a finished candidate onto the final path.
func promote(candidatePath, finalPath string) error {
	return errors.Wrap(os.Rename(candidatePath, finalPath), "promote rendition")
}
