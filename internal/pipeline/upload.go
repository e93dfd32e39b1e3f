package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ajlorans/amazon-review-automation/internal/metadata"
	"github.com/ajlorans/amazon-review-automation/internal/uploader"
)

// UploadSummary counts the per-platform dispatch outcomes for one asset.
type UploadSummary struct {
	Dispatched int
	Failed     int
}

// UploadRenditions pushes every successful rendition to its platform.
// Each platform dispatch is isolated; a failure on one never blocks the
// others. Upload results are recorded into the rendition sidecar.
func (s *Service) UploadRenditions(ctx context.Context, res AssetResult) UploadSummary {
	var summary UploadSummary

	enabled := make(map[string]bool, len(s.cfg.UploadPlatforms))
	for _, name := range s.cfg.UploadPlatforms {
		enabled[name] = true
	}

	for _, rr := range res.Renditions {
		if rr.Err != nil || !enabled[rr.Platform] {
			continue
		}
		if rr.PolicyViolation {
			log.Warn().Str("platform", rr.Platform).Str("output", rr.OutputPath).
				Msg("skipping upload of oversized rendition")
			continue
		}

		if err := s.uploadOne(ctx, rr); err != nil {
			summary.Failed++
			log.Error().Err(err).Str("platform", rr.Platform).
				Str("output", rr.OutputPath).Msg("upload failed")
			continue
		}
		summary.Dispatched++
	}
	return summary
}

func (s *Service) uploadOne(ctx context.Context, rr RenditionResult) error {
	up, err := s.newUploader(rr.Platform, uploader.Options{
		Credentials:  s.cfg.Credentials[rr.Platform],
		PollWindow:   s.cfg.UploadPollWindow,
		PollInterval: s.cfg.UploadPollInterval,
	})
	if err != nil {
		return err
	}
	if err := up.Authenticate(ctx); err != nil {
		return errors.Wrap(err, "authenticate")
	}

	req := uploader.Request{
		VideoPath: rr.OutputPath,
		Title:     rr.Metadata.Title,
		Hashtags:  rr.Metadata.Hashtags,
		Privacy:   s.cfg.UploadPrivacy,
	}
	// Caption-only platforms carry no title in their metadata, but their
	// APIs still take one; fall back to the derived display title.
	if req.Title == "" {
		stem := strings.TrimSuffix(filepath.Base(rr.OutputPath), filepath.Ext(rr.OutputPath))
		req.Title = metadata.DeriveTitle(stem)
	}
	// YouTube takes a separate description; the vertical platforms carry
	// everything in the caption.
	if rr.Metadata.Description != "" {
		req.Description = rr.Metadata.Description
	} else {
		req.Description = rr.Metadata.Caption
	}

	result, err := up.Upload(ctx, req)
	if err != nil {
		return errors.Wrap(err, "upload")
	}

	log.Info().Str("platform", rr.Platform).Str("id", result.ID).
		Str("status", result.Status).Msg("upload complete")

	if err := metadata.AppendUploadResult(rr.OutputPath, result); err != nil {
		log.Warn().Err(err).Str("output", rr.OutputPath).
			Msg("could not record upload in sidecar")
	}
	return nil
}
