package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var videoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
	".m4v": true,
}

// BatchSummary totals the outcomes of one batch run.
type BatchSummary struct {
	Total       int
	Succeeded   int
	Failed      int
	FailedFiles []string
	Results     []AssetResult
}

// ProcessBatch runs the pipeline over every video file in inputDir. Each
// asset is fully isolated: one asset's failure never aborts the rest.
func (s *Service) ProcessBatch(inputDir string, archive bool) (BatchSummary, error) {
	var summary BatchSummary

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return summary, errors.Wrapf(err, "read input folder %s", inputDir)
	}

	var inputs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if videoExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			inputs = append(inputs, filepath.Join(inputDir, e.Name()))
		}
	}
	if len(inputs) == 0 {
		return summary, errors.Errorf("no video files found in %s", inputDir)
	}

	summary.Total = len(inputs)
	log.Info().Int("count", len(inputs)).Str("folder", inputDir).Msg("batch processing started")

	for i, input := range inputs {
		log.Info().
			Str("input", filepath.Base(input)).
			Str("progress", fmt.Sprintf("%d/%d", i+1, len(inputs))).
			Msg("processing asset")

		res := s.ProcessAsset(input)
		summary.Results = append(summary.Results, res)

		if res.Succeeded() {
			summary.Succeeded++
			s.logOutcome(input, "success", nil)
			if archive {
				s.archiveSource(input)
			}
		} else {
			summary.Failed++
			summary.FailedFiles = append(summary.FailedFiles, filepath.Base(input))
			s.logOutcome(input, "failed", firstError(res))
		}
	}

	log.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Strs("failed_files", summary.FailedFiles).
		Msg("batch processing finished")

	return summary, nil
}

// FinishAsset records the outcome of a single (non-batch) run and archives
// the source on success.
func (s *Service) FinishAsset(res AssetResult, archive bool) {
	if res.Succeeded() {
		s.logOutcome(res.InputPath, "success", nil)
		if archive {
			s.archiveSource(res.InputPath)
		}
		return
	}
	s.logOutcome(res.InputPath, "failed", firstError(res))
}

// archiveSource moves a fully processed input into the archive folder,
// suffixing a timestamp when the name is already taken.
func (s *Service) archiveSource(inputPath string) {
	if err := os.MkdirAll(s.cfg.ArchiveDir, 0o755); err != nil {
		log.Warn().Err(err).Msg("could not create archive folder")
		return
	}

	name := filepath.Base(inputPath)
	dest := filepath.Join(s.cfg.ArchiveDir, name)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		dest = filepath.Join(s.cfg.ArchiveDir,
			fmt.Sprintf("%s_%s%s", stem, s.now().Format("20060102_150405"), ext))
	}

	if err := os.Rename(inputPath, dest); err != nil {
		log.Warn().Err(err).Str("input", name).Msg("could not archive source")
		return
	}
	log.Info().Str("archived", filepath.Base(dest)).Msg("source archived")
}

// logOutcome appends one line to the daily processing log.
func (s *Service) logOutcome(inputPath, status string, cause error) {
	if err := os.MkdirAll(s.cfg.LogDir, 0o755); err != nil {
		log.Warn().Err(err).Msg("could not create log folder")
		return
	}

	now := s.now()
	logPath := filepath.Join(s.cfg.LogDir, "processing_"+now.Format("2006-01-02")+".log")
	line := fmt.Sprintf("[%s] %s: %s", now.Format("2006-01-02 15:04:05"), filepath.Base(inputPath), status)
	if cause != nil {
		line += " - " + cause.Error()
	}
	line += "\n"

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Warn().Err(err).Msg("could not open processing log")
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line)
}

func firstError(res AssetResult) error {
	if res.Err != nil {
		return res.Err
	}
	for _, rr := range res.Renditions {
		if rr.Err != nil {
			return rr.Err
		}
	}
	return nil
}
