package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ajlorans/amazon-review-automation/internal/config"
	"github.com/ajlorans/amazon-review-automation/internal/pipeline"
	"github.com/ajlorans/amazon-review-automation/internal/platform"
)

var (
	rootCmd = &cobra.Command{
		Use:   "review-automation",
		Short: "Turn Amazon review clips into platform-ready social videos",
		Long: `review-automation converts a source review video into renditions tailored
for YouTube, Instagram and TikTok, generates captions with product links,
and optionally uploads the results.

Examples:
  # Process one clip into all enabled platform renditions
  review-automation process -i review_clip.mp4

  # Process every clip in the input folder and archive the sources
  review-automation process --batch

  # Process and push to the configured platforms
  review-automation process -i review_clip.mp4 --upload`,
	}

	processCmd = &cobra.Command{
		Use:   "process",
		Short: "Process one clip or a whole input folder",
		Long: fmt.Sprintf(`Process a source video into per-platform renditions.

Supported platforms:
%s

Example:
  review-automation process -i review_clip.mp4 --upload`,
			formatSupportedPlatforms()),
		RunE: runProcess,
	}

	platformsCmd = &cobra.Command{
		Use:   "platforms",
		Short: "List the supported publishing platforms",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range platform.GetSupportedPlatforms() {
				fmt.Println(name)
			}
		},
	}
)

func runProcess(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	batch, _ := cmd.Flags().GetBool("batch")
	inputFolder, _ := cmd.Flags().GetString("input-folder")
	noArchive, _ := cmd.Flags().GetBool("no-archive")
	upload, _ := cmd.Flags().GetBool("upload")
	noUpload, _ := cmd.Flags().GetBool("no-upload")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if input == "" && !batch && inputFolder == "" {
		return fmt.Errorf("either --input or --batch is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg.Verbose = verbose
	setupLogging(verbose)

	doUpload := cfg.AutoUpload
	if upload {
		doUpload = true
	}
	if noUpload {
		doUpload = false
	}

	svc := pipeline.NewService(cfg)
	ctx := context.Background()

	if batch || inputFolder != "" {
		folder := cfg.InputDir
		if inputFolder != "" {
			folder = inputFolder
		}
		summary, err := svc.ProcessBatch(folder, !noArchive)
		if err != nil {
			return err
		}
		if doUpload {
			for _, res := range summary.Results {
				if res.Succeeded() {
					svc.UploadRenditions(ctx, res)
				}
			}
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d videos failed: %s",
				summary.Failed, summary.Total, strings.Join(summary.FailedFiles, ", "))
		}
		return nil
	}

	res := svc.ProcessAsset(input)
	svc.FinishAsset(res, !noArchive)
	if !res.Succeeded() {
		if res.Err != nil {
			return res.Err
		}
		return fmt.Errorf("processing failed for %s", input)
	}
	if doUpload {
		svc.UploadRenditions(ctx, res)
	}
	return nil
}

func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func formatSupportedPlatforms() string {
	var sb strings.Builder
	for _, name := range platform.GetSupportedPlatforms() {
		sb.WriteString(fmt.Sprintf("- %s\n", name))
	}
	return sb.String()
}

func init() {
	processCmd.Flags().StringP("input", "i", "", "Input video file")
	processCmd.Flags().BoolP("batch", "b", false, "Process every video in the input folder")
	processCmd.Flags().String("input-folder", "", "Override the input folder for batch mode")
	processCmd.Flags().Bool("no-archive", false, "Keep processed sources in place instead of archiving")
	processCmd.Flags().Bool("upload", false, "Upload renditions after processing")
	processCmd.Flags().Bool("no-upload", false, "Never upload, even when auto_upload is configured")
	processCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(platformsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
