// Package uploader hosts the platform upload collaborators. The pipeline
// consumes this boundary opaquely: one Upload call per rendition, one
// result or failure back. OAuth token acquisition happens elsewhere; the
// uploaders receive ready credentials from configuration.
package uploader

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ajlorans/amazon-review-automation/internal/config"
)

// Request describes one rendition to push.
type Request struct {
	VideoPath   string
	Title       string
	Description string
	Hashtags    []string
	Privacy     string
}

// Result is the opaque outcome of a successful upload.
type Result struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Platform string `json:"platform"`
}

// Uploader is the capability each platform workflow implements.
type Uploader interface {
	// Authenticate verifies the configured credentials against the platform.
	Authenticate(ctx context.Context) error

	// Upload pushes one video with its metadata. No retries; one call, one
	// result.
	Upload(ctx context.Context, req Request) (*Result, error)

	// Status fetches the remote processing state of an uploaded video.
	Status(ctx context.Context, id string) (string, error)
}

// Options configures an uploader instance.
type Options struct {
	Credentials  config.Credentials
	PollWindow   time.Duration
	PollInterval time.Duration
}

type factory func(Options) Uploader

var factories = map[string]factory{}

func register(name string, f factory) {
	factories[name] = f
}

// New returns the uploader for a platform, or an error when the platform
// has no upload workflow.
func New(platform string, opts Options) (Uploader, error) {
	f, ok := factories[platform]
	if !ok {
		return nil, fmt.Errorf("no uploader for platform: %s", platform)
	}
	if opts.PollWindow <= 0 {
		opts.PollWindow = 2 * time.Minute
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	return f(opts), nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Minute}
}

// pollUntil repeatedly calls probe until it reports done, the poll window
// elapses, or the context is cancelled.
func pollUntil(ctx context.Context, opts Options, probe func(context.Context) (done bool, err error)) error {
	deadline := time.Now().Add(opts.PollWindow)
	for {
		done, err := probe(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("remote processing not confirmed within %s", opts.PollWindow)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.PollInterval):
		}
	}
}
