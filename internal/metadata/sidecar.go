package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// SidecarPath returns the descriptor path for a rendition: same stem,
// .json extension.
func SidecarPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".json"
}

// WriteSidecar persists the metadata descriptor next to the rendition.
func WriteSidecar(videoPath string, md Metadata) error {
	raw, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	raw = append(raw, '\n')
	return errors.Wrap(os.WriteFile(SidecarPath(videoPath), raw, 0o644), "write sidecar")
}

// AppendUploadResult rewrites the descriptor with an `upload` object added
// after a dispatch completed.
func AppendUploadResult(videoPath string, result interface{}) error {
	path := SidecarPath(videoPath)
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read sidecar")
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(err, "parse sidecar")
	}
	doc["upload"] = result

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	out = append(out, '\n')
	return errors.Wrap(os.WriteFile(path, out, 0o644), "rewrite sidecar")
}
