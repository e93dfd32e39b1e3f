package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndAppendSidecar(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "mug_review.mp4")

	md := Generate("mug_review", "youtube", "", creatorLink, []string{"#Review"})
	require.NoError(t, WriteSidecar(video, md))

	require.NoError(t, AppendUploadResult(video, map[string]string{
		"id":       "vid-123",
		"status":   "private",
		"platform": "youtube",
	}))

	raw, err := os.ReadFile(SidecarPath(video))
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Mug Review", doc["title"])
	upload, ok := doc["upload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "vid-123", upload["id"])
}

func TestAppendUploadResultMissingSidecar(t *testing.T) {
	err := AppendUploadResult(filepath.Join(t.TempDir(), "none.mp4"), map[string]string{})
	assert.Error(t, err)
}
