package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFilenameLink(t *testing.T) {
	tests := []struct {
		name string
		stem string
		want string
	}{
		{
			name: "amazon product path",
			stem: "review_https-amazon-com-dp-12345",
			want: "https://amazon.com/dp/12345",
		},
		{
			name: "shortened link",
			stem: "mug_https-amzn-to-3xYz",
			want: "https://amzn.to/3xYz",
		},
		{
			name: "http protocol",
			stem: "mug_http-amazon-com-dp-7",
			want: "http://amazon.com/dp/7",
		},
		{
			name: "domain only",
			stem: "mug_https-amzn-to",
			want: "https://amzn.to",
		},
		{name: "no encoded link", stem: "plain_review", want: ""},
		{name: "unrecognized domain rejected", stem: "x_https-evil-com-dp-1", want: ""},
		{name: "missing protocol rejected", stem: "x_amazon-com-dp-1", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeFilenameLink(tt.stem))
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveProductLinkSidecar(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "mug_review.mp4")
	writeFile(t, filepath.Join(dir, "mug_review.txt"), "https://amazon.com/dp/555\n")

	assert.Equal(t, "https://amazon.com/dp/555", ResolveProductLink(video))
}

func TestResolveProductLinkSidecarRejectsForeignDomain(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "mug_review.mp4")
	writeFile(t, filepath.Join(dir, "mug_review.txt"), "https://example.com/nope")

	assert.Equal(t, "", ResolveProductLink(video))
}

func TestResolveProductLinkJSONMap(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "mug_review.mp4")
	links := map[string]string{
		"mug_review": "https://amazon.com/dp/map-by-stem",
		"lamp.mp4":   "https://amazon.com/dp/map-by-name",
		"unrelated":  "https://amazon.com/dp/other",
	}
	raw, err := json.Marshal(links)
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, linkMapFile), string(raw))

	assert.Equal(t, "https://amazon.com/dp/map-by-stem", ResolveProductLink(video))
	assert.Equal(t, "https://amazon.com/dp/map-by-name", ResolveProductLink(filepath.Join(dir, "lamp.mp4")))
	assert.Equal(t, "", ResolveProductLink(filepath.Join(dir, "missing.mp4")))
}

// The filename-embedded link must win over both a sidecar and a map entry.
func TestResolveProductLinkPrecedence(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "review_https-amazon-com-dp-999.mp4")
	writeFile(t, filepath.Join(dir, "review_https-amazon-com-dp-999.txt"), "https://amazon.com/dp/sidecar")
	raw, err := json.Marshal(map[string]string{"review_https-amazon-com-dp-999": "https://amazon.com/dp/mapped"})
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, linkMapFile), string(raw))

	assert.Equal(t, "https://amazon.com/dp/999", ResolveProductLink(video))
}

func TestResolveProductLinkNothingFound(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", ResolveProductLink(filepath.Join(dir, "mug.mp4")))
}
