package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// linkMapFile is the JSON map of filename stems to product URLs, placed
// alongside the source videos.
const linkMapFile = "product_links.json"

// sidecarExtensions are the recognized plain-text link sidecar extensions.
var sidecarExtensions = []string{".txt", ".url", ".link"}

// marketplaceDomains maps hyphen-encoded domain tokens to real domains. A
// decoded link must start with one of these to be accepted.
var marketplaceDomains = map[string]string{
	"amazon-com": "amazon.com",
	"amzn-to":    "amzn.to",
	"amzn-eu":    "amzn.eu",
}

// ResolveProductLink finds the product URL for a source video, trying in
// order: a link encoded in the filename, a sidecar text file, and the JSON
// link map in the source directory. Returns "" when nothing matches.
func ResolveProductLink(videoPath string) string {
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))

	if link := DecodeFilenameLink(stem); link != "" {
		return link
	}
	if link := readSidecarLink(videoPath); link != "" {
		return link
	}
	return lookupLinkMap(filepath.Dir(videoPath), stem, filepath.Base(videoPath))
}

// DecodeFilenameLink extracts a product URL embedded in a filename stem with
// hyphen-for-punctuation substitution, e.g.
// "review_https-amazon-com-dp-999" -> "https://amazon.com/dp/999". The
// encoded part must carry a protocol prefix and a recognized marketplace
// domain.
func DecodeFilenameLink(stem string) string {
	proto, rest := splitEncodedLink(stem)
	if proto == "" {
		return ""
	}

	for token, domain := range marketplaceDomains {
		if rest == token {
			return proto + "://" + domain
		}
		if strings.HasPrefix(rest, token+"-") {
			path := strings.ReplaceAll(strings.TrimPrefix(rest, token+"-"), "-", "/")
			return proto + "://" + domain + "/" + path
		}
	}
	return ""
}

// stripEncodedLink removes the encoded-link suffix from a stem so titles do
// not carry URL fragments.
func stripEncodedLink(stem string) string {
	for _, marker := range []string{"_https-", "_http-"} {
		if i := strings.Index(stem, marker); i >= 0 {
			return stem[:i]
		}
	}
	return stem
}

func splitEncodedLink(stem string) (proto, rest string) {
	for _, p := range []string{"https", "http"} {
		marker := "_" + p + "-"
		if i := strings.Index(stem, marker); i >= 0 {
			return p, stem[i+len(marker):]
		}
	}
	return "", ""
}

// readSidecarLink reads `<stem>.<ext>` next to the video for each recognized
// extension and accepts its content when it mentions a marketplace domain.
func readSidecarLink(videoPath string) string {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	for _, ext := range sidecarExtensions {
		raw, err := os.ReadFile(base + ext)
		if err != nil {
			continue
		}
		link := strings.TrimSpace(string(raw))
		if link != "" && mentionsMarketplace(link) {
			return link
		}
	}
	return ""
}

// lookupLinkMap consults product_links.json keyed by stem or full filename.
func lookupLinkMap(dir, stem, filename string) string {
	raw, err := os.ReadFile(filepath.Join(dir, linkMapFile))
	if err != nil {
		return ""
	}
	var links map[string]string
	if err := json.Unmarshal(raw, &links); err != nil {
		return ""
	}
	if link, ok := links[stem]; ok {
		return link
	}
	return links[filename]
}

func mentionsMarketplace(s string) bool {
	for _, domain := range marketplaceDomains {
		if strings.Contains(s, domain) {
			return true
		}
	}
	return false
}
