// Package metadata builds per-platform caption text and resolves Amazon
// product links for review videos.
package metadata

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajlorans/amazon-review-automation/pkg/types"
)

// Metadata is the text bundle attached to one rendition. YouTube uses
// Title+Description; Instagram and TikTok are caption-only.
type Metadata struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Caption     string   `json:"caption,omitempty"`
	Hashtags    []string `json:"hashtags"`
	ProductLink string   `json:"product_link,omitempty"`
}

var titleCaser = cases.Title(language.English)

// Generate builds the metadata bundle for one (video, platform) pair.
// productLink may be empty, in which case creatorLink stands in everywhere
// a link is interpolated.
func Generate(videoStem string, platform types.PublishPlatform, productLink, creatorLink string, hashtags []string) Metadata {
	title := DeriveTitle(videoStem)
	link := productLink
	if link == "" {
		link = creatorLink
	}
	tags := strings.Join(hashtags, " ")

	md := Metadata{
		Title:       title,
		Hashtags:    hashtags,
		ProductLink: productLink,
	}

	switch platform {
	case types.PublishPlatformYouTube:
		md.Description = link + "\n\n" + title + "\n\n" + tags + "\n"
	case types.PublishPlatformInstagram:
		md.Title = ""
		md.Caption = link + "\n\n" + title + "\n\n" + tags + "\n"
	case types.PublishPlatformTikTok:
		md.Title = ""
		md.Caption = title + "\n\nShop: " + link + "\n\n" + tags + "\n"
	}

	return md
}

// DeriveTitle turns a filename stem into display text: separators become
// spaces, words title-cased. Any link encoded in the stem is dropped first.
func DeriveTitle(videoStem string) string {
	stem := stripEncodedLink(videoStem)
	s := strings.ReplaceAll(stem, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.Join(strings.Fields(s), " ")
	return titleCaser.String(s)
}
