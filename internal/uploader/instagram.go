package uploader

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var instagramAPIBase = "https://graph.instagram.com"

// instagram uses the Graph API reel flow: create a media container, wait for
// remote processing, then publish it.
type instagram struct {
	opts   Options
	client *http.Client
}

func init() {
	register("instagram", func(opts Options) Uploader {
		return &instagram{opts: opts, client: newHTTPClient()}
	})
}

func (u *instagram) Authenticate(ctx context.Context) error {
	creds := u.opts.Credentials
	if creds.AccessToken == "" {
		return errors.New("instagram: access token not configured")
	}
	if creds.AccountID == "" {
		return errors.New("instagram: business account id not configured")
	}
	var me struct {
		Username string `json:"username"`
	}
	if err := u.getJSON(ctx, "/me", url.Values{"fields": {"id,username"}}, &me); err != nil {
		return errors.Wrap(err, "instagram: token check")
	}
	log.Debug().Str("account", me.Username).Msg("instagram token verified")
	return nil
}

func (u *instagram) Upload(ctx context.Context, req Request) (*Result, error) {
	caption := req.Description
	if len(req.Hashtags) > 0 && !strings.Contains(caption, req.Hashtags[0]) {
		caption += "\n\n" + strings.Join(req.Hashtags, " ")
	}

	// The Graph API ingests the video by URL; VideoPath must be reachable
	// by Instagram's fetcher (the renditions are served from the output
	// host). Local-only paths fail here, which is surfaced as an upload
	// failure, never a pipeline failure.
	params := url.Values{
		"media_type": {"REELS"},
		"video_url":  {req.VideoPath},
		"caption":    {caption},
	}
	var container struct {
		ID string `json:"id"`
	}
	endpoint := fmt.Sprintf("/%s/media", u.opts.Credentials.AccountID)
	if err := u.postForm(ctx, endpoint, params, &container); err != nil {
		return nil, errors.Wrap(err, "instagram: create container")
	}

	err := pollUntil(ctx, u.opts, func(ctx context.Context) (bool, error) {
		status, err := u.Status(ctx, container.ID)
		if err != nil {
			return false, err
		}
		switch status {
		case "FINISHED":
			return true, nil
		case "ERROR":
			return false, errors.New("instagram: container processing failed")
		default:
			return false, nil
		}
	})
	if err != nil {
		return nil, err
	}

	var published struct {
		ID string `json:"id"`
	}
	publishEndpoint := fmt.Sprintf("/%s/media_publish", u.opts.Credentials.AccountID)
	if err := u.postForm(ctx, publishEndpoint, url.Values{"creation_id": {container.ID}}, &published); err != nil {
		return nil, errors.Wrap(err, "instagram: publish container")
	}

	log.Info().Str("platform", "instagram").Str("media_id", published.ID).Msg("upload complete")
	return &Result{ID: published.ID, Status: "published", Platform: "instagram"}, nil
}

func (u *instagram) Status(ctx context.Context, id string) (string, error) {
	var out struct {
		StatusCode string `json:"status_code"`
	}
	if err := u.getJSON(ctx, "/"+id, url.Values{"fields": {"status_code"}}, &out); err != nil {
		return "", errors.Wrap(err, "instagram: container status")
	}
	return out.StatusCode, nil
}

func (u *instagram) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	params.Set("access_token", u.opts.Credentials.AccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		instagramAPIBase+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return errors.WithStack(err)
	}
	return u.do(req, out)
}

func (u *instagram) postForm(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	params.Set("access_token", u.opts.Credentials.AccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		instagramAPIBase+endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return u.do(req, out)
}

func (u *instagram) do(req *http.Request, out interface{}) error {
	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
