package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var tiktokAPIBase = "https://open.tiktokapis.com/v2"

// tiktok uses the Content Publishing API's FILE_UPLOAD flow: init to get an
// upload URL and publish id, PUT the file, then poll publish status.
type tiktok struct {
	opts   Options
	client *http.Client
}

func init() {
	register("tiktok", func(opts Options) Uploader {
		return &tiktok{opts: opts, client: newHTTPClient()}
	})
}

func (u *tiktok) Authenticate(ctx context.Context) error {
	if u.opts.Credentials.AccessToken == "" {
		return errors.New("tiktok: access token not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		tiktokAPIBase+"/user/info/?fields=open_id,display_name", nil)
	if err != nil {
		return errors.WithStack(err)
	}
	u.authorize(req)
	resp, err := u.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "tiktok: token check")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("tiktok: token rejected (%d)", resp.StatusCode)
	}
	return nil
}

func (u *tiktok) Upload(ctx context.Context, req Request) (*Result, error) {
	privacy := "SELF_ONLY"
	if req.Privacy == "public" {
		privacy = "PUBLIC_TO_EVERYONE"
	}

	caption := req.Description
	if len(req.Hashtags) > 0 {
		caption += "\n\n" + strings.Join(req.Hashtags, " ")
	}

	initBody := map[string]interface{}{
		"post_info": map[string]interface{}{
			"title":                    req.Title,
			"description":              caption,
			"privacy_level":            privacy,
			"video_cover_timestamp_ms": 1000,
		},
		"source_info": map[string]interface{}{
			"source": "FILE_UPLOAD",
		},
	}

	var initResp struct {
		Data struct {
			UploadURL string `json:"upload_url"`
			PublishID string `json:"publish_id"`
		} `json:"data"`
	}
	if err := u.postJSON(ctx, tiktokAPIBase+"/post/publish/video/init/", initBody, &initResp); err != nil {
		return nil, errors.Wrap(err, "tiktok: init upload")
	}
	if initResp.Data.UploadURL == "" {
		return nil, errors.New("tiktok: no upload URL received")
	}

	f, err := os.Open(req.VideoPath)
	if err != nil {
		return nil, errors.Wrap(err, "tiktok: open video")
	}
	defer f.Close()

	putReq, err := http.NewRequestWithContext(ctx, http.MethodPut, initResp.Data.UploadURL, f)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	putReq.Header.Set("Content-Type", "video/mp4")
	if info, err := f.Stat(); err == nil {
		putReq.ContentLength = info.Size()
	}
	putResp, err := u.client.Do(putReq)
	if err != nil {
		return nil, errors.Wrap(err, "tiktok: upload body")
	}
	putResp.Body.Close()
	if putResp.StatusCode != http.StatusOK && putResp.StatusCode != http.StatusNoContent {
		return nil, errors.Errorf("tiktok: upload failed (%d)", putResp.StatusCode)
	}

	// The publish endpoint is asynchronous; confirm within the poll window.
	err = pollUntil(ctx, u.opts, func(ctx context.Context) (bool, error) {
		status, err := u.Status(ctx, initResp.Data.PublishID)
		if err != nil {
			return false, err
		}
		switch status {
		case "PUBLISH_COMPLETE", "SEND_TO_USER_INBOX":
			return true, nil
		case "FAILED":
			return false, errors.New("tiktok: remote processing failed")
		default:
			return false, nil
		}
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("platform", "tiktok").Str("publish_id", initResp.Data.PublishID).Msg("upload complete")
	return &Result{ID: initResp.Data.PublishID, Status: req.Privacy, Platform: "tiktok"}, nil
}

func (u *tiktok) Status(ctx context.Context, id string) (string, error) {
	var out struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	body := map[string]string{"publish_id": id}
	if err := u.postJSON(ctx, tiktokAPIBase+"/post/publish/status/fetch/", body, &out); err != nil {
		return "", errors.Wrap(err, "tiktok: status fetch")
	}
	return out.Data.Status, nil
}

func (u *tiktok) postJSON(ctx context.Context, url string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return errors.WithStack(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return errors.WithStack(err)
	}
	u.authorize(req)
	req.Header.Set("Content-Type", "application/json")

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

func (u *tiktok) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+u.opts.Credentials.AccessToken)
}
