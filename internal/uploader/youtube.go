package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	youtubeUploadURL = "https://www.googleapis.com/upload/youtube/v3/videos?uploadType=resumable&part=snippet,status"
	youtubeVideosURL = "https://www.googleapis.com/youtube/v3/videos"
)

// youtube uploads via the YouTube Data API resumable protocol: one POST to
// open a session, one PUT with the file body.
type youtube struct {
	opts   Options
	client *http.Client
}

func init() {
	register("youtube", func(opts Options) Uploader {
		return &youtube{opts: opts, client: newHTTPClient()}
	})
}

func (u *youtube) Authenticate(ctx context.Context) error {
	if u.opts.Credentials.AccessToken == "" {
		return errors.New("youtube: access token not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		youtubeVideosURL+"?part=id&mine=true&maxResults=1", nil)
	if err != nil {
		return errors.WithStack(err)
	}
	u.authorize(req)
	resp, err := u.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "youtube: token check")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("youtube: token rejected (%d)", resp.StatusCode)
	}
	return nil
}

func (u *youtube) Upload(ctx context.Context, req Request) (*Result, error) {
	snippet := map[string]interface{}{
		"snippet": map[string]interface{}{
			"title":       req.Title,
			"description": req.Description,
			"tags":        req.Hashtags,
		},
		"status": map[string]interface{}{
			"privacyStatus": req.Privacy,
		},
	}
	body, err := json.Marshal(snippet)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	openReq, err := http.NewRequestWithContext(ctx, http.MethodPost, youtubeUploadURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	u.authorize(openReq)
	openReq.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(openReq)
	if err != nil {
		return nil, errors.Wrap(err, "youtube: open session")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("youtube: session rejected (%d)", resp.StatusCode)
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return nil, errors.New("youtube: no session URI returned")
	}

	f, err := os.Open(req.VideoPath)
	if err != nil {
		return nil, errors.Wrap(err, "youtube: open video")
	}
	defer f.Close()

	putReq, err := http.NewRequestWithContext(ctx, http.MethodPut, location, f)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	u.authorize(putReq)
	putReq.Header.Set("Content-Type", "video/mp4")
	if info, err := f.Stat(); err == nil {
		putReq.ContentLength = info.Size()
	}

	putResp, err := u.client.Do(putReq)
	if err != nil {
		return nil, errors.Wrap(err, "youtube: upload body")
	}
	defer putResp.Body.Close()
	if putResp.StatusCode != http.StatusOK && putResp.StatusCode != http.StatusCreated {
		return nil, errors.Errorf("youtube: upload failed (%d)", putResp.StatusCode)
	}

	var uploaded struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(putResp.Body).Decode(&uploaded); err != nil {
		return nil, errors.Wrap(err, "youtube: parse response")
	}

	log.Info().Str("platform", "youtube").Str("video_id", uploaded.ID).Msg("upload complete")
	return &Result{ID: uploaded.ID, Status: req.Privacy, Platform: "youtube"}, nil
}

func (u *youtube) Status(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s?part=status&id=%s", youtubeVideosURL, id), nil)
	if err != nil {
		return "", errors.WithStack(err)
	}
	u.authorize(req)
	resp, err := u.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "youtube: status")
	}
	defer resp.Body.Close()

	var out struct {
		Items []struct {
			Status struct {
				UploadStatus string `json:"uploadStatus"`
			} `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrap(err, "youtube: parse status")
	}
	if len(out.Items) == 0 {
		return "", errors.Errorf("youtube: video %s not found", id)
	}
	return out.Items[0].Status.UploadStatus, nil
}

func (u *youtube) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+u.opts.Credentials.AccessToken)
}
