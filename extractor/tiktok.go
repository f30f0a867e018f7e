package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"nestly/httpclient"
	"nestly/internal/logger"
)

// TikTok 이 OG 태그 대신 내려주는 기본 제목. "TikTok - Make Your Day"
var tiktokPlaceholderTitle = regexp.MustCompile(`(?i)tiktok - make`)

type tiktokOEmbedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// fetchTikTokOEmbed 는 oEmbed 결과를 돌려준다. 실패하면 nil.
func (e *Extractor) fetchTikTokOEmbed(ctx context.Context, videoURL string) *Metadata {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	endpoint := e.cfg.TikTokOEmbedURL + "?url=" + url.QueryEscape(videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}

	resp, err := e.client.Do(req)
	if err != nil {
		logger.WarnWithFields("tiktok oembed failed", logger.Fields{"url": videoURL, "error": err.Error()})
		return nil
	}
	body, err := httpclient.ReadBody(resp, 1<<20)
	if err != nil {
		logger.WarnWithFields("tiktok oembed failed", logger.Fields{"url": videoURL, "error": err.Error()})
		return nil
	}

	var out tiktokOEmbedResponse
	if err := json.Unmarshal(body, &out); err != nil {
		logger.WarnWithFields("tiktok oembed decode failed", logger.Fields{"url": videoURL, "error": err.Error()})
		return nil
	}
	return &Metadata{
		Title:  strings.TrimSpace(out.Title),
		Author: strings.TrimSpace(out.AuthorName),
		Image:  strings.TrimSpace(out.ThumbnailURL),
	}
}

func tiktokNeeds(current Metadata) (title, thumb, author bool) {
	title = current.Title == "" || tiktokPlaceholderTitle.MatchString(current.Title)
	thumb = current.Image == ""
	author = current.Author == ""
	return
}
