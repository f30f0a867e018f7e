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

const (
	unknownCreator   = "Unknown creator"
	defaultInstagram = "Instagram"
)

// "<handle> on Instagram: ..." 형태의 제목에서 작성자를 뽑는다.
var instagramAuthorPattern = regexp.MustCompile(`(?i)^([^:]+)\s+on\s+Instagram`)

type instagramMediaResponse struct {
	Graphql struct {
		ShortcodeMedia struct {
			DisplayURL string `json:"display_url"`
		} `json:"shortcode_media"`
	} `json:"graphql"`
	Items []struct {
		ImageVersions2 struct {
			Candidates []struct {
				URL string `json:"url"`
			} `json:"candidates"`
		} `json:"image_versions2"`
	} `json:"items"`
}

func (r instagramMediaResponse) displayURL() string {
	if r.Graphql.ShortcodeMedia.DisplayURL != "" {
		return r.Graphql.ShortcodeMedia.DisplayURL
	}
	if len(r.Items) > 0 && len(r.Items[0].ImageVersions2.Candidates) > 0 {
		return r.Items[0].ImageVersions2.Candidates[0].URL
	}
	return ""
}

// instagramShortcode 는 /p/<code>, /reel/<code>, /tv/<code> 에서 shortcode 를 꺼낸다.
func instagramShortcode(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return ""
	}
	switch parts[0] {
	case "p", "reel", "tv":
		return parts[1]
	}
	return ""
}

func instagramAuthorFromTitle(title string) string {
	m := instagramAuthorPattern.FindStringSubmatch(title)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// fetchInstagramImage 는 JSON 엔드포인트의 display 이미지를 먼저 시도하고,
// 실패하면 비인증 공개 미디어 URL 을 돌려준다.
func (e *Extractor) fetchInstagramImage(ctx context.Context, shortcode string) string {
	if shortcode == "" {
		return ""
	}
	base := strings.TrimRight(e.cfg.InstagramBaseURL, "/")

	if img, err := e.fetchInstagramDisplayURL(ctx, base, shortcode); err != nil {
		logger.DebugWithFields("instagram json lookup failed", logger.Fields{
			"shortcode": shortcode,
			"error":     err.Error(),
		})
	} else if img != "" {
		return img
	}

	return base + "/p/" + url.PathEscape(shortcode) + "/media/?size=l"
}

func (e *Extractor) fetchInstagramDisplayURL(ctx context.Context, base, shortcode string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	endpoint := base + "/p/" + url.PathEscape(shortcode) + "/?__a=1&__d=dis"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	body, err := httpclient.ReadBody(resp, 2<<20)
	if err != nil {
		return "", err
	}

	var out instagramMediaResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.displayURL(), nil
}
