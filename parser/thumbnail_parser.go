package parser

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"nestly/httpclient"
	"nestly/internal/logger"
)

const (
	minImageWidth  = 300
	minImageHeight = 300
	maxImageBytes  = 8 << 20
)

// ParseTopImageFromHTML 은 OG 태그 외의 경로로 대표 이미지를 찾는다.
// 우선순위: 메타 태그 → link rel=image_src → 충분히 큰 <img>.
// client 는 <img> 의 실제 크기를 확인할 때만 사용한다. nil 이면 크기 확인을 건너뛴다.
func ParseTopImageFromHTML(ctx context.Context, client *http.Client, htmlStr string, pageURL string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", err
	}

	var baseURL *url.URL
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			baseURL = u
		}
	}

	if imgURL := findTopImageFromMeta(doc); imgURL != "" {
		return resolveImageURL(imgURL, baseURL), nil
	}

	if imgURL := findTopImageFromLink(doc); imgURL != "" {
		return resolveImageURL(imgURL, baseURL), nil
	}

	if imgURL := findTopImageFromImg(ctx, client, doc, baseURL); imgURL != "" {
		return imgURL, nil
	}

	logger.DebugWithFields("there is no top image", logger.Fields{
		"url":       pageURL,
		"html_size": len(htmlStr),
	})
	return "", nil
}

func findTopImageFromMeta(doc *html.Node) string {
	// 우선순위: Open Graph 이미지 → Twitter 카드 이미지 → 기타 이미지 관련 메타
	if u := findMetaContent(doc, "property", []string{
		"og:image",
		"og:image:url",
		"og:image:secure_url",
	}); u != "" {
		return u
	}

	if u := findMetaContent(doc, "name", []string{
		"twitter:image",
		"twitter:image:src",
		"thumbnail",
		"image",
	}); u != "" {
		return u
	}

	return findMetaContent(doc, "itemprop", []string{"image"})
}

func findMetaContent(root *html.Node, key string, candidates []string) string {
	candidateSet := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		candidateSet[strings.ToLower(c)] = struct{}{}
	}
	key = strings.ToLower(key)

	var result string
	walkElements(root, "meta", func(n *html.Node) bool {
		var attrValue, content string
		for _, a := range n.Attr {
			switch strings.ToLower(a.Key) {
			case key:
				attrValue = strings.ToLower(a.Val)
			case "content":
				content = strings.TrimSpace(a.Val)
			}
		}
		if content == "" || attrValue == "" {
			return false
		}
		if _, ok := candidateSet[attrValue]; ok {
			result = content
			return true
		}
		return false
	})
	return result
}

func findTopImageFromLink(doc *html.Node) string {
	var result string
	walkElements(doc, "link", func(n *html.Node) bool {
		var rel, href string
		for _, a := range n.Attr {
			switch strings.ToLower(a.Key) {
			case "rel":
				rel = strings.ToLower(a.Val)
			case "href":
				href = strings.TrimSpace(a.Val)
			}
		}
		if href != "" && (rel == "image_src" || strings.Contains(rel, "thumbnail")) {
			result = href
			return true
		}
		return false
	})
	return result
}

// findTopImageFromImg 는 본문 이미지 중 썸네일로 쓰기 충분한 크기의 첫 이미지를 찾는다.
// width/height 속성이 선언돼 있으면 그 값을 믿고, 없으면 이미지를 받아 실제 크기를 확인한다.
func findTopImageFromImg(ctx context.Context, client *http.Client, doc *html.Node, baseURL *url.URL) string {
	var result string
	walkElements(doc, "img", func(n *html.Node) bool {
		var src string
		var declaredWidth, declaredHeight int
		for _, a := range n.Attr {
			switch strings.ToLower(a.Key) {
			case "src":
				src = strings.TrimSpace(a.Val)
			case "width":
				if v, err := strconv.Atoi(a.Val); err == nil {
					declaredWidth = v
				}
			case "height":
				if v, err := strconv.Atoi(a.Val); err == nil {
					declaredHeight = v
				}
			}
		}

		absURL, ok := makeAbsoluteImageURL(src, baseURL)
		if !ok {
			return false
		}
		if declaredWidth > 0 && declaredWidth < minImageWidth {
			return false
		}
		if declaredHeight > 0 && declaredHeight < minImageHeight {
			return false
		}
		if declaredWidth >= minImageWidth && declaredHeight >= minImageHeight {
			result = absURL
			return true
		}
		if client == nil {
			return false
		}

		width, height, err := fetchImageDimensions(ctx, client, absURL)
		if err != nil {
			return false
		}
		if width >= minImageWidth && height >= minImageHeight {
			result = absURL
			return true
		}
		return false
	})
	return result
}

// walkElements 는 tag 이름이 일치하는 element 를 문서 순서대로 방문한다. visit 이 true 를 반환하면 중단한다.
func walkElements(root *html.Node, tag string, visit func(*html.Node) bool) {
	done := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil || done {
			return
		}
		if n.Type == html.ElementNode && n.Data == tag && visit(n) {
			done = true
			return
		}
		for c := n.FirstChild; c != nil && !done; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

func makeAbsoluteImageURL(src string, baseURL *url.URL) (string, bool) {
	if src == "" || strings.HasPrefix(src, "data:") {
		return "", false
	}

	parsed, err := url.Parse(src)
	if err != nil {
		return "", false
	}

	if parsed.IsAbs() {
		return parsed.String(), true
	}

	if baseURL == nil {
		return "", false
	}

	return baseURL.ResolveReference(parsed).String(), true
}

func resolveImageURL(src string, baseURL *url.URL) string {
	if src == "" {
		return ""
	}

	if abs, ok := makeAbsoluteImageURL(src, baseURL); ok {
		return abs
	}

	return src
}

func fetchImageDimensions(ctx context.Context, client *http.Client, imageURL string) (int, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return 0, 0, &httpclient.StatusError{URL: imageURL, StatusCode: resp.StatusCode}
	}
	defer resp.Body.Close()

	cfg, _, err := image.DecodeConfig(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
