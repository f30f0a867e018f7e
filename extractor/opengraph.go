package extractor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"nestly/httpclient"
	"nestly/internal/logger"
	"nestly/parser"
)

var errNoRenderer = errors.New("renderer not configured")

// scrapePage 는 페이지를 받아 OG 태그를 읽고, 빈 필드는 본문 파서와 이미지 탐색으로 채운다.
func (e *Extractor) scrapePage(ctx context.Context, pageURL string) (Metadata, error) {
	htmlStr, err := e.fetchPage(ctx, pageURL)
	rendered := false
	if err != nil && e.cfg.RenderFallback {
		if h, rerr := e.renderPage(ctx, pageURL); rerr == nil {
			htmlStr, err, rendered = h, nil, true
		}
	}
	if err != nil {
		return Metadata{}, err
	}

	meta := parseOpenGraph(htmlStr)

	// 클라이언트 렌더링 페이지는 정적 HTML 에 제목이 없는 경우가 많다.
	if meta.Title == "" && e.cfg.RenderFallback && !rendered {
		if h, rerr := e.renderPage(ctx, pageURL); rerr == nil {
			if m := parseOpenGraph(h); m.Title != "" {
				meta, htmlStr = m, h
			}
		}
	}

	if meta.Title == "" || meta.Description == "" || meta.Image == "" || meta.Author == "" {
		article := parser.ParseArticleMeta(htmlStr, pageURL)
		meta.Title = firstNonEmpty(meta.Title, article.Title)
		meta.Description = firstNonEmpty(meta.Description, article.Description)
		meta.Image = firstNonEmpty(meta.Image, article.Image)
		meta.Author = firstNonEmpty(meta.Author, article.Author)
	}

	if meta.Image == "" {
		imgCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
		img, err := parser.ParseTopImageFromHTML(imgCtx, e.client, htmlStr, pageURL)
		cancel()
		if err == nil {
			meta.Image = img
		}
	}

	meta.Image = absoluteURL(meta.Image, pageURL)
	return meta, nil
}

// fetchPage 는 브라우저 UA 로 HTML 을 받는다. 네트워크 오류, 5xx, 429 는 fetch 실패로 본다.
// 그 밖의 4xx 는 받은 본문을 그대로 돌려준다.
func (e *Extractor) fetchPage(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return "", &httpclient.StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (e *Extractor) renderPage(ctx context.Context, pageURL string) (string, error) {
	if e.render == nil {
		return "", errNoRenderer
	}
	// 렌더링은 일반 fetch 보다 오래 걸리므로 3배의 시간을 준다.
	ctx, cancel := context.WithTimeout(ctx, 3*e.cfg.FetchTimeout)
	defer cancel()

	htmlStr, err := e.render(ctx, pageURL)
	if err != nil {
		logger.WarnWithFields("render fallback failed", logger.Fields{
			"url":   pageURL,
			"error": err.Error(),
		})
		return "", err
	}
	return htmlStr, nil
}

// parseOpenGraph 는 og:title(없으면 <title>), og:description, og:image, meta name=author 를 읽는다.
func parseOpenGraph(htmlStr string) Metadata {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return Metadata{}
	}

	meta := Metadata{
		Title:       metaContent(doc, `meta[property="og:title"]`, `meta[name="og:title"]`),
		Description: metaContent(doc, `meta[property="og:description"]`, `meta[name="og:description"]`),
		Image:       metaContent(doc, `meta[property="og:image"]`, `meta[property="og:image:url"]`, `meta[name="og:image"]`),
		Author:      metaContent(doc, `meta[name="author"]`),
	}
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return meta
}

func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if v := strings.TrimSpace(doc.Find(sel).First().AttrOr("content", "")); v != "" {
			return v
		}
	}
	return ""
}

func absoluteURL(ref string, pageURL string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
