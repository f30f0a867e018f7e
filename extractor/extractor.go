package extractor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"nestly/config"
	"nestly/detector"
	"nestly/httpclient"
	"nestly/internal/logger"
	"nestly/models"
	"nestly/renderer"
)

const maxPageBytes = 5 << 20

// Metadata 는 링크 하나에 대해 수집한 best-effort 메타데이터이다. 빈 문자열은 "없음"이다.
type Metadata struct {
	Title       string
	Description string
	Author      string
	Image       string
}

// FetchError 는 페이지 자체를 가져오지 못한 경우다. "받았지만 메타데이터가 없음"과 구분된다.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable 은 항상 true 다. 페이지 fetch 실패는 일시적인 장애로 취급한다.
func (e *FetchError) Retryable() bool { return true }

// RenderFunc 는 JS 렌더링이 필요한 페이지의 HTML 을 돌려준다.
type RenderFunc func(ctx context.Context, url string) (string, error)

type Config struct {
	FetchTimeout     time.Duration
	RenderFallback   bool
	TikTokOEmbedURL  string
	InstagramBaseURL string
}

// ConfigFrom 은 config.yaml 의 extractor 섹션을 변환한다.
func ConfigFrom(c config.ExtractorConfig) Config {
	return Config{
		FetchTimeout:     time.Duration(c.FetchTimeoutSeconds) * time.Second,
		RenderFallback:   c.RenderFallback,
		TikTokOEmbedURL:  c.TikTokOEmbedURL,
		InstagramBaseURL: c.InstagramBaseURL,
	}
}

type Extractor struct {
	client *http.Client
	cfg    Config
	render RenderFunc
}

type Option func(*Extractor)

// WithRenderFunc 는 chromedp 렌더러 대신 사용할 함수를 지정한다.
func WithRenderFunc(fn RenderFunc) Option {
	return func(e *Extractor) { e.render = fn }
}

// WithHTTPClient 는 외부 fetch 에 사용할 클라이언트를 지정한다.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Extractor) { e.client = client }
}

func New(cfg Config, opts ...Option) *Extractor {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	if cfg.TikTokOEmbedURL == "" {
		cfg.TikTokOEmbedURL = "https://www.tiktok.com/oembed"
	}
	if cfg.InstagramBaseURL == "" {
		cfg.InstagramBaseURL = "https://www.instagram.com"
	}

	e := &Extractor{cfg: cfg, render: renderer.RenderHTML}
	for _, opt := range opts {
		opt(e)
	}
	if e.client == nil {
		// 요청별 타임아웃은 context 로 걸고, 클라이언트 타임아웃은 상한으로만 둔다.
		e.client = httpclient.New(httpclient.Config{
			Timeout:   2 * cfg.FetchTimeout,
			UserAgent: renderer.UserAgent,
		})
	}
	return e
}

// Extract 는 OG 스크랩, TikTok oEmbed, Instagram 이미지 조회를 동시에 수행하고 결과를 병합한다.
// 개별 단계의 실패는 빈 필드로 흡수되며, 페이지 fetch 자체가 실패한 경우에만
// 수집된 부분 결과와 함께 *FetchError 를 반환한다.
func (e *Extractor) Extract(ctx context.Context, canonicalURL string, platform models.Platform) (Metadata, error) {
	var (
		page      Metadata
		pageErr   error
		oembed    *Metadata
		instaImg  string
		shortcode = instagramShortcode(canonicalURL)
	)

	var g errgroup.Group
	g.Go(func() error {
		page, pageErr = e.scrapePage(ctx, canonicalURL)
		return nil
	})
	if platform == models.PlatformTikTok {
		g.Go(func() error {
			oembed = e.fetchTikTokOEmbed(ctx, canonicalURL)
			return nil
		})
	}
	if platform == models.PlatformInstagram && shortcode != "" {
		g.Go(func() error {
			instaImg = e.fetchInstagramImage(ctx, shortcode)
			return nil
		})
	}
	_ = g.Wait()

	meta := page

	// oEmbed 값은 OG 값보다 신뢰도가 높으므로 덮어쓴다.
	if oembed != nil {
		meta.Title = firstNonEmpty(oembed.Title, meta.Title)
		meta.Author = firstNonEmpty(oembed.Author, meta.Author)
		meta.Image = firstNonEmpty(oembed.Image, meta.Image)
	}

	if platform == models.PlatformInstagram {
		if meta.Image == "" {
			meta.Image = instaImg
		}
		if meta.Author == "" {
			meta.Author = instagramAuthorFromTitle(meta.Title)
		}
	}

	if platform == models.PlatformYouTube && meta.Image == "" && detector.YouTubeID(canonicalURL) != "" {
		meta.Image = detector.FallbackThumbnail(canonicalURL)
	}

	if pageErr != nil {
		logger.WarnWithFields("page fetch failed", logger.Fields{
			"url":      canonicalURL,
			"platform": string(platform),
			"error":    pageErr.Error(),
		})
		return meta, &FetchError{URL: canonicalURL, Err: pageErr}
	}
	return meta, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
