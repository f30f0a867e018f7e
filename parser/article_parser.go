package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/advancedlogic/GoOse/pkg/goose"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"nestly/internal/logger"
)

// ArticleMeta 는 OG 태그가 비어 있을 때 본문 파서로 보완하는 메타데이터이다.
type ArticleMeta struct {
	Title       string
	Description string
	Image       string
	Author      string
}

// Complete 는 네 필드가 모두 채워졌는지 확인한다.
func (m ArticleMeta) Complete() bool {
	return m.Title != "" && m.Description != "" && m.Image != "" && m.Author != ""
}

// fillMissing 은 비어 있는 필드만 other 로 채운다.
func (m *ArticleMeta) fillMissing(other ArticleMeta) {
	if m.Title == "" {
		m.Title = strings.TrimSpace(other.Title)
	}
	if m.Description == "" {
		m.Description = strings.TrimSpace(other.Description)
	}
	if m.Image == "" {
		m.Image = strings.TrimSpace(other.Image)
	}
	if m.Author == "" {
		m.Author = strings.TrimSpace(other.Author)
	}
}

// ParseArticleMeta 는 readability -> trafilatura -> GoOse 순서로 HTML 을 파싱한다.
// 앞선 파서가 채운 필드는 덮어쓰지 않으며, 모든 필드가 채워지면 바로 반환한다.
func ParseArticleMeta(htmlStr string, pageURL string) ArticleMeta {
	var meta ArticleMeta
	if strings.TrimSpace(htmlStr) == "" {
		return meta
	}

	var baseURL *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		baseURL = u
	}

	steps := []struct {
		name  string
		parse func(string, *url.URL) (ArticleMeta, error)
	}{
		{"readability", parseWithReadability},
		{"trafilatura", parseWithTrafilatura},
		{"goose", parseWithGoose},
	}

	for _, step := range steps {
		parsed, err := step.parse(htmlStr, baseURL)
		if err != nil {
			logger.DebugWithFields("article parser failed", logger.Fields{
				"parser": step.name,
				"url":    pageURL,
				"error":  err.Error(),
			})
			continue
		}
		meta.fillMissing(parsed)
		if meta.Complete() {
			break
		}
	}

	meta.Image = resolveImageURL(meta.Image, baseURL)
	return meta
}

// main parser
func parseWithReadability(htmlStr string, baseURL *url.URL) (ArticleMeta, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return ArticleMeta{}, err
	}

	article, err := readability.FromDocument(doc, baseURL)
	if err != nil {
		return ArticleMeta{}, err
	}
	return ArticleMeta{
		Title:       article.Title,
		Description: article.Excerpt,
		Image:       article.Image,
		Author:      article.Byline,
	}, nil
}

func parseWithTrafilatura(htmlStr string, baseURL *url.URL) (ArticleMeta, error) {
	opts := trafilatura.Options{
		IncludeImages: true,
		OriginalURL:   baseURL,
	}

	result, err := trafilatura.Extract(strings.NewReader(htmlStr), opts)
	if err != nil {
		return ArticleMeta{}, err
	}

	return ArticleMeta{
		Title:       result.Metadata.Title,
		Description: result.Metadata.Description,
		Image:       result.Metadata.Image,
		Author:      result.Metadata.Author,
	}, nil
}

func parseWithGoose(htmlStr string, baseURL *url.URL) (meta ArticleMeta, err error) {
	// GoOse 는 깨진 문서에서 panic 을 낼 수 있다.
	defer func() {
		if r := recover(); r != nil {
			meta, err = ArticleMeta{}, fmt.Errorf("goose panic: %v", r)
		}
	}()

	pageURL := ""
	if baseURL != nil {
		pageURL = baseURL.String()
	}

	g := goose.New()
	article, err := g.ExtractFromRawHTML(htmlStr, pageURL)
	if err != nil {
		return ArticleMeta{}, err
	}
	return ArticleMeta{
		Title:       article.Title,
		Description: article.MetaDescription,
		Image:       article.TopImage,
	}, nil
}
