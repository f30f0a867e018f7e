package extractor

import (
	"context"

	"nestly/detector"
	"nestly/internal/logger"
	"nestly/models"
)

// Refresh 는 이미 저장된 항목의 비어 있거나 placeholder 인 필드만 다시 수집한다.
// 반환된 bool 은 current 와 달라졌는지 여부이며, 변경이 없으면 외부 호출도 하지 않는다.
func (e *Extractor) Refresh(ctx context.Context, canonicalURL string, platform models.Platform, current Metadata) (Metadata, bool) {
	var updated Metadata
	switch platform {
	case models.PlatformTikTok:
		updated = e.refreshTikTok(ctx, canonicalURL, current)
	case models.PlatformInstagram:
		updated = e.refreshInstagram(ctx, canonicalURL, current)
	case models.PlatformYouTube:
		updated = current
		if updated.Image == "" && detector.YouTubeID(canonicalURL) != "" {
			updated.Image = detector.FallbackThumbnail(canonicalURL)
		}
	default:
		return current, false
	}

	changed := updated != current
	if changed {
		logger.DebugWithFields("item metadata refreshed", logger.Fields{
			"url":      canonicalURL,
			"platform": string(platform),
		})
	}
	return updated, changed
}

func (e *Extractor) refreshTikTok(ctx context.Context, canonicalURL string, current Metadata) Metadata {
	needsTitle, needsThumb, needsAuthor := tiktokNeeds(current)
	if !needsTitle && !needsThumb && !needsAuthor {
		return current
	}

	oembed := e.fetchTikTokOEmbed(ctx, canonicalURL)
	if oembed == nil {
		return current
	}

	updated := current
	if needsTitle && oembed.Title != "" {
		updated.Title = oembed.Title
	}
	if needsAuthor && oembed.Author != "" {
		updated.Author = oembed.Author
	}
	if needsThumb && oembed.Image != "" {
		updated.Image = oembed.Image
	}
	return updated
}

func (e *Extractor) refreshInstagram(ctx context.Context, canonicalURL string, current Metadata) Metadata {
	needsThumb := current.Image == ""
	needsAuthor := current.Author == "" || current.Author == unknownCreator
	if !needsThumb && !needsAuthor {
		return current
	}

	updated := current
	if needsThumb {
		updated.Image = e.fetchInstagramImage(ctx, instagramShortcode(canonicalURL))
	}
	if needsAuthor {
		if derived := instagramAuthorFromTitle(current.Title); derived != "" {
			updated.Author = derived
		}
	}
	if updated.Author == "" {
		updated.Author = defaultInstagram
	}
	return updated
}
