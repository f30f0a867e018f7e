package dto

import (
	"time"

	"nestly/detector"
	"nestly/models"
	"nestly/services"
)

// TagDTO 는 아이템에 붙은 태그 하나다. 수동으로 넣은 태그는 confidence 가 null 이다.
type TagDTO struct {
	Tag        string   `json:"tag" example:"Food"`
	Confidence *float64 `json:"confidence" example:"0.82"`
}

// ItemDTO 는 피드 카드 한 장에 필요한 필드를 담는다.
// fallback_thumbnail_url 은 thumbnail_url 이 없을 때 쓰는 이미지이고, app_link 와 video_id 는 YouTube 링크에서만 채워진다.
type ItemDTO struct {
	ID                   string    `json:"id"`
	URL                  string    `json:"url" example:"https://www.instagram.com/p/ABC"`
	Platform             string    `json:"platform" example:"instagram"`
	Title                *string   `json:"title"`
	ShortTitle           *string   `json:"short_title"`
	Caption              *string   `json:"caption"`
	Author               *string   `json:"author"`
	ThumbnailURL         *string   `json:"thumbnail_url"`
	FallbackThumbnailURL string    `json:"fallback_thumbnail_url,omitempty"`
	AppLink              string    `json:"app_link,omitempty"`
	VideoID              string    `json:"video_id,omitempty"`
	IsDone               bool      `json:"is_done"`
	Tags                 []TagDTO  `json:"tags"`
	Note                 *string   `json:"note"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func NewTagDTOs(tags []models.ItemTag) []TagDTO {
	out := make([]TagDTO, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagDTO{Tag: string(t.Tag), Confidence: t.Confidence})
	}
	return out
}

func NewItemDTO(it models.Item, tags []models.ItemTag, note *models.Note) ItemDTO {
	out := ItemDTO{
		ID:                   it.ID.Hex(),
		URL:                  it.URL,
		Platform:             string(it.Platform),
		Title:                it.Title,
		ShortTitle:           it.ShortTitle,
		Caption:              it.Caption,
		Author:               it.Author,
		ThumbnailURL:         it.ThumbnailURL,
		FallbackThumbnailURL: detector.FallbackThumbnail(it.URL),
		IsDone:               it.IsDone,
		Tags:                 NewTagDTOs(tags),
		CreatedAt:            it.CreatedAt,
		UpdatedAt:            it.UpdatedAt,
	}
	if it.Platform == models.PlatformYouTube {
		out.VideoID = detector.YouTubeID(it.URL)
		out.AppLink = detector.AppLink(it.URL)
	}
	if note != nil {
		body := note.Body
		out.Note = &body
	}
	return out
}

func NewItemDTOFromView(v services.ItemView) ItemDTO {
	return NewItemDTO(v.Item, v.Tags, v.Note)
}

func NewItemPage(page services.FeedPage) Pagination[ItemDTO] {
	data := make([]ItemDTO, 0, len(page.Items))
	for _, v := range page.Items {
		data = append(data, NewItemDTOFromView(v))
	}
	return Pagination[ItemDTO]{Data: data, Page: page.Page, PageSize: page.PageSize, Total: page.Total}
}
