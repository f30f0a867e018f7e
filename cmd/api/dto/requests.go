package dto

import (
	"nestly/deeplink"
	"nestly/services"
)

// IngestRequestDTO 는 링크 저장 요청이다.
type IngestRequestDTO struct {
	URL  string `json:"url" example:"https://www.instagram.com/p/ABC/?igsh=xyz"`
	Note string `json:"note" example:"주말에 가볼 곳"`
}

type ClassifyRequestDTO struct {
	ItemID   string   `json:"itemId" binding:"required" example:"665f1c2e9b1e8a0d4c3b2a10"`
	Title    string   `json:"title"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

func (r ClassifyRequestDTO) ToInput() services.ClassifyInput {
	return services.ClassifyInput{ItemID: r.ItemID, Title: r.Title, Caption: r.Caption, Hashtags: r.Hashtags}
}

// ScoreDTO 는 분류 결과 하나다.
type ScoreDTO struct {
	Tag        string  `json:"tag" example:"Travel"`
	Confidence float64 `json:"confidence" example:"0.9"`
}

type SetDoneRequestDTO struct {
	Done *bool `json:"done" binding:"required"`
}

type TagRequestDTO struct {
	Tag        string   `json:"tag" binding:"required" example:"Home"`
	Confidence *float64 `json:"confidence"`
}

func ToTagInputs(in []TagRequestDTO) []services.TagInput {
	out := make([]services.TagInput, 0, len(in))
	for _, t := range in {
		out = append(out, services.TagInput{Tag: t.Tag, Confidence: t.Confidence})
	}
	return out
}

// SaveShareRequestDTO 는 공유 확장이 dataUrl 키로 공유 항목을 맡기는 요청이다.
type SaveShareRequestDTO struct {
	Key   string                `json:"key" example:"nestlyShareKey"`
	Items []deeplink.SharedItem `json:"items"`
}

// ShareIngestRequestDTO 는 딥링크나 공유 항목으로 들어온 링크를 저장하는 요청이다.
type ShareIngestRequestDTO struct {
	Link  string                `json:"link" example:"nestly://shared?url=https%3A%2F%2Fyoutu.be%2Fabc"`
	Items []deeplink.SharedItem `json:"items"`
	Note  string                `json:"note"`
}

func (r ShareIngestRequestDTO) ToInput() services.ShareInput {
	return services.ShareInput{Link: r.Link, Items: r.Items, Note: r.Note}
}
