package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nestly/deeplink"
	"nestly/internal/logger"
	"nestly/models"
	"nestly/repositories"
)

// ShareService 는 공유 확장/딥링크로 들어온 입력을 최종 URL 로 해석해 IngestService 로 넘긴다.
type ShareService struct {
	payloads SharedPayloadStore
	ingest   *IngestService
}

func NewShareService(payloads SharedPayloadStore, ingest *IngestService) *ShareService {
	return &ShareService{payloads: payloads, ingest: ingest}
}

// ShareInput 은 Link(딥링크 또는 URL) 또는 Items(공유 항목) 중 하나를 담는다. Link 가 우선이다.
type ShareInput struct {
	Link  string
	Items []deeplink.SharedItem
	Note  string
}

// SaveSharedPayload 는 공유 확장이 넘긴 항목에서 URL 을 뽑아 key 로 맡겨둔다.
func (s *ShareService) SaveSharedPayload(ctx context.Context, userID, key string, items []deeplink.SharedItem) error {
	if userID == "" {
		return ErrUnauthorized
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrShareKeyRequired
	}
	url := deeplink.ExtractURLFromSharedItems(items)
	if url == "" {
		return ErrURLRequired
	}

	if err := s.payloads.Save(ctx, &models.SharedPayload{
		Key:       key,
		UserID:    userID,
		URL:       url,
		CreatedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("save shared payload: %w", err)
	}
	return nil
}

// ResolveURL 은 입력을 원본 URL 로 바꾼다. dataUrl 키는 한 번만 사용할 수 있다.
func (s *ShareService) ResolveURL(ctx context.Context, userID string, in ShareInput) (string, error) {
	if userID == "" {
		return "", ErrUnauthorized
	}

	if link := strings.TrimSpace(in.Link); link != "" {
		share := deeplink.ParseIncomingShare(link)
		switch {
		case share.DirectURL != "":
			return share.DirectURL, nil
		case share.DataKey != "":
			p, err := s.payloads.Take(ctx, userID, share.DataKey)
			if errors.Is(err, repositories.ErrNotFound) {
				return "", ErrSharePayloadNotFound
			}
			if err != nil {
				return "", fmt.Errorf("take shared payload: %w", err)
			}
			return p.URL, nil
		}
		logger.DebugWithFields("unrecognized share link", logger.Fields{"link": link})
	}

	if url := deeplink.ExtractURLFromSharedItems(in.Items); url != "" {
		return url, nil
	}
	return "", ErrURLRequired
}

// IngestShare 는 ResolveURL 뒤 Ingest 를 호출한다.
func (s *ShareService) IngestShare(ctx context.Context, userID string, in ShareInput) (*models.Item, error) {
	url, err := s.ResolveURL(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	return s.ingest.Ingest(ctx, userID, url, in.Note)
}
