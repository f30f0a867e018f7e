package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nestly/canonicalizer"
	"nestly/detector"
	"nestly/extractor"
	"nestly/internal/logger"
	"nestly/models"
	"nestly/repositories"
)

// IngestService 는 URL 하나를 정규화, 중복 확인, 메타데이터 수집, 분류를 거쳐 저장한다.
type IngestService struct {
	items     ItemStore
	notes     NoteStore
	extractor MetadataExtractor
	tagging   *TaggingService
	publisher EventPublisher
}

func NewIngestService(items ItemStore, notes NoteStore, ext MetadataExtractor, tagging *TaggingService, publisher EventPublisher) *IngestService {
	return &IngestService{
		items:     items,
		notes:     notes,
		extractor: ext,
		tagging:   tagging,
		publisher: publisher,
	}
}

// Ingest 는 (userID, canonical url) 당 하나의 아이템을 돌려준다.
// 이미 있으면 빠진 메타데이터만 보강하고 분류는 다시 하지 않는다.
// 인증/입력 오류와 저장소 오류만 에러이며, 수집과 분류 실패는 빈 필드로 남는다.
func (s *IngestService) Ingest(ctx context.Context, userID, rawURL, note string) (*models.Item, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthorized
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrURLRequired
	}

	canonical := canonicalizer.Canonicalize(rawURL)
	platform := detector.Detect(canonical)

	existing, err := s.items.FindByUserAndURL(ctx, userID, canonical)
	if err == nil {
		return s.enrichExisting(ctx, existing)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("find item: %w", err)
	}

	meta, extractErr := s.extractor.Extract(ctx, canonical, platform)
	if extractErr != nil {
		logger.WarnWithFields("metadata extraction degraded", logger.Fields{
			"url":      canonical,
			"platform": string(platform),
			"error":    extractErr.Error(),
		})
	}

	item := &models.Item{
		UserID:       userID,
		URL:          canonical,
		Platform:     platform,
		Title:        models.StringPtr(meta.Title),
		Caption:      models.StringPtr(meta.Description),
		Author:       models.StringPtr(meta.Author),
		ThumbnailURL: models.StringPtr(meta.Image),
	}
	if err := s.items.Insert(ctx, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateItem) {
			// 동시에 같은 URL 이 저장된 경우. 먼저 저장된 아이템을 dedup hit 로 처리한다.
			winner, findErr := s.items.FindByUserAndURL(ctx, userID, canonical)
			if findErr != nil {
				return nil, fmt.Errorf("find item after duplicate insert: %w", findErr)
			}
			logger.InfoWithFields("concurrent ingest resolved as dedup hit", logger.Fields{
				"item_id": winner.ID.Hex(),
				"url":     canonical,
			})
			return s.enrichExisting(ctx, winner)
		}
		return nil, fmt.Errorf("insert item: %w", err)
	}

	fields := logger.WithRequest(ctx, logger.Fields{"item_id": item.ID.Hex(), "user_id": userID, "url": canonical})
	logger.InfoWithFields("item saved", fields)

	if body := strings.TrimSpace(note); body != "" && s.notes != nil {
		if err := s.notes.Upsert(ctx, &models.Note{ItemID: item.ID, UserID: userID, Body: body}); err != nil {
			logger.WarnWithFields("failed to attach note", withError(fields, err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishItemSaved(ctx, item); err != nil {
			logger.WarnWithFields("failed to publish item.saved", withError(fields, err))
		}
	}

	if s.tagging != nil {
		caption := models.Deref(item.Caption)
		if _, err := s.tagging.classifyAndStore(ctx, item, models.Deref(item.Title), caption, ExtractHashtags(caption)); err != nil {
			logger.WarnWithFields("failed to store tags", withError(fields, err))
		}
	}

	return item, nil
}

func metadataOf(item *models.Item) extractor.Metadata {
	return extractor.Metadata{
		Title:       models.Deref(item.Title),
		Description: models.Deref(item.Caption),
		Author:      models.Deref(item.Author),
		Image:       models.Deref(item.ThumbnailURL),
	}
}

// enrichExisting 은 dedup hit 에서 비어 있거나 placeholder 인 필드만 다시 채워 저장한다.
func (s *IngestService) enrichExisting(ctx context.Context, item *models.Item) (*models.Item, error) {
	current := metadataOf(item)
	updated, changed := s.extractor.Refresh(ctx, item.URL, item.Platform, current)
	if !changed {
		return item, nil
	}

	var changedFields []string
	if updated.Title != current.Title {
		item.Title = models.StringPtr(updated.Title)
		changedFields = append(changedFields, "title")
	}
	if updated.Description != current.Description {
		item.Caption = models.StringPtr(updated.Description)
		changedFields = append(changedFields, "caption")
	}
	if updated.Author != current.Author {
		item.Author = models.StringPtr(updated.Author)
		changedFields = append(changedFields, "author")
	}
	if updated.Image != current.Image {
		item.ThumbnailURL = models.StringPtr(updated.Image)
		changedFields = append(changedFields, "thumbnail_url")
	}

	if err := s.items.UpdateMetadata(ctx, item); err != nil {
		return nil, fmt.Errorf("update item metadata: %w", err)
	}

	logger.InfoWithFields("existing item enriched", logger.Fields{
		"item_id": item.ID.Hex(),
		"fields":  strings.Join(changedFields, ","),
	})
	if s.publisher != nil {
		if err := s.publisher.PublishItemEnriched(ctx, item, changedFields); err != nil {
			logger.WarnWithFields("failed to publish item.enriched", logger.Fields{
				"item_id": item.ID.Hex(),
				"error":   err.Error(),
			})
		}
	}
	return item, nil
}
