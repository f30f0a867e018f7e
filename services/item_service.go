package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nestly/models"
	"nestly/repositories"
)

// FeedAll 은 태그 필터 없이 전체 피드를 뜻한다. Inbox 는 완료되지 않은 아이템이다.
const FeedAll = "All"

// ItemView 는 아이템과 그 태그, 노트를 묶은 것이다.
type ItemView struct {
	Item models.Item
	Tags []models.ItemTag
	Note *models.Note
}

type FeedQuery struct {
	Tag      string
	Page     int
	PageSize int
}

type FeedPage struct {
	Items    []ItemView
	Total    int64
	Page     int
	PageSize int
}

// TagInput 은 사용자가 직접 붙이는 태그다. Confidence 는 nil 일 수 있다.
type TagInput struct {
	Tag        string
	Confidence *float64
}

// ItemService 는 피드 조회와 사용자 조작(done, 수동 태그)을 담당한다.
type ItemService struct {
	items ItemStore
	tags  TagStore
	notes NoteStore
}

func NewItemService(items ItemStore, tags TagStore, notes NoteStore) *ItemService {
	return &ItemService{items: items, tags: tags, notes: notes}
}

func (s *ItemService) find(ctx context.Context, userID, hexID string) (*models.Item, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, ErrItemNotFound
	}
	item, err := s.items.FindByIDForUser(ctx, userID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	return item, nil
}

// Get loads one item of the user with its tags and note
func (s *ItemService) Get(ctx context.Context, userID, hexID string) (*ItemView, error) {
	item, err := s.find(ctx, userID, hexID)
	if err != nil {
		return nil, err
	}
	views, err := s.attach(ctx, []models.Item{*item})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListFeed 는 최신순 피드다. Tag 가 비었거나 All 이면 전체, Inbox 면 완료되지 않은 아이템,
// 그 외에는 해당 태그가 붙은 아이템만 돌려준다.
func (s *ItemService) ListFeed(ctx context.Context, userID string, q FeedQuery) (FeedPage, error) {
	if userID == "" {
		return FeedPage{}, ErrUnauthorized
	}

	opt := repositories.ListItemsOptions{UserID: userID, Page: q.Page, PageSize: q.PageSize}
	tagName := strings.TrimSpace(q.Tag)
	switch {
	case tagName == "" || strings.EqualFold(tagName, FeedAll):
	case strings.EqualFold(tagName, string(models.TagInbox)):
		opt.OnlyNotDone = true
	default:
		tag, ok := models.ParseTag(tagName)
		if !ok {
			return FeedPage{}, ErrInvalidTag
		}
		ids, err := s.tags.ItemIDsByTag(ctx, userID, tag)
		if err != nil {
			return FeedPage{}, fmt.Errorf("list item ids by tag: %w", err)
		}
		if ids == nil {
			ids = []primitive.ObjectID{}
		}
		opt.IDs = ids
	}

	items, total, err := s.items.List(ctx, opt)
	if err != nil {
		return FeedPage{}, fmt.Errorf("list items: %w", err)
	}
	views, err := s.attach(ctx, items)
	if err != nil {
		return FeedPage{}, err
	}

	page, pageSize := q.Page, q.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return FeedPage{Items: views, Total: total, Page: page, PageSize: pageSize}, nil
}

// attach 는 아이템들에 태그와 노트를 붙인다. 태그는 confidence 내림차순이다.
func (s *ItemService) attach(ctx context.Context, items []models.Item) ([]ItemView, error) {
	views := make([]ItemView, len(items))
	if len(items) == 0 {
		return views, nil
	}

	ids := make([]primitive.ObjectID, len(items))
	index := make(map[primitive.ObjectID]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
		index[it.ID] = i
		views[i] = ItemView{Item: it, Tags: []models.ItemTag{}}
	}

	tags, err := s.tags.ListByItemIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	for _, t := range tags {
		if i, ok := index[t.ItemID]; ok {
			views[i].Tags = append(views[i].Tags, t)
		}
	}

	if s.notes != nil {
		notes, err := s.notes.ListByItemIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("list notes: %w", err)
		}
		for _, n := range notes {
			if i, ok := index[n.ItemID]; ok {
				note := n
				views[i].Note = &note
			}
		}
	}

	for i := range views {
		sortTags(views[i].Tags)
	}
	return views, nil
}

func (s *ItemService) SetDone(ctx context.Context, userID, hexID string, done bool) error {
	if userID == "" {
		return ErrUnauthorized
	}
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return ErrItemNotFound
	}
	if err := s.items.SetDone(ctx, userID, id, done); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("set done: %w", err)
	}
	return nil
}

// UpsertTags 는 수동 태그를 (item_id, tag) 기준으로 upsert 하고 아이템의 전체 태그를 돌려준다.
func (s *ItemService) UpsertTags(ctx context.Context, userID, hexID string, in []TagInput) ([]models.ItemTag, error) {
	rows := make([]models.ItemTag, 0, len(in))
	for _, t := range in {
		tag, ok := models.ParseTag(t.Tag)
		if !ok {
			return nil, ErrInvalidTag
		}
		var confidence *float64
		if t.Confidence != nil {
			c := min(max(*t.Confidence, 0), 1)
			confidence = &c
		}
		rows = append(rows, models.ItemTag{Tag: tag, Confidence: confidence})
	}

	item, err := s.find(ctx, userID, hexID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].ItemID = item.ID
		rows[i].UserID = item.UserID
	}
	if err := s.tags.UpsertMany(ctx, rows); err != nil {
		return nil, fmt.Errorf("upsert tags: %w", err)
	}

	tags, err := s.tags.ListByItemIDs(ctx, []primitive.ObjectID{item.ID})
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	sortTags(tags)
	return tags, nil
}

// sortTags 는 confidence 내림차순, confidence 가 없는 태그는 뒤로 보낸다.
func sortTags(tags []models.ItemTag) {
	sort.SliceStable(tags, func(i, j int) bool {
		ci, cj := tags[i].Confidence, tags[j].Confidence
		switch {
		case ci == nil:
			return false
		case cj == nil:
			return true
		default:
			return *ci > *cj
		}
	})
}
