package repositories

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nestly/models"
)

// MemoryStore 는 Mongo 컬렉션과 같은 unique 키를 지키는 인메모리 저장소다.
// 테스트와 로컬 실행에서 ItemRepository 등 대신 쓴다.
type MemoryStore struct {
	mu       sync.Mutex
	items    map[primitive.ObjectID]models.Item
	tags     map[tagKey]models.ItemTag
	notes    map[primitive.ObjectID]models.Note
	payloads map[payloadKey]models.SharedPayload
}

type tagKey struct {
	itemID primitive.ObjectID
	tag    models.Tag
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:    make(map[primitive.ObjectID]models.Item),
		tags:     make(map[tagKey]models.ItemTag),
		notes:    make(map[primitive.ObjectID]models.Note),
		payloads: make(map[payloadKey]models.SharedPayload),
	}
}

func (m *MemoryStore) Items() *MemoryItems       { return &MemoryItems{m} }
func (m *MemoryStore) Tags() *MemoryTags         { return &MemoryTags{m} }
func (m *MemoryStore) Notes() *MemoryNotes       { return &MemoryNotes{m} }
func (m *MemoryStore) Payloads() *MemoryPayloads { return &MemoryPayloads{m} }

// ---- items (uniq_user_url) ----

type MemoryItems struct{ s *MemoryStore }

func (r *MemoryItems) Count() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.items)
}

func (r *MemoryItems) FindByUserAndURL(ctx context.Context, userID, url string) (*models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if it.UserID == userID && it.URL == url {
			cp := it
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryItems) FindByIDForUser(ctx context.Context, userID string, id primitive.ObjectID) (*models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok || it.UserID != userID {
		return nil, ErrNotFound
	}
	return &it, nil
}

func (r *MemoryItems) Insert(ctx context.Context, it *models.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.items {
		if existing.UserID == it.UserID && existing.URL == it.URL {
			return ErrDuplicateItem
		}
	}
	now := time.Now()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	it.UpdatedAt = now
	if it.ID.IsZero() {
		it.ID = primitive.NewObjectID()
	}
	r.s.items[it.ID] = *it
	return nil
}

func (r *MemoryItems) UpdateMetadata(ctx context.Context, it *models.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.items[it.ID]
	if !ok {
		return nil
	}
	it.UpdatedAt = time.Now()
	stored.Title, stored.Caption, stored.Author, stored.ThumbnailURL = it.Title, it.Caption, it.Author, it.ThumbnailURL
	stored.UpdatedAt = it.UpdatedAt
	r.s.items[it.ID] = stored
	return nil
}

func (r *MemoryItems) UpdateShortTitle(ctx context.Context, id primitive.ObjectID, title string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if stored, ok := r.s.items[id]; ok {
		stored.ShortTitle = &title
		stored.UpdatedAt = time.Now()
		r.s.items[id] = stored
	}
	return nil
}

func (r *MemoryItems) SetDone(ctx context.Context, userID string, id primitive.ObjectID, done bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.items[id]
	if !ok || stored.UserID != userID {
		return ErrNotFound
	}
	stored.IsDone = done
	stored.UpdatedAt = time.Now()
	r.s.items[id] = stored
	return nil
}

func (r *MemoryItems) List(ctx context.Context, opt ListItemsOptions) ([]models.Item, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []models.Item
	for _, it := range r.s.items {
		if it.UserID != opt.UserID {
			continue
		}
		if opt.OnlyNotDone && it.IsDone {
			continue
		}
		if opt.IDs != nil && !slices.Contains(opt.IDs, it.ID) {
			continue
		}
		matched = append(matched, it)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.Hex() > matched[j].ID.Hex()
	})

	if opt.Page <= 0 {
		opt.Page = 1
	}
	if opt.PageSize <= 0 || opt.PageSize > 100 {
		opt.PageSize = 20
	}
	start := min((opt.Page-1)*opt.PageSize, len(matched))
	end := min(start+opt.PageSize, len(matched))
	return append([]models.Item{}, matched[start:end]...), int64(len(matched)), nil
}

// ---- item_tags (uniq_item_tag) ----

type MemoryTags struct{ s *MemoryStore }

func (r *MemoryTags) Count() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.tags)
}

func (r *MemoryTags) UpsertMany(ctx context.Context, tags []models.ItemTag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for _, t := range tags {
		key := tagKey{t.ItemID, t.Tag}
		row, ok := r.s.tags[key]
		if !ok {
			row = models.ItemTag{ID: primitive.NewObjectID(), ItemID: t.ItemID, Tag: t.Tag, CreatedAt: now}
		}
		row.UserID = t.UserID
		row.Confidence = t.Confidence
		row.UpdatedAt = now
		r.s.tags[key] = row
	}
	return nil
}

func (r *MemoryTags) DistinctTagsByUser(ctx context.Context, userID string) ([]models.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Tag
	for _, t := range r.s.tags {
		if t.UserID == userID && !slices.Contains(out, t.Tag) {
			out = append(out, t.Tag)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (r *MemoryTags) ListByItemIDs(ctx context.Context, itemIDs []primitive.ObjectID) ([]models.ItemTag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.ItemTag
	for _, t := range r.s.tags {
		if slices.Contains(itemIDs, t.ItemID) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out, nil
}

func (r *MemoryTags) ItemIDsByTag(ctx context.Context, userID string, tag models.Tag) ([]primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []primitive.ObjectID
	for _, t := range r.s.tags {
		if t.UserID == userID && t.Tag == tag {
			out = append(out, t.ItemID)
		}
	}
	return out, nil
}

// ---- notes (uniq_item_note) ----

type MemoryNotes struct{ s *MemoryStore }

func (r *MemoryNotes) Upsert(ctx context.Context, n *models.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.UpdatedAt = time.Now()
	r.s.notes[n.ItemID] = *n
	return nil
}

func (r *MemoryNotes) ListByItemIDs(ctx context.Context, itemIDs []primitive.ObjectID) ([]models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Note
	for _, id := range itemIDs {
		if n, ok := r.s.notes[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// ---- shared_payloads (uniq_user_share_key) ----

type payloadKey struct{ userID, key string }

type MemoryPayloads struct{ s *MemoryStore }

func (r *MemoryPayloads) Save(ctx context.Context, p *models.SharedPayload) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.CreatedAt = time.Now()
	r.s.payloads[payloadKey{p.UserID, p.Key}] = *p
	return nil
}

func (r *MemoryPayloads) Take(ctx context.Context, userID, key string) (*models.SharedPayload, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := payloadKey{userID, key}
	p, ok := r.s.payloads[k]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.s.payloads, k)
	return &p, nil
}
