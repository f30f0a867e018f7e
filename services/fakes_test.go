package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nestly/classifier"
	"nestly/events"
	"nestly/extractor"
	"nestly/models"
	"nestly/repositories"
)

// fakeExtractor 는 URL 별 고정 메타데이터를 돌려준다.
type fakeExtractor struct {
	mu       sync.Mutex
	meta     map[string]extractor.Metadata
	err      error
	refresh  func(current extractor.Metadata) extractor.Metadata
	extracts atomic.Int32
	refreshs atomic.Int32
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{meta: make(map[string]extractor.Metadata)}
}

func (f *fakeExtractor) set(url string, m extractor.Metadata) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meta[url] = m
}

func (f *fakeExtractor) Extract(ctx context.Context, canonicalURL string, platform models.Platform) (extractor.Metadata, error) {
	f.extracts.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meta[canonicalURL], f.err
}

func (f *fakeExtractor) Refresh(ctx context.Context, canonicalURL string, platform models.Platform, current extractor.Metadata) (extractor.Metadata, bool) {
	f.refreshs.Add(1)
	if f.refresh == nil {
		return current, false
	}
	updated := f.refresh(current)
	return updated, updated != current
}

// countingClassifier 는 규칙 기반 Classifier 를 감싸 호출 수를 센다.
type countingClassifier struct {
	inner    *classifier.Classifier
	calls    atomic.Int32
	lastText atomic.Value
	short    string
}

func newCountingClassifier() *countingClassifier {
	return &countingClassifier{inner: classifier.New(nil, classifier.Options{})}
}

func (c *countingClassifier) Classify(ctx context.Context, text string, history []models.Tag) []classifier.Score {
	c.calls.Add(1)
	c.lastText.Store(text)
	return c.inner.Classify(ctx, text, history)
}

func (c *countingClassifier) ShortTitle(ctx context.Context, text, title string) string {
	return c.short
}

// failingNotes 는 항상 실패하는 NoteStore 다.
type failingNotes struct{}

func (failingNotes) Upsert(ctx context.Context, n *models.Note) error {
	return errors.New("notes unavailable")
}

func (failingNotes) ListByItemIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Note, error) {
	return nil, nil
}

// racingItems 는 첫 조회에서 아이템이 없다고 답한 뒤, 그 사이 다른 요청이 저장한 것처럼 동작한다.
type racingItems struct {
	*repositories.MemoryItems
	winner  *models.Item
	lookups atomic.Int32
}

func (r *racingItems) FindByUserAndURL(ctx context.Context, userID, url string) (*models.Item, error) {
	if r.lookups.Add(1) == 1 {
		// 다른 요청이 먼저 저장한다.
		_ = r.MemoryItems.Insert(ctx, r.winner)
		return nil, repositories.ErrNotFound
	}
	return r.MemoryItems.FindByUserAndURL(ctx, userID, url)
}

// brokenItems 는 저장소 오류를 흉내 낸다.
type brokenItems struct {
	*repositories.MemoryItems
}

func (brokenItems) Insert(ctx context.Context, it *models.Item) error {
	return errors.New("connection reset")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) add(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, name)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func (p *recordingPublisher) PublishItemSaved(ctx context.Context, item *models.Item) error {
	p.add("item.saved")
	return nil
}

func (p *recordingPublisher) PublishItemEnriched(ctx context.Context, item *models.Item, fields []string) error {
	p.add("item.enriched")
	return nil
}

func (p *recordingPublisher) PublishItemClassified(ctx context.Context, userID string, itemID primitive.ObjectID, tags []events.TagScore) error {
	p.add("item.classified")
	return nil
}

func (p *recordingPublisher) PublishReclassifyRequested(ctx context.Context, userID string, itemID primitive.ObjectID) error {
	p.add("item.reclassify_requested")
	return nil
}
