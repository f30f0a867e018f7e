package extractor_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"nestly/extractor"
	"nestly/models"
)

func TestRefreshTikTok(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"title":"real title","author_name":"creator","thumbnail_url":"https://cdn.example.com/t.jpg"}`)
	}))
	defer srv.Close()
	ex := newExtractor(srv)

	testCases := []struct {
		name      string
		current   extractor.Metadata
		expected  extractor.Metadata
		changed   bool
		wantCalls int32
	}{
		{
			name:      "complete item is left alone",
			current:   extractor.Metadata{Title: "ok", Author: "a", Image: "i"},
			expected:  extractor.Metadata{Title: "ok", Author: "a", Image: "i"},
			changed:   false,
			wantCalls: 0,
		},
		{
			name:      "placeholder title replaced",
			current:   extractor.Metadata{Title: "TikTok - Make Your Day", Author: "a", Image: "i", Description: "d"},
			expected:  extractor.Metadata{Title: "real title", Author: "a", Image: "i", Description: "d"},
			changed:   true,
			wantCalls: 1,
		},
		{
			name:      "only missing fields merged",
			current:   extractor.Metadata{Title: "kept"},
			expected:  extractor.Metadata{Title: "kept", Author: "creator", Image: "https://cdn.example.com/t.jpg"},
			changed:   true,
			wantCalls: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			atomic.StoreInt32(&calls, 0)
			got, changed := ex.Refresh(context.Background(), "https://www.tiktok.com/@u/video/1", models.PlatformTikTok, tc.current)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.changed, changed)
			assert.Equal(t, tc.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestRefreshTikTokOEmbedFailureKeepsItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	current := extractor.Metadata{Title: ""}
	got, changed := newExtractor(srv).Refresh(context.Background(), "https://www.tiktok.com/@u/video/1", models.PlatformTikTok, current)
	assert.False(t, changed)
	assert.Equal(t, current, got)
}

func TestRefreshInstagram(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"graphql":{"shortcode_media":{"display_url":"https://scontent.cdninstagram.com/x.jpg"}}}`)
	}))
	defer srv.Close()
	ex := newExtractor(srv)
	const postURL = "https://www.instagram.com/reel/XYZ123"

	testCases := []struct {
		name     string
		current  extractor.Metadata
		expected extractor.Metadata
		changed  bool
	}{
		{
			name:     "author derived from title",
			current:  extractor.Metadata{Title: "sam on Instagram: \"hi\"", Author: "Unknown creator", Image: "i"},
			expected: extractor.Metadata{Title: "sam on Instagram: \"hi\"", Author: "sam", Image: "i"},
			changed:  true,
		},
		{
			name:     "missing author defaults to Instagram",
			current:  extractor.Metadata{Title: "no handle here", Image: "i"},
			expected: extractor.Metadata{Title: "no handle here", Author: "Instagram", Image: "i"},
			changed:  true,
		},
		{
			name:     "thumbnail fetched",
			current:  extractor.Metadata{Author: "sam"},
			expected: extractor.Metadata{Author: "sam", Image: "https://scontent.cdninstagram.com/x.jpg"},
			changed:  true,
		},
		{
			name:     "complete item unchanged",
			current:  extractor.Metadata{Author: "sam", Image: "i"},
			expected: extractor.Metadata{Author: "sam", Image: "i"},
			changed:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := ex.Refresh(context.Background(), postURL, models.PlatformInstagram, tc.current)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.changed, changed)
		})
	}
}

func TestRefreshYouTubeAndWeb(t *testing.T) {
	ex := extractor.New(extractor.Config{})

	got, changed := ex.Refresh(context.Background(), "https://youtu.be/abc123", models.PlatformYouTube, extractor.Metadata{Title: "t"})
	assert.True(t, changed)
	assert.Equal(t, "https://i.ytimg.com/vi/abc123/hqdefault.jpg", got.Image)

	current := extractor.Metadata{}
	got, changed = ex.Refresh(context.Background(), "https://example.com/a", models.PlatformWeb, current)
	assert.False(t, changed)
	assert.Equal(t, current, got)
}
