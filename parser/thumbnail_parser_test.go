package parser_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nestly/parser"
)

func TestParseTopImageFromHTML(t *testing.T) {
	testCases := []struct {
		name     string
		html     string
		pageURL  string
		expected string
	}{
		{
			name:     "og image wins",
			html:     `<html><head><meta property="og:image" content="https://cdn.example.com/og.jpg"><meta name="twitter:image" content="https://cdn.example.com/tw.jpg"></head></html>`,
			pageURL:  "https://example.com/post",
			expected: "https://cdn.example.com/og.jpg",
		},
		{
			name:     "twitter image resolved against page",
			html:     `<html><head><meta name="twitter:image" content="/img/tw.jpg"></head></html>`,
			pageURL:  "https://example.com/post/1",
			expected: "https://example.com/img/tw.jpg",
		},
		{
			name:     "link image_src",
			html:     `<html><head><link rel="image_src" href="https://example.com/src.png"></head></html>`,
			pageURL:  "https://example.com",
			expected: "https://example.com/src.png",
		},
		{
			name:     "declared large img",
			html:     `<html><body><img src="/small.png" width="16" height="16"><img src="/big.png" width="640" height="480"></body></html>`,
			pageURL:  "https://example.com/a",
			expected: "https://example.com/big.png",
		},
		{
			name:     "nothing",
			html:     `<html><body><p>text only</p></body></html>`,
			pageURL:  "https://example.com",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parser.ParseTopImageFromHTML(context.Background(), nil, tc.html, tc.pageURL)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseTopImageFromHTMLChecksImageSize(t *testing.T) {
	encode := func(w, h int) []byte {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
		return buf.Bytes()
	}
	small := encode(40, 40)
	large := encode(400, 320)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		switch r.URL.Path {
		case "/small.png":
			w.Write(small)
		case "/large.png":
			w.Write(large)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	htmlStr := `<html><body><img src="/missing.png"><img src="/small.png"><img src="/large.png"></body></html>`
	got, err := parser.ParseTopImageFromHTML(context.Background(), srv.Client(), htmlStr, srv.URL+"/post")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/large.png", got)
}
