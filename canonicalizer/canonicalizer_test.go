package canonicalizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nestly/canonicalizer"
)

func TestCanonicalize(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "tracking params dropped and remaining sorted",
			raw:  "https://example.com/x?utm_source=ads&b=2&a=1#hash",
			want: "https://example.com/x?a=1&b=2",
		},
		{
			name: "trailing slash stripped from non-root path",
			raw:  "https://www.tiktok.com/@user/video/12345/?utm_campaign=x",
			want: "https://www.tiktok.com/@user/video/12345",
		},
		{
			name: "instagram path case preserved",
			raw:  "https://www.instagram.com/p/XYZ123/?utm_source=ig_web_copy_link",
			want: "https://www.instagram.com/p/XYZ123",
		},
		{
			name: "scheme and host lowercased",
			raw:  "HTTPS://WWW.YouTube.COM/watch?v=AbC",
			want: "https://www.youtube.com/watch?v=AbC",
		},
		{
			name: "tracking keys matched case-insensitively",
			raw:  "https://example.com/a?UTM_Medium=x&FBCLID=1&gclid=2&utm_id=3&utm_term=4&utm_content=5&q=go",
			want: "https://example.com/a?q=go",
		},
		{
			name: "equal keys keep relative order",
			raw:  "https://example.com/s?tag=b&a=0&tag=a",
			want: "https://example.com/s?a=0&tag=b&tag=a",
		},
		{
			name: "valueless key kept as shared",
			raw:  "https://example.com/?flag&utm_source=x",
			want: "https://example.com/?flag",
		},
		{
			name: "query segments kept byte for byte",
			raw:  "https://example.com/q?z=%2F&b=%zz&a=hello+world&c=",
			want: "https://example.com/q?a=hello+world&b=%zz&c=&z=%2F",
		},
		{
			name: "encoded tracking key dropped",
			raw:  "https://example.com/q?utm%5Fsource=x&id=7",
			want: "https://example.com/q?id=7",
		},
		{
			name: "root path kept",
			raw:  "https://example.com/",
			want: "https://example.com/",
		},
		{
			name: "empty path becomes root",
			raw:  "https://example.com",
			want: "https://example.com/",
		},
		{
			name: "repeated trailing slashes stripped",
			raw:  "https://example.com/a//",
			want: "https://example.com/a",
		},
		{
			name: "fragment only dropped",
			raw:  "https://example.com/page#section",
			want: "https://example.com/page",
		},
		{
			name: "unparseable input returned unchanged",
			raw:  "not a url",
			want: "not a url",
		},
		{
			name: "invalid escape returned unchanged",
			raw:  "https://example.com/%zz",
			want: "https://example.com/%zz",
		},
		{
			name: "empty string returned unchanged",
			raw:  "",
			want: "",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, canonicalizer.Canonicalize(testCase.raw))
		})
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"https://example.com/x?utm_source=ads&b=2&a=1#hash",
		"https://www.tiktok.com/@user/video/12345/?utm_campaign=x",
		"https://Example.com/a%20b/?q=hello+world&z=%2F",
		"https://example.com/a//",
		"https://example.com?flag",
		"http://user@EXAMPLE.com:8080/p/?b=&a=1",
		"https://example.com/q?z=%2F&b=%zz&flag&a=hello+world",
		"not a url",
	}

	for _, in := range inputs {
		once := canonicalizer.Canonicalize(in)
		assert.Equal(t, once, canonicalizer.Canonicalize(once), "input %q", in)
	}
}

func TestCanonicalizeSameSemanticURL(t *testing.T) {
	a := canonicalizer.Canonicalize("https://WWW.Example.com/post/?b=2&a=1&utm_source=x")
	b := canonicalizer.Canonicalize("https://www.example.com/post?a=1&fbclid=abc&b=2#top")
	assert.Equal(t, a, b)
}
