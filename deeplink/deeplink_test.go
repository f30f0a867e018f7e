package deeplink

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIncomingShare(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want Share
	}{
		{
			name: "shared host",
			in:   "nestly://shared?url=https%3A%2F%2Fwww.instagram.com%2Fp%2FABC%2F",
			want: Share{DirectURL: "https://www.instagram.com/p/ABC/"},
		},
		{
			name: "root query",
			in:   "nestly://?url=https%3A%2F%2Fwww.instagram.com%2Fp%2FDEF%2F",
			want: Share{DirectURL: "https://www.instagram.com/p/DEF/"},
		},
		{
			name: "data key query",
			in:   "nestly://?dataUrl=nestlyShareKey#text",
			want: Share{DataKey: "nestlyShareKey"},
		},
		{
			name: "legacy data key",
			in:   "nestly://dataUrl=nestlyShareKey#weburl",
			want: Share{DataKey: "nestlyShareKey"},
		},
		{
			name: "url wins over data key",
			in:   "nestly://?url=https%3A%2F%2Fexample.com&dataUrl=k",
			want: Share{DirectURL: "https://example.com"},
		},
		{
			name: "plain http url",
			in:   "https://youtu.be/abc",
			want: Share{DirectURL: "https://youtu.be/abc"},
		},
		{name: "other scheme", in: "other://?url=https%3A%2F%2Fexample.com", want: Share{}},
		{name: "nothing shared", in: "nestly://home", want: Share{}},
		{name: "empty", in: "", want: Share{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseIncomingShare(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want.Empty(), got.Empty())
		})
	}
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestExtractURLFromSharedItems(t *testing.T) {
	testCases := []struct {
		name  string
		items []SharedItem
		want  string
	}{
		{name: "nil", items: nil, want: ""},
		{
			name:  "plain string",
			items: []SharedItem{{Data: []json.RawMessage{raw(t, "hello"), raw(t, "https://www.tiktok.com/@u/video/1")}}},
			want:  "https://www.tiktok.com/@u/video/1",
		},
		{
			name:  "json encoded array of strings",
			items: []SharedItem{{Data: []json.RawMessage{raw(t, `["text","https://a.example/x"]`)}}},
			want:  "https://a.example/x",
		},
		{
			name:  "json encoded array of objects",
			items: []SharedItem{{Data: []json.RawMessage{raw(t, `[{"url":"https://b.example/y"}]`)}}},
			want:  "https://b.example/y",
		},
		{
			name:  "json encoded object",
			items: []SharedItem{{Data: []json.RawMessage{raw(t, `{"url":"https://c.example/z"}`)}}},
			want:  "https://c.example/z",
		},
		{
			name:  "object with uri",
			items: []SharedItem{{Data: []json.RawMessage{raw(t, map[string]string{"uri": "https://d.example/"})}}},
			want:  "https://d.example/",
		},
		{
			name: "second item",
			items: []SharedItem{
				{Data: []json.RawMessage{raw(t, map[string]string{"uri": "file:///tmp/a.png"})}},
				{Data: []json.RawMessage{raw(t, "HTTPS://E.example/")}},
			},
			want: "HTTPS://E.example/",
		},
		{
			name:  "no url",
			items: []SharedItem{{Data: []json.RawMessage{raw(t, "just text"), raw(t, 42)}}},
			want:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractURLFromSharedItems(tc.items))
		})
	}
}
