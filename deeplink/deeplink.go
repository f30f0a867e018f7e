package deeplink

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
)

const Scheme = "nestly"

// Share 는 공유 딥링크를 해석한 결과다. DirectURL 과 DataKey 중 최대 하나만 채워진다.
// DataKey 는 공유 확장이 저장해 둔 payload 를 찾는 키다.
type Share struct {
	DirectURL string
	DataKey   string
}

func (s Share) Empty() bool {
	return s.DirectURL == "" && s.DataKey == ""
}

var httpURLPattern = regexp.MustCompile(`(?i)^https?://`)

// ParseIncomingShare 는 다음 형식을 지원한다.
//
//	nestly://shared?url=ENCODED_URL
//	nestly://?url=ENCODED_URL
//	nestly://?dataUrl=SHARED_KEY
//	nestly://dataUrl=SHARED_KEY   (query 없는 예전 형식)
//
// http(s) URL 이 그대로 들어오면 DirectURL 로 취급한다. 해석할 수 없으면 빈 Share 를 돌려준다.
func ParseIncomingShare(raw string) Share {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Share{}
	}
	if httpURLPattern.MatchString(raw) {
		return Share{DirectURL: raw}
	}

	prefix := Scheme + "://"
	if !strings.HasPrefix(strings.ToLower(raw), prefix) {
		return Share{}
	}

	if u, err := url.Parse(raw); err == nil {
		q := u.Query()
		if direct := q.Get("url"); direct != "" {
			return Share{DirectURL: direct}
		}
		if key := q.Get("dataUrl"); key != "" {
			return Share{DataKey: key}
		}
	}

	// nestly://dataUrl=KEY#fragment
	rest := raw[len(prefix):]
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest = rest[:i]
	}
	if key, ok := strings.CutPrefix(rest, "dataUrl="); ok {
		if unescaped, err := url.QueryUnescape(key); err == nil {
			key = unescaped
		}
		if key != "" {
			return Share{DataKey: key}
		}
	}
	return Share{}
}

// SharedItem 은 공유 확장이 넘겨주는 항목 하나다. Data 의 각 원소는 문자열이거나 객체다.
type SharedItem struct {
	MimeType string            `json:"mimeType,omitempty"`
	Data     []json.RawMessage `json:"data"`
}

type urlHolder struct {
	URL string `json:"url"`
	URI string `json:"uri"`
}

func isHTTP(s string) bool {
	return httpURLPattern.MatchString(s)
}

// ExtractURLFromSharedItems 는 공유 항목에서 처음 발견되는 http(s) URL 을 찾는다. 없으면 "".
func ExtractURLFromSharedItems(items []SharedItem) string {
	for _, item := range items {
		for _, entry := range item.Data {
			if u := urlFromEntry(entry); u != "" {
				return u
			}
		}
	}
	return ""
}

func urlFromEntry(entry json.RawMessage) string {
	var s string
	if err := json.Unmarshal(entry, &s); err == nil {
		return urlFromString(s)
	}

	var obj urlHolder
	if err := json.Unmarshal(entry, &obj); err == nil {
		if isHTTP(obj.URL) {
			return obj.URL
		}
		if isHTTP(obj.URI) {
			return obj.URI
		}
	}
	return ""
}

// urlFromString 은 URL 문자열 자체이거나, JSON 으로 인코딩된 배열/객체 문자열을 처리한다.
func urlFromString(s string) string {
	s = strings.TrimSpace(s)
	if isHTTP(s) {
		return s
	}
	if !strings.HasPrefix(s, "[") && !strings.HasPrefix(s, "{") {
		return ""
	}

	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(s), &arr); err == nil {
		for _, p := range arr {
			var str string
			if err := json.Unmarshal(p, &str); err == nil {
				if isHTTP(str) {
					return str
				}
				continue
			}
			var obj urlHolder
			if err := json.Unmarshal(p, &obj); err == nil && isHTTP(obj.URL) {
				return obj.URL
			}
		}
		return ""
	}

	var obj urlHolder
	if err := json.Unmarshal([]byte(s), &obj); err == nil && isHTTP(obj.URL) {
		return obj.URL
	}
	return ""
}
