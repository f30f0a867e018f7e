// Package canonicalizer normalizes shared links into the key used for per-user deduplication.
package canonicalizer

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParams 는 중복 판정에 의미가 없는 추적용 쿼리 파라미터다. (소문자 키 기준)
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"utm_id":       {},
	"fbclid":       {},
	"gclid":        {},
}

// queryPair 는 원본 쿼리 조각(raw)과 정렬/비교용으로 디코딩한 key 를 함께 든다.
type queryPair struct {
	key string
	raw string
}

// Canonicalize returns the canonical form of raw. Input that cannot be parsed as an absolute
// URL is returned unchanged so a malformed link is still saved rather than rejected.
func Canonicalize(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = canonicalQuery(u.RawQuery)
	u.ForceQuery = false

	escaped := u.EscapedPath()
	if escaped != "/" {
		escaped = strings.TrimRight(escaped, "/")
	}
	if escaped == "" {
		escaped = "/"
	}
	if decoded, err := url.PathUnescape(escaped); err == nil {
		u.Path = decoded
		u.RawPath = escaped
	}

	return u.String()
}

// canonicalQuery drops tracking parameters and sorts the rest by decoded key.
// Segments are kept byte for byte; equal keys keep their original relative order.
func canonicalQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	var pairs []queryPair
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		rawKey, _, _ := strings.Cut(part, "=")
		key := unescapeQuery(rawKey)
		if _, drop := trackingParams[strings.ToLower(key)]; drop {
			continue
		}
		pairs = append(pairs, queryPair{key: key, raw: part})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].key < pairs[j].key
	})

	segments := make([]string, len(pairs))
	for i, p := range pairs {
		segments[i] = p.raw
	}
	return strings.Join(segments, "&")
}

func unescapeQuery(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}
