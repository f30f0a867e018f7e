package services

import (
	"regexp"
	"strings"
)

const maxHashtags = 10

var hashtagPattern = regexp.MustCompile(`#[\p{L}0-9_]+`)

// ExtractHashtags 는 caption 의 해시태그를 처음 나온 순서대로, 대소문자 무시 중복 제거해 최대 10개 돌려준다.
func ExtractHashtags(text string) []string {
	matches := hashtagPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, min(len(matches), maxHashtags))
	for _, m := range matches {
		key := strings.ToLower(m)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
		if len(out) == maxHashtags {
			break
		}
	}
	return out
}

// classificationText 는 title, caption, 해시태그를 공백으로 이어 분류 입력을 만든다.
func classificationText(title, caption string, hashtags []string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{title, caption, strings.Join(hashtags, " ")} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
