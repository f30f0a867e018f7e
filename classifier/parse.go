package classifier

import (
	"encoding/json"
	"strings"

	"nestly/models"
)

// RawScore 는 모델 응답 배열의 원소 하나다. 검증 전 값이라 tag 는 자유 문자열이다.
type RawScore struct {
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"`
}

// ParseScores 는 모델 응답에서 [{tag, confidence}] 배열을 꺼낸다.
// 1차로 전체를 JSON 으로 파싱하고, 실패하면 괄호 짝이 맞는 첫 배열 조각부터 차례로 파싱한다.
// 둘 다 실패하면 nil 이다.
func ParseScores(content string) []RawScore {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	var out []RawScore
	if err := json.Unmarshal([]byte(content), &out); err == nil {
		return out
	}

	for start := strings.IndexByte(content, '['); start >= 0; {
		if end := balancedArrayEnd(content, start); end > start {
			out = nil
			if err := json.Unmarshal([]byte(content[start:end+1]), &out); err == nil {
				return out
			}
		}
		next := strings.IndexByte(content[start+1:], '[')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil
}

// balancedArrayEnd 는 s[start] 의 '[' 와 짝이 맞는 ']' 위치를 돌려준다. 없으면 -1.
// JSON 문자열 리터럴 안의 괄호와 이스케이프는 건너뛴다.
func balancedArrayEnd(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// acceptScores 는 어휘에 있고 Inbox 가 아니며 minConfidence 이상인 항목만 남긴다.
// 같은 태그가 여러 번 오면 가장 높은 값을 쓴다.
func acceptScores(raw []RawScore, minConfidence float64) []Score {
	var out []Score
	index := make(map[models.Tag]int)
	for _, r := range raw {
		tag := models.Tag(strings.TrimSpace(r.Tag))
		if !tag.IsValid() || tag == models.TagInbox {
			continue
		}
		c := clamp(r.Confidence)
		if c < minConfidence {
			continue
		}
		if i, ok := index[tag]; ok {
			if c > out[i].Confidence {
				out[i].Confidence = c
			}
			continue
		}
		index[tag] = len(out)
		out = append(out, Score{Tag: tag, Confidence: c})
	}
	return out
}
