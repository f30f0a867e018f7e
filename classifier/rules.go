package classifier

import (
	"sort"
	"strings"

	"nestly/models"
)

const (
	ruleMatchWeight   = 0.4
	defaultConfidence = 0.3
)

// 순서가 결과의 tie-break 순서가 되므로 map 이 아닌 slice 로 둔다.
var keywordRules = []struct {
	keyword string
	tag     models.Tag
}{
	{"#restaurant", models.TagFood},
	{"#foodie", models.TagFood},
	{"menu", models.TagFood},
	{"recipe", models.TagFood},
	{"flight", models.TagTravel},
	{"#wanderlust", models.TagTravel},
	{"itinerary", models.TagTravel},
	{"hotel", models.TagTravel},
	{"iphone", models.TagTech},
	{"ai", models.TagTech},
	{"coding", models.TagTech},
	{"workout", models.TagFitness},
	{"gym", models.TagFitness},
	{"makeup", models.TagBeauty},
	{"skincare", models.TagBeauty},
	{"budget", models.TagFinance},
	{"investing", models.TagFinance},
}

// RuleTags 는 키워드 테이블 기반의 결정적 분류이다. 키워드는 대소문자 무시 부분 문자열로 찾으며,
// 매칭마다 0.4 를 더하고 1.0 에서 자른다. 아무것도 매칭되지 않으면 Inbox 0.3 을 돌려준다.
func RuleTags(text string) []Score {
	lower := strings.ToLower(text)

	var order []models.Tag
	found := make(map[models.Tag]float64)
	for _, r := range keywordRules {
		if !strings.Contains(lower, r.keyword) {
			continue
		}
		if _, ok := found[r.tag]; !ok {
			order = append(order, r.tag)
		}
		found[r.tag] = clamp(found[r.tag] + ruleMatchWeight)
	}

	if len(order) == 0 {
		return []Score{{Tag: models.TagInbox, Confidence: defaultConfidence}}
	}

	scores := make([]Score, 0, len(order))
	for _, tag := range order {
		scores = append(scores, Score{Tag: tag, Confidence: found[tag]})
	}
	return scores
}

// ApplyHistoryBoost 는 사용자가 이미 쓰고 있는 태그에 bonus 를 더하고(1.0 상한)
// confidence 내림차순으로 안정 정렬한다. 입력 slice 는 수정하지 않는다.
func ApplyHistoryBoost(scores []Score, history []models.Tag, bonus float64) []Score {
	prefer := make(map[models.Tag]struct{}, len(history))
	for _, t := range history {
		prefer[t] = struct{}{}
	}

	out := make([]Score, len(scores))
	for i, s := range scores {
		c := s.Confidence
		if _, ok := prefer[s.Tag]; ok {
			c += bonus
		}
		out[i] = Score{Tag: s.Tag, Confidence: clamp(c)}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
