package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nestly/classifier"
)

func TestParseScores(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected []classifier.RawScore
	}{
		{
			name:     "strict json",
			content:  `[{"tag":"Food","confidence":0.76}]`,
			expected: []classifier.RawScore{{Tag: "Food", Confidence: 0.76}},
		},
		{
			name:     "wrapped in prose",
			content:  "Sure! Here you go:\n[{\"tag\":\"Travel\",\"confidence\":0.9},{\"tag\":\"Food\",\"confidence\":0.4}]\nHope this helps.",
			expected: []classifier.RawScore{{Tag: "Travel", Confidence: 0.9}, {Tag: "Food", Confidence: 0.4}},
		},
		{
			name:     "trailing prose with brackets",
			content:  "Sure! [{\"tag\":\"Travel\",\"confidence\":0.9}] (tags chosen from [Food, Travel])",
			expected: []classifier.RawScore{{Tag: "Travel", Confidence: 0.9}},
		},
		{
			name:     "leading bracketed prose skipped",
			content:  "[note] result: [{\"tag\":\"Pets\",\"confidence\":0.6}]",
			expected: []classifier.RawScore{{Tag: "Pets", Confidence: 0.6}},
		},
		{
			name:     "brackets inside string literal",
			content:  "ok [{\"tag\":\"Food\",\"confidence\":0.5,\"why\":\"a ] \\\" [ b\"}] done",
			expected: []classifier.RawScore{{Tag: "Food", Confidence: 0.5}},
		},
		{
			name:     "unbalanced array",
			content:  "here [{\"tag\":\"Food\",\"confidence\":0.5}",
			expected: nil,
		},
		{
			name:     "markdown fence",
			content:  "```json\n[{\"tag\":\"Tech\",\"confidence\":0.5}]\n```",
			expected: []classifier.RawScore{{Tag: "Tech", Confidence: 0.5}},
		},
		{
			name:     "empty array",
			content:  "[]",
			expected: []classifier.RawScore{},
		},
		{
			name:     "not json",
			content:  "I cannot classify this.",
			expected: nil,
		},
		{
			name:     "broken array",
			content:  `[{"tag":"Food",]`,
			expected: nil,
		},
		{
			name:     "blank",
			content:  "  ",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, classifier.ParseScores(tc.content))
		})
	}
}
