package classifier_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nestly/classifier"
	"nestly/config"
	"nestly/models"
)

type fakeProvider struct {
	responses map[string]string
	err       error
	requests  []classifier.Request
}

func (f *fakeProvider) Complete(ctx context.Context, req classifier.Request) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.responses[req.Purpose], nil
}

func TestClassifyWithLLM(t *testing.T) {
	provider := &fakeProvider{responses: map[string]string{
		classifier.PurposeClassify: `Here: [{"tag":"Food","confidence":0.7},{"tag":"Inbox","confidence":0.9},{"tag":"Cooking","confidence":0.9},{"tag":"Travel","confidence":0.2},{"tag":"Home","confidence":1.4}]`,
	}}
	c := classifier.New(provider, classifier.Options{})

	got := c.Classify(context.Background(), "ramen recipe", []models.Tag{models.TagFood, models.TagInbox})

	require.Len(t, got, 2)
	assert.Equal(t, models.TagHome, got[0].Tag)
	assert.InDelta(t, 1.0, got[0].Confidence, 1e-9)
	assert.Equal(t, models.TagFood, got[1].Tag)
	assert.InDelta(t, 0.85, got[1].Confidence, 1e-9)

	require.Len(t, provider.requests, 1)
	assert.Equal(t, "ramen recipe", provider.requests[0].Prompt)
	assert.Contains(t, provider.requests[0].System, "Prefer these when applicable: Food.")
}

func TestClassifyReplyWithBracketedProse(t *testing.T) {
	provider := &fakeProvider{responses: map[string]string{
		classifier.PurposeClassify: `Sure! [{"tag":"Travel","confidence":0.9}] (tags chosen from [Food, Travel])`,
	}}
	c := classifier.New(provider, classifier.Options{})

	got := c.Classify(context.Background(), "weekend in Lisbon", nil)

	require.Len(t, got, 1)
	assert.Equal(t, models.TagTravel, got[0].Tag)
	assert.InDelta(t, 0.9, got[0].Confidence, 1e-9)
}

func TestClassifyFallsBackToRules(t *testing.T) {
	testCases := []struct {
		name     string
		provider classifier.Provider
	}{
		{name: "no provider", provider: nil},
		{name: "provider error", provider: &fakeProvider{err: errors.New("API key not valid")}},
		{name: "unparseable response", provider: &fakeProvider{responses: map[string]string{classifier.PurposeClassify: "no idea"}}},
		{name: "only rejected tags", provider: &fakeProvider{responses: map[string]string{classifier.PurposeClassify: `[{"tag":"Inbox","confidence":0.9}]`}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := classifier.New(tc.provider, classifier.Options{})

			got := c.Classify(context.Background(), "Quick #workout session", nil)
			require.NotEmpty(t, got)
			assert.Equal(t, models.TagFitness, got[0].Tag)

			got = c.Classify(context.Background(), "", nil)
			require.Len(t, got, 1)
			assert.Equal(t, models.TagInbox, got[0].Tag)
		})
	}
}

func TestClassifyQuotaExhaustedUsesRules(t *testing.T) {
	provider := &fakeProvider{responses: map[string]string{
		classifier.PurposeClassify: `[{"tag":"Pets","confidence":0.9}]`,
	}}
	c := classifier.New(provider, classifier.Options{Quota: classifier.NewQuotaLimiter(0, 1)})

	first := c.Classify(context.Background(), "hotel", nil)
	assert.Equal(t, models.TagPets, first[0].Tag)

	second := c.Classify(context.Background(), "hotel", nil)
	assert.Equal(t, models.TagTravel, second[0].Tag)
	assert.Len(t, provider.requests, 1)
}

func TestSystemPrompt(t *testing.T) {
	prompt := classifier.SystemPrompt(nil)
	assert.True(t, strings.HasPrefix(prompt, "You classify short social video metadata (title, caption, hashtags) into zero or more of these tags: Food, Travel, Tech,"))
	assert.NotContains(t, prompt, "Inbox")
	assert.NotContains(t, prompt, "Prefer these")

	assert.NotContains(t, classifier.SystemPrompt([]models.Tag{models.TagInbox}), "Prefer these")
	assert.Contains(t, classifier.SystemPrompt([]models.Tag{models.TagTech, models.TagPets}), "Prefer these when applicable: Tech, Pets.")
}

func TestShortTitle(t *testing.T) {
	long := strings.Repeat("가", 100)
	testCases := []struct {
		name     string
		opts     classifier.Options
		provider *fakeProvider
		expected string
	}{
		{
			name:     "trimmed",
			opts:     classifier.Options{ShortTitles: true},
			provider: &fakeProvider{responses: map[string]string{classifier.PurposeShortTitle: "  Easy Weeknight Ramen \n"}},
			expected: "Easy Weeknight Ramen",
		},
		{
			name:     "truncated to 80 runes",
			opts:     classifier.Options{ShortTitles: true},
			provider: &fakeProvider{responses: map[string]string{classifier.PurposeShortTitle: long}},
			expected: strings.Repeat("가", 80),
		},
		{
			name:     "failure is empty",
			opts:     classifier.Options{ShortTitles: true},
			provider: &fakeProvider{err: errors.New("boom")},
			expected: "",
		},
		{
			name:     "disabled",
			opts:     classifier.Options{},
			provider: &fakeProvider{responses: map[string]string{classifier.PurposeShortTitle: "x"}},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := classifier.New(tc.provider, tc.opts)
			assert.Equal(t, tc.expected, c.ShortTitle(context.Background(), "ramen recipe", "Ramen"))
		})
	}
}

func TestNewFromConfigMisconfigured(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	testCases := []struct {
		name     string
		provider string
	}{
		{name: "rules", provider: ""},
		{name: "missing key", provider: "google"},
		{name: "unsupported", provider: "openai"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.AppConfig{Classifier: config.ClassifierConfig{Provider: tc.provider, ModelName: "gemini-2.5-flash"}}
			c := classifier.NewFromConfig(context.Background(), cfg, nil)
			assert.False(t, c.LLMEnabled())
			assert.Equal(t, models.TagFood, c.Classify(context.Background(), "recipe", nil)[0].Tag)
		})
	}
}
