package classifier

import (
	"context"
	"os"
	"strings"

	"nestly/config"
	"nestly/internal/logger"
	"nestly/models"
)

const (
	PurposeClassify   = "classify"
	PurposeShortTitle = "short_title"

	maxShortTitleRunes = 80

	shortTitleInstruction = "Write a concise, catchy 3-5 word title for a saved social video. No punctuation beyond basic capitalization. Return ONLY the title text."
)

type Score struct {
	Tag        models.Tag `json:"tag"`
	Confidence float64    `json:"confidence"`
}

type Options struct {
	// MinConfidence 미만의 LLM 결과는 버린다. 0 이하면 0.35.
	MinConfidence float64
	// HistoryBoost 는 사용자가 이미 쓰는 태그에 더하는 값이다. 0 이하면 0.15.
	HistoryBoost float64
	ShortTitles  bool
	// Quota 가 nil 이면 호출 한도를 두지 않는다.
	Quota *QuotaLimiter
}

// Classifier 는 LLM 분류를 먼저 시도하고, 사용할 수 없거나 결과가 없으면 키워드 규칙으로 분류한다.
type Classifier struct {
	provider Provider
	opts     Options
}

// New 는 provider 가 nil 이면 규칙 기반으로만 동작하는 Classifier 를 만든다.
func New(provider Provider, opts Options) *Classifier {
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = 0.35
	}
	if opts.HistoryBoost <= 0 {
		opts.HistoryBoost = 0.15
	}
	return &Classifier{provider: provider, opts: opts}
}

// NewFromConfig 는 classifier 설정으로 Classifier 를 만든다. 설정이 잘못됐으면 경고를 한 번 남기고
// 규칙 기반으로 동작한다.
func NewFromConfig(ctx context.Context, cfg config.AppConfig, recorder AILogRecorder) *Classifier {
	c := cfg.Classifier
	opts := Options{
		MinConfidence: c.MinConfidence,
		HistoryBoost:  c.HistoryBoost,
		ShortTitles:   c.ShortTitles,
		Quota:         NewQuotaLimiterFromConfig(cfg.ClassifierQuota),
	}

	switch strings.ToLower(c.Provider) {
	case "", "rules":
		logger.Log.Info("classifier: llm provider disabled, using keyword rules")
		return New(nil, opts)
	case "google", "gemini":
		provider, err := NewGeminiProvider(ctx, os.Getenv("GEMINI_API_KEY"), c.ModelName, recorder)
		if err != nil {
			logger.WarnWithFields("classifier: llm provider unavailable, falling back to keyword rules", logger.Fields{
				"provider": c.Provider,
				"error":    err.Error(),
			})
			return New(nil, opts)
		}
		return New(provider, opts)
	default:
		logger.WarnWithFields("classifier: unsupported llm provider, falling back to keyword rules", logger.Fields{
			"provider": c.Provider,
		})
		return New(nil, opts)
	}
}

// LLMEnabled 는 LLM provider 가 설정돼 있는지 여부이다.
func (c *Classifier) LLMEnabled() bool {
	return c.provider != nil
}

// SystemPrompt 는 태그 어휘와 사용자 선호 태그(Inbox 제외)를 담은 system instruction 이다.
func SystemPrompt(history []models.Tag) string {
	var vocab []string
	for _, t := range models.AllTags() {
		if t != models.TagInbox {
			vocab = append(vocab, string(t))
		}
	}

	var prefer []string
	for _, t := range history {
		if t != models.TagInbox {
			prefer = append(prefer, string(t))
		}
	}
	preferNote := ""
	if len(prefer) > 0 {
		preferNote = " Prefer these when applicable: " + strings.Join(prefer, ", ") + "."
	}

	return "You classify short social video metadata (title, caption, hashtags) into zero or more of these tags: " +
		strings.Join(vocab, ", ") + "." + preferNote +
		` Return ONLY a compact JSON array like [{"tag":"Food","confidence":0.76}].` +
		" Only include tags with confidence ≥ 0.35. Do not include explanations."
}

// Classify 는 text 를 분류한다. 결과는 항상 1개 이상이며 confidence 는 [0,1] 범위이고
// 내림차순으로 정렬돼 있다.
func (c *Classifier) Classify(ctx context.Context, text string, history []models.Tag) []Score {
	scores := c.classifyWithLLM(ctx, text, history)
	if len(scores) == 0 {
		scores = RuleTags(text)
	}
	return ApplyHistoryBoost(scores, history, c.opts.HistoryBoost)
}

func (c *Classifier) classifyWithLLM(ctx context.Context, text string, history []models.Tag) []Score {
	if c.provider == nil || !c.reserve(ctx, PurposeClassify) {
		return nil
	}

	content, err := c.provider.Complete(ctx, Request{
		Purpose: PurposeClassify,
		System:  SystemPrompt(history),
		Prompt:  text,
	})
	if err != nil {
		logger.WarnWithFields("llm classification failed, using keyword rules", logger.Fields{"error": err.Error()})
		return nil
	}

	scores := acceptScores(ParseScores(content), c.opts.MinConfidence)
	if len(scores) == 0 {
		logger.DebugWithFields("llm returned no usable tags, using keyword rules", logger.Fields{"response": content})
	}
	return scores
}

// ShortTitle 은 3~5 단어 표시용 제목을 요청한다. 실패하거나 비활성화돼 있으면 "" 이다.
func (c *Classifier) ShortTitle(ctx context.Context, text, title string) string {
	if !c.opts.ShortTitles || c.provider == nil {
		return ""
	}
	prompt := text
	if strings.TrimSpace(prompt) == "" {
		prompt = title
	}
	if strings.TrimSpace(prompt) == "" || !c.reserve(ctx, PurposeShortTitle) {
		return ""
	}

	content, err := c.provider.Complete(ctx, Request{
		Purpose: PurposeShortTitle,
		System:  shortTitleInstruction,
		Prompt:  prompt,
	})
	if err != nil {
		logger.WarnWithFields("short title generation failed", logger.Fields{"error": err.Error()})
		return ""
	}
	return truncateRunes(strings.TrimSpace(content), maxShortTitleRunes)
}

func (c *Classifier) reserve(ctx context.Context, purpose string) bool {
	if c.opts.Quota == nil {
		return true
	}
	ok, err := c.opts.Quota.WaitAndReserve(ctx)
	if err != nil {
		logger.WarnWithFields("llm quota wait aborted", logger.Fields{"purpose": purpose, "error": err.Error()})
		return false
	}
	if !ok {
		logger.WarnWithFields("llm daily quota exhausted", logger.Fields{"purpose": purpose})
	}
	return ok
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
