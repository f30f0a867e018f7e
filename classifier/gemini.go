package classifier

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"nestly/internal/logger"
	"nestly/models"
	"nestly/trace"
)

const providerGoogle = "google"

// Request 는 LLM 호출 1회의 입력이다. Purpose 는 ai_logs 에 그대로 남는다.
type Request struct {
	Purpose string
	System  string
	Prompt  string
}

// Provider 는 system instruction 과 사용자 텍스트로 응답 텍스트를 돌려주는 LLM 이다.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// AILogRecorder 는 LLM 사용 로그를 저장한다.
type AILogRecorder interface {
	Insert(ctx context.Context, log *models.AILog) error
}

// GeminiProvider 는 google genai SDK 로 Gemini 모델을 호출한다.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
	recorder  AILogRecorder
}

// NewGeminiProvider 는 apiKey 가 비어 있으면 에러를 반환한다. recorder 는 nil 이어도 된다.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string, recorder AILogRecorder) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	if modelName == "" {
		return nil, fmt.Errorf("classifier model name is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{client: client, modelName: modelName, recorder: recorder}, nil
}

func (p *GeminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	requestedAt := time.Now()

	result, err := p.client.Models.GenerateContent(
		ctx,
		p.modelName,
		genai.Text(req.Prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
		},
	)

	entry := &models.AILog{
		RequestID: trace.RequestIDFromContext(ctx),
		Purpose:   req.Purpose,
		Provider:  providerGoogle,
		Model:     p.modelName,
		Prompt:    req.System + "\n\n" + req.Prompt,
		LatencyMs: time.Since(requestedAt).Milliseconds(),
		CreatedAt: requestedAt,
	}

	var text string
	if err != nil {
		msg := err.Error()
		entry.Error = &msg
	} else if result != nil {
		text = result.Text()
		entry.Response = text
		entry.ModelVersion = result.ModelVersion
		if u := result.UsageMetadata; u != nil {
			entry.Usage = models.AIUsage{Input: u.PromptTokenCount, Output: u.CandidatesTokenCount, Total: u.TotalTokenCount}
		}
	}
	p.record(ctx, entry)

	if err != nil {
		return "", err
	}
	return text, nil
}

func (p *GeminiProvider) record(ctx context.Context, entry *models.AILog) {
	if p.recorder == nil {
		return
	}
	// 요청 컨텍스트가 끝났더라도 로그는 남긴다.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := p.recorder.Insert(ctx, entry); err != nil {
		logger.WarnWithFields("failed to record ai log", logger.Fields{
			"purpose": entry.Purpose,
			"error":   err.Error(),
		})
	}
}
