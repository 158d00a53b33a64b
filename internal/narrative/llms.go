package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/openai/openai-go"
)

// LLM generates free-form text from a prompt. Implementations must honor
// the context deadline; the narrator runs them under a short timeout so a
// slow provider degrades a response instead of stalling it.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Gemini struct {
	client *resty.Client
	model  string
}

func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{
		client: resty.New().
			SetBaseURL("https://generativelanguage.googleapis.com").
			SetHeader("x-goog-api-key", apiKey),
		model: model,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	var result geminiResponse

	res, err := g.client.R().
		SetContext(ctx).
		SetBody(geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}).
		SetResult(&result).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", g.model))
	if err != nil {
		slog.Error("gemini error: generate content failed", "error", err)
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	if res.IsError() {
		slog.Error("gemini error: generate content rejected", "status", res.StatusCode())
		return "", fmt.Errorf("gemini generation failed with status %d", res.StatusCode())
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}

type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(model string) *OpenAI {
	return &OpenAI{client: openai.NewClient(), model: model}
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Model:    o.model,
	})
	if err != nil {
		slog.Error("openai error: chat completions failed", "error", err)
		return "", fmt.Errorf("openai generation failed: %w", err)
	}
	return strings.TrimSpace(res.Choices[0].Message.Content), nil
}
