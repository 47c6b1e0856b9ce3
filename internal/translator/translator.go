package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"codeberg.org/snonux/lingocard/internal/script"
)

// Request is one translate/romanize call to the external collaborator.
type Request struct {
	Text           string
	TargetLanguage string // ISO 639-1 code
	ForcedLanguage string // ISO 639-1 code or "auto"
}

// Response is the collaborator's answer. ReadingText is optional and
// uses the base(reading) annotation convention when present.
type Response struct {
	TranslatedText string
	ReadingText    string
}

// Provider is the single external collaborator boundary of the pipeline.
type Provider interface {
	Translate(ctx context.Context, req Request) (*Response, error)
}

// OpenAIProvider translates through the OpenAI chat API, guarded by a
// circuit breaker so a flapping provider trips fast instead of queueing
// timeouts.
type OpenAIProvider struct {
	apiKey  string
	client  *openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

// NewOpenAIProvider creates a provider instance. An empty model selects
// GPT4oMini.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIProvider{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
		model:  model,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "openai-translate",
			Timeout: 30 * time.Second,
		}),
	}
}

// Translate sends the text to the provider and parses the structured
// reply.
func (p *OpenAIProvider) Translate(ctx context.Context, req Request) (*Response, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found")
	}

	creq := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a translation assistant for language learners. " +
					"Reply with a JSON object only: " +
					`{"translation": "<translated text>", "reading": "<source text annotated with readings>"}. ` +
					"In \"reading\", follow each word that needs a phonetic reading with the reading " +
					"in parentheses, e.g. 漢字(かんじ)です. Leave \"reading\" empty for scripts that " +
					"need no romanization.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt(req),
			},
		},
		MaxTokens:   1000,
		Temperature: 0.3,
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.client.CreateChatCompletion(ctx, creq)
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	resp := result.(openai.ChatCompletionResponse)
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no translation returned")
	}

	return parseReply(resp.Choices[0].Message.Content)
}

func userPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following text into the language with ISO 639-1 code %q", req.TargetLanguage)
	if req.ForcedLanguage != "" && req.ForcedLanguage != script.ForcedAuto {
		fmt.Fprintf(&b, " (the source language is %q)", req.ForcedLanguage)
	}
	fmt.Fprintf(&b, ":\n\n%s", req.Text)
	return b.String()
}

// parseReply decodes the provider's JSON reply. A reply that is not
// valid JSON is treated as a bare translation with no reading.
func parseReply(content string) (*Response, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var reply struct {
		Translation string `json:"translation"`
		Reading     string `json:"reading"`
	}
	if err := json.Unmarshal([]byte(content), &reply); err != nil || reply.Translation == "" {
		if content == "" {
			return nil, fmt.Errorf("empty translation returned")
		}
		return &Response{TranslatedText: content}, nil
	}
	return &Response{
		TranslatedText: strings.TrimSpace(reply.Translation),
		ReadingText:    strings.TrimSpace(reply.Reading),
	}, nil
}
