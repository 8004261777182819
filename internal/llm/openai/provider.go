package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/friendlines/interview-api/internal/config"
	"github.com/friendlines/interview-api/internal/domain"
	"github.com/friendlines/interview-api/internal/llm"
	"github.com/rs/zerolog/log"
)

// Provider implements llm.Provider against an OpenAI-compatible
// chat-completions endpoint with strict JSON-schema output.
type Provider struct {
	apiKey         string
	baseURL        string
	interviewModel string
	newsflashModel string
	client         *http.Client
}

// NewProvider creates a new OpenAI provider
func NewProvider(cfg config.OpenAIConfig) *Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	interviewModel := cfg.InterviewModel
	if interviewModel == "" {
		interviewModel = "gpt-4o-mini"
	}
	newsflashModel := cfg.NewsflashModel
	if newsflashModel == "" {
		newsflashModel = "gpt-4o"
	}
	return &Provider{
		apiKey:         cfg.APIKey,
		baseURL:        baseURL,
		interviewModel: interviewModel,
		newsflashModel: newsflashModel,
		client:         &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "openai"
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type responseFormat struct {
	Type       string           `json:"type"`
	JSONSchema jsonSchemaFormat `json:"json_schema"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ContinueInterview asks for the next interview question
func (p *Provider) ContinueInterview(ctx context.Context, history []domain.ChatMessage, ictx domain.InterviewContext) (*llm.TurnResult, error) {
	messages := []chatMessage{{Role: string(domain.RoleSystem), Content: llm.BuildInterviewPrompt(ictx)}}
	for _, msg := range llm.FilterSystem(history) {
		messages = append(messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	content, err := p.complete(ctx, p.interviewModel, llm.SchemaInterviewTurn, llm.InterviewTurnSchema(), messages)
	if err != nil {
		return nil, err
	}

	var turn llm.TurnResult
	if err := json.Unmarshal([]byte(content), &turn); err != nil {
		return nil, domain.NewProviderError("language model returned an unparseable interview turn", err)
	}
	return &turn, nil
}

// GenerateNewsflash turns a finished transcript into a draft post
func (p *Provider) GenerateNewsflash(ctx context.Context, history []domain.ChatMessage, ictx domain.InterviewContext) (*domain.NewsflashDraft, error) {
	transcript := llm.RenderTranscript(history)
	messages := []chatMessage{
		{Role: string(domain.RoleSystem), Content: llm.BuildNewsflashPrompt(ictx, transcript)},
		{Role: string(domain.RoleUser), Content: "Write my newsflash now."},
	}

	content, err := p.complete(ctx, p.newsflashModel, llm.SchemaNewsflashDraft, llm.NewsflashDraftSchema(), messages)
	if err != nil {
		return nil, err
	}

	var draft domain.NewsflashDraft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, domain.NewProviderError("language model returned an unparseable newsflash draft", err)
	}
	return &draft, nil
}

func (p *Provider) complete(ctx context.Context, model, schemaName string, schema map[string]any, messages []chatMessage) (string, error) {
	chatReq := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.7,
		ResponseFormat: responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchemaFormat{
				Name:   schemaName,
				Strict: true,
				Schema: schema,
			},
		},
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	log.Debug().
		Str("provider", p.Name()).
		Str("model", model).
		Str("schema", schemaName).
		Int("messages", len(messages)).
		Msg("Calling chat completions")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.NewProviderTimeoutError("language model call timed out", err)
		}
		return "", domain.NewProviderError("language model request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domain.NewProviderError(fmt.Sprintf("language model returned status %d", resp.StatusCode), nil)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", domain.NewProviderError("failed to decode language model response", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", domain.NewProviderError("language model returned no content", nil)
	}

	return chatResp.Choices[0].Message.Content, nil
}
