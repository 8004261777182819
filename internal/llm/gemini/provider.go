package gemini

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/friendlines/interview-api/internal/config"
	"github.com/friendlines/interview-api/internal/domain"
	"github.com/friendlines/interview-api/internal/llm"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Provider implements llm.Provider on top of the Gemini API using its
// native response-schema constraint.
type Provider struct {
	apiKey string
	model  string
}

// NewProvider creates a new Gemini provider
func NewProvider(cfg config.GeminiConfig) *Provider {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Provider{apiKey: cfg.APIKey, model: model}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// ContinueInterview asks for the next interview question
func (p *Provider) ContinueInterview(ctx context.Context, history []domain.ChatMessage, ictx domain.InterviewContext) (*llm.TurnResult, error) {
	prompt := llm.BuildInterviewPrompt(ictx)
	if transcript := llm.RenderTranscript(llm.FilterSystem(history)); transcript != "" {
		prompt += "\n\nConversation so far:\n" + transcript
	} else {
		prompt += "\n\nAsk your opening question."
	}

	content, err := p.generate(ctx, llm.SchemaInterviewTurn, interviewTurnSchema(), prompt)
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
	prompt := llm.BuildNewsflashPrompt(ictx, llm.RenderTranscript(history))

	content, err := p.generate(ctx, llm.SchemaNewsflashDraft, newsflashDraftSchema(), prompt)
	if err != nil {
		return nil, err
	}

	var draft domain.NewsflashDraft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, domain.NewProviderError("language model returned an unparseable newsflash draft", err)
	}
	return &draft, nil
}

func (p *Provider) generate(ctx context.Context, schemaName string, schema *genai.Schema, prompt string) (string, error) {
	if !p.IsConfigured() {
		return "", domain.NewProviderError("gemini provider is not configured", nil)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", domain.NewProviderError("failed to create gemini client", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema

	log.Debug().
		Str("provider", p.Name()).
		Str("model", p.model).
		Str("schema", schemaName).
		Msg("Calling Gemini generate content")

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.NewProviderTimeoutError("language model call timed out", err)
		}
		return "", domain.NewProviderError("language model request failed", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", domain.NewProviderError("language model returned no content", nil)
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok || text == "" {
		return "", domain.NewProviderError("language model returned no content", nil)
	}

	return string(text), nil
}

func interviewTurnSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question": {Type: genai.TypeString},
			"isDone":   {Type: genai.TypeBoolean},
			"coveredDimensions": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString, Enum: enumStrings(llm.Dimensions)},
			},
		},
		Required: []string{"question", "isDone", "coveredDimensions"},
	}
}

func newsflashDraftSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"headline":    {Type: genai.TypeString},
			"subHeadline": {Type: genai.TypeString},
			"category":    {Type: genai.TypeString, Enum: enumStrings(llm.Categories)},
			"severity":    {Type: genai.TypeString, Enum: enumStrings(llm.Severities)},
		},
		Required: []string{"headline", "subHeadline", "category", "severity"},
	}
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
