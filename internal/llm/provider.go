package llm

import (
	"context"

	"github.com/friendlines/interview-api/internal/domain"
)

// PromptVersion tags the prompt template set in effect. It is stamped onto
// every session at creation for auditability and never recomputed.
const PromptVersion = "v2"

// TurnResult is the structured output of one interview turn
type TurnResult struct {
	Question          string                      `json:"question"`
	IsDone            bool                        `json:"isDone"`
	CoveredDimensions []domain.InterviewDimension `json:"coveredDimensions"`
}

// Provider defines the interface for interview language-model backends
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// ContinueInterview asks the model for the next interview question given
	// the transcript so far. An empty history requests the opening question.
	ContinueInterview(ctx context.Context, history []domain.ChatMessage, ictx domain.InterviewContext) (*TurnResult, error)

	// GenerateNewsflash turns a finished transcript into a draft post
	GenerateNewsflash(ctx context.Context, history []domain.ChatMessage, ictx domain.InterviewContext) (*domain.NewsflashDraft, error)
}
