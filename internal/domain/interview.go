package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a chat message
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleAssistant MessageRole = "assistant"
	RoleUser      MessageRole = "user"
)

// ChatMessage is a single turn in an interview transcript. Stored
// transcripts only ever contain assistant and user turns; system turns are
// synthesized per provider call and never persisted.
type ChatMessage struct {
	Role    MessageRole `bson:"role" json:"role"`
	Content string      `bson:"content" json:"content"`
}

// InterviewType classifies what kind of newsflash the interview is for
type InterviewType string

const (
	InterviewDaily  InterviewType = "daily"
	InterviewWeekly InterviewType = "weekly"
	InterviewEvent  InterviewType = "event"
)

// Language is a supported interview language
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHebrew  Language = "he"
	LanguageSpanish Language = "es"
)

// TimeOfDay buckets the local hour at interview start
type TimeOfDay string

const (
	TimeMorning TimeOfDay = "morning"
	TimeMidday  TimeOfDay = "midday"
	TimeEvening TimeOfDay = "evening"
)

// InterviewDimension is one of the narrative facts the interview elicits
// before it can end.
type InterviewDimension string

const (
	DimensionWho     InterviewDimension = "who"
	DimensionWhat    InterviewDimension = "what"
	DimensionWhen    InterviewDimension = "when"
	DimensionWhere   InterviewDimension = "where"
	DimensionWhy     InterviewDimension = "why"
	DimensionEmotion InterviewDimension = "emotion"
)

// InterviewContext is fixed at session creation and fed into every prompt.
type InterviewContext struct {
	TimeOfDay     TimeOfDay     `bson:"time_of_day" json:"time_of_day"`
	DayOfWeek     string        `bson:"day_of_week" json:"day_of_week"`
	InterviewType InterviewType `bson:"interview_type" json:"interview_type"`
	UserName      string        `bson:"user_name" json:"user_name"`
	Language      Language      `bson:"language" json:"language"`
	Feedback      string        `bson:"feedback,omitempty" json:"feedback,omitempty"`
}

// NewsflashCategory is the closed category set for generated drafts
type NewsflashCategory string

const (
	CategoryGeneral       NewsflashCategory = "GENERAL"
	CategorySocial        NewsflashCategory = "SOCIAL"
	CategorySports        NewsflashCategory = "SPORTS"
	CategoryFood          NewsflashCategory = "FOOD"
	CategoryTravel        NewsflashCategory = "TRAVEL"
	CategoryWork          NewsflashCategory = "WORK"
	CategoryEntertainment NewsflashCategory = "ENTERTAINMENT"
)

// NewsflashSeverity is the closed severity set for generated drafts
type NewsflashSeverity string

const (
	SeverityStandard   NewsflashSeverity = "STANDARD"
	SeverityBreaking   NewsflashSeverity = "BREAKING"
	SeverityDeveloping NewsflashSeverity = "DEVELOPING"
)

// NewsflashDraft is the generated candidate post. Headline and sub-headline
// length limits are part of the generation contract, not enforced here.
type NewsflashDraft struct {
	Headline    string            `bson:"headline" json:"headline"`
	SubHeadline string            `bson:"sub_headline" json:"subHeadline"`
	Category    NewsflashCategory `bson:"category" json:"category"`
	Severity    NewsflashSeverity `bson:"severity" json:"severity"`
}

// SessionStatus is the interview lifecycle state
type SessionStatus string

const (
	StatusActive     SessionStatus = "active"
	StatusGenerating SessionStatus = "generating"
	StatusCompleted  SessionStatus = "completed"
	StatusCancelled  SessionStatus = "cancelled"
)

// Terminal reports whether no further transitions leave the status
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// InterviewSession is one end-to-end interview conversation owned by one
// user. ExpiresAt drives the store's TTL expiry.
type InterviewSession struct {
	ID                string               `bson:"_id" json:"id"`
	UserID            uuid.UUID            `bson:"user_id" json:"user_id"`
	Status            SessionStatus        `bson:"status" json:"status"`
	Messages          []ChatMessage        `bson:"messages" json:"messages"`
	Context           InterviewContext     `bson:"context" json:"context"`
	CoveredDimensions []InterviewDimension `bson:"covered_dimensions" json:"covered_dimensions"`
	DraftNewsflash    *NewsflashDraft      `bson:"draft_newsflash,omitempty" json:"draft_newsflash,omitempty"`
	PromptVersion     string               `bson:"prompt_version" json:"prompt_version"`
	CreatedAt         time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time            `bson:"updated_at" json:"updated_at"`
	ExpiresAt         time.Time            `bson:"expires_at" json:"expires_at"`
}

// SessionRepository defines the interface for interview session storage.
// Put overwrites the full record keyed by session id (last writer wins).
type SessionRepository interface {
	Put(ctx context.Context, session *InterviewSession) error
	Get(ctx context.Context, id string) (*InterviewSession, error)
	CountByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
}

// StartInterviewInput carries the caller-supplied start parameters.
// Unknown type/language values fall back to defaults rather than being
// rejected.
type StartInterviewInput struct {
	Type     string `json:"type"`
	Language string `json:"language"`
	Feedback string `json:"feedback,omitempty"`
}

// SendMessageInput carries one user turn
type SendMessageInput struct {
	Message string `json:"message" validate:"required"`
}
