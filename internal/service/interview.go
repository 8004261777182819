package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/friendlines/interview-api/internal/config"
	"github.com/friendlines/interview-api/internal/domain"
	"github.com/friendlines/interview-api/internal/llm"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// fallbackUserName is used when the directory lookup fails or the user has
// no display name.
const fallbackUserName = "friend"

// InterviewService owns the interview session lifecycle: starting sessions,
// turn-taking, the daily quota, the message cap, and the transition into
// draft generation. All cross-call state lives in the session store; two
// concurrent sends on one session can race and the second write wins.
type InterviewService struct {
	sessionRepo domain.SessionRepository
	userRepo    domain.UserRepository
	provider    llm.Provider
	dailyMax    int
	messageCap  int
	sessionTTL  time.Duration
	callTimeout time.Duration
	clock       Clock
}

// NewInterviewService creates a new interview service. A nil clock falls
// back to the system clock.
func NewInterviewService(
	sessionRepo domain.SessionRepository,
	userRepo domain.UserRepository,
	provider llm.Provider,
	cfg config.InterviewConfig,
	callTimeout time.Duration,
	clock Clock,
) *InterviewService {
	if clock == nil {
		clock = SystemClock()
	}
	return &InterviewService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		provider:    provider,
		dailyMax:    cfg.DailyMax,
		messageCap:  cfg.MessageCap,
		sessionTTL:  cfg.SessionTTL,
		callTimeout: callTimeout,
		clock:       clock,
	}
}

// StartInterview begins a new interview session for userID. Unknown type or
// language values fall back to defaults; the daily quota is checked before
// any provider call.
func (s *InterviewService) StartInterview(ctx context.Context, userID uuid.UUID, input domain.StartInterviewInput) (*domain.InterviewSession, error) {
	interviewType := domain.InterviewType(input.Type)
	switch interviewType {
	case domain.InterviewDaily, domain.InterviewWeekly, domain.InterviewEvent:
	default:
		interviewType = domain.InterviewDaily
	}

	language := domain.Language(input.Language)
	switch language {
	case domain.LanguageEnglish, domain.LanguageHebrew, domain.LanguageSpanish:
	default:
		language = domain.LanguageEnglish
	}

	now := s.clock.Now()

	count, err := s.sessionRepo.CountByUserSince(ctx, userID, startOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("failed to count today's interviews: %w", err)
	}
	if count >= int64(s.dailyMax) {
		return nil, domain.NewRateLimitError(fmt.Sprintf("Daily interview limit reached (%d per day). Try again tomorrow.", s.dailyMax))
	}

	ictx := domain.InterviewContext{
		TimeOfDay:     timeOfDayBucket(now.Hour()),
		DayOfWeek:     weekdayName(language, now.Weekday()),
		InterviewType: interviewType,
		UserName:      s.displayName(ctx, userID),
		Language:      language,
		Feedback:      input.Feedback,
	}

	turn, err := s.continueInterview(ctx, nil, ictx)
	if err != nil {
		return nil, err
	}

	session := &domain.InterviewSession{
		ID:                uuid.New().String(),
		UserID:            userID,
		Status:            domain.StatusActive,
		Messages:          []domain.ChatMessage{{Role: domain.RoleAssistant, Content: turn.Question}},
		Context:           ictx,
		CoveredDimensions: coveredOrEmpty(turn.CoveredDimensions),
		PromptVersion:     llm.PromptVersion,
		CreatedAt:         now,
		UpdatedAt:         now,
		ExpiresAt:         now.Add(s.sessionTTL),
	}

	if err := s.sessionRepo.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist interview: %w", err)
	}

	log.Info().
		Str("interview_id", session.ID).
		Str("user_id", userID.String()).
		Str("type", string(interviewType)).
		Str("language", string(language)).
		Msg("Interview started")

	return session, nil
}

// SendMessage appends a user turn and asks the provider for the next
// question. If the stored message count has already reached the cap, the
// incoming message is dropped and the interview is force-completed instead.
func (s *InterviewService) SendMessage(ctx context.Context, userID uuid.UUID, sessionID, message string) (*domain.InterviewSession, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != domain.StatusActive {
		return nil, domain.NewInvalidStateError(fmt.Sprintf("Interview is %s. Cannot send more messages.", session.Status))
	}

	if strings.TrimSpace(message) == "" {
		return nil, domain.NewValidationError("Message cannot be empty")
	}

	// Cap check on the count prior to appending: the triggering message is
	// never added to the transcript.
	if len(session.Messages) >= s.messageCap {
		log.Info().
			Str("interview_id", session.ID).
			Int("messages", len(session.Messages)).
			Msg("Message cap reached, forcing completion")
		return s.complete(ctx, session)
	}

	working := append(copyMessages(session.Messages), domain.ChatMessage{Role: domain.RoleUser, Content: message})

	turn, err := s.continueInterview(ctx, working, session.Context)
	if err != nil {
		return nil, err
	}

	session.Messages = append(working, domain.ChatMessage{Role: domain.RoleAssistant, Content: turn.Question})
	// Overwritten verbatim each turn; the provider's own set may shrink.
	session.CoveredDimensions = coveredOrEmpty(turn.CoveredDimensions)
	session.UpdatedAt = s.clock.Now()

	if turn.IsDone {
		return s.complete(ctx, session)
	}

	if err := s.sessionRepo.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist interview: %w", err)
	}
	return session, nil
}

// GetInterview returns the stored snapshot for the owner
func (s *InterviewService) GetInterview(ctx context.Context, userID uuid.UUID, sessionID string) (*domain.InterviewSession, error) {
	return s.ownedSession(ctx, userID, sessionID)
}

// CancelInterview terminates an active interview without generating a draft
func (s *InterviewService) CancelInterview(ctx context.Context, userID uuid.UUID, sessionID string) (*domain.InterviewSession, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != domain.StatusActive {
		return nil, domain.NewInvalidStateError(fmt.Sprintf("Interview is %s. Cannot cancel.", session.Status))
	}

	session.Status = domain.StatusCancelled
	session.UpdatedAt = s.clock.Now()

	if err := s.sessionRepo.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist interview: %w", err)
	}

	log.Info().Str("interview_id", session.ID).Msg("Interview cancelled")
	return session, nil
}

// complete drives a session through generating into completed. The
// generating write must be acknowledged before the draft call starts, so a
// crash mid-generation is observable as a stuck generating session.
func (s *InterviewService) complete(ctx context.Context, session *domain.InterviewSession) (*domain.InterviewSession, error) {
	session.Status = domain.StatusGenerating
	session.UpdatedAt = s.clock.Now()
	if err := s.sessionRepo.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist interview: %w", err)
	}

	draft, err := s.generateNewsflash(ctx, session.Messages, session.Context)
	if err != nil {
		return nil, err
	}

	session.Status = domain.StatusCompleted
	session.DraftNewsflash = draft
	session.UpdatedAt = s.clock.Now()
	if err := s.sessionRepo.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist interview: %w", err)
	}

	log.Info().
		Str("interview_id", session.ID).
		Str("category", string(draft.Category)).
		Str("severity", string(draft.Severity)).
		Msg("Interview completed")

	return session, nil
}

func (s *InterviewService) ownedSession(ctx context.Context, userID uuid.UUID, sessionID string) (*domain.InterviewSession, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview: %w", err)
	}
	if session == nil {
		return nil, domain.NewNotFoundError("Interview not found")
	}
	if session.UserID != userID {
		return nil, domain.NewForbiddenError("You do not have access to this interview")
	}
	return session, nil
}

func (s *InterviewService) continueInterview(ctx context.Context, history []domain.ChatMessage, ictx domain.InterviewContext) (*llm.TurnResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.provider.ContinueInterview(callCtx, history, ictx)
}

func (s *InterviewService) generateNewsflash(ctx context.Context, history []domain.ChatMessage, ictx domain.InterviewContext) (*domain.NewsflashDraft, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.provider.GenerateNewsflash(callCtx, history, ictx)
}

func (s *InterviewService) displayName(ctx context.Context, userID uuid.UUID) string {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil || user.DisplayName == "" {
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Display name lookup failed")
		}
		return fallbackUserName
	}
	return user.DisplayName
}

func copyMessages(messages []domain.ChatMessage) []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(messages))
	copy(out, messages)
	return out
}

func coveredOrEmpty(dims []domain.InterviewDimension) []domain.InterviewDimension {
	if dims == nil {
		return []domain.InterviewDimension{}
	}
	return dims
}
