package service

import (
	"context"
	"time"

	"github.com/friendlines/interview-api/internal/domain"
	"github.com/friendlines/interview-api/internal/llm"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Put(ctx context.Context, session *domain.InterviewSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*domain.InterviewSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewSession), args.Error(1)
}

func (m *MockSessionRepository) CountByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockProvider mocks the llm.Provider interface
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) IsConfigured() bool {
	return true
}

func (m *MockProvider) ContinueInterview(ctx context.Context, history []domain.ChatMessage, ictx domain.InterviewContext) (*llm.TurnResult, error) {
	args := m.Called(ctx, history, ictx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.TurnResult), args.Error(1)
}

func (m *MockProvider) GenerateNewsflash(ctx context.Context, history []domain.ChatMessage, ictx domain.InterviewContext) (*domain.NewsflashDraft, error) {
	args := m.Called(ctx, history, ictx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NewsflashDraft), args.Error(1)
}

// fixedClock pins "now" for deterministic context and quota windows
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }
