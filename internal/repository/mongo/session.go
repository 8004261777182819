package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/friendlines/interview-api/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollection = "interview_sessions"

// SessionRepository implements domain.SessionRepository on MongoDB. Records
// are whole documents keyed by session id; Put replaces the full document,
// so the last writer wins.
type SessionRepository struct {
	coll *mongo.Collection
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client *Client) *SessionRepository {
	return &SessionRepository{coll: client.Database().Collection(sessionCollection)}
}

// sessionDoc is the stored shape of an interview session. UserID is stored
// as its string form; everything else reuses the domain types.
type sessionDoc struct {
	ID                string                      `bson:"_id"`
	UserID            string                      `bson:"user_id"`
	Status            domain.SessionStatus        `bson:"status"`
	Messages          []domain.ChatMessage        `bson:"messages"`
	Context           domain.InterviewContext     `bson:"context"`
	CoveredDimensions []domain.InterviewDimension `bson:"covered_dimensions"`
	DraftNewsflash    *domain.NewsflashDraft      `bson:"draft_newsflash,omitempty"`
	PromptVersion     string                      `bson:"prompt_version"`
	CreatedAt         time.Time                   `bson:"created_at"`
	UpdatedAt         time.Time                   `bson:"updated_at"`
	ExpiresAt         time.Time                   `bson:"expires_at"`
}

func toDoc(s *domain.InterviewSession) *sessionDoc {
	return &sessionDoc{
		ID:                s.ID,
		UserID:            s.UserID.String(),
		Status:            s.Status,
		Messages:          s.Messages,
		Context:           s.Context,
		CoveredDimensions: s.CoveredDimensions,
		DraftNewsflash:    s.DraftNewsflash,
		PromptVersion:     s.PromptVersion,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		ExpiresAt:         s.ExpiresAt,
	}
}

func (d *sessionDoc) toDomain() (*domain.InterviewSession, error) {
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id on session %s: %w", d.ID, err)
	}
	return &domain.InterviewSession{
		ID:                d.ID,
		UserID:            userID,
		Status:            d.Status,
		Messages:          d.Messages,
		Context:           d.Context,
		CoveredDimensions: d.CoveredDimensions,
		DraftNewsflash:    d.DraftNewsflash,
		PromptVersion:     d.PromptVersion,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		ExpiresAt:         d.ExpiresAt,
	}, nil
}

// EnsureIndexes creates the TTL index that expires stale sessions and the
// owner/created_at index backing the daily quota count.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}
	return nil
}

// Put writes the full session document, creating or overwriting it
func (r *SessionRepository) Put(ctx context.Context, session *domain.InterviewSession) error {
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": session.ID},
		toDoc(session),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to put session: %w", err)
	}
	return nil
}

// Get returns the session with the given id, or nil if absent
func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.InterviewSession, error) {
	var doc sessionDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return doc.toDomain()
}

// CountByUserSince counts sessions owned by userID created at or after
// since, regardless of status.
func (r *SessionRepository) CountByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"user_id":    userID.String(),
		"created_at": bson.M{"$gte": since},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}
