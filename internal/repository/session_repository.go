package repository

import (
	"chosung_quiz_backend/internal/model"
	"chosung_quiz_backend/internal/util"
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionRepository keeps quiz sessions in Redis as JSON values with a
// sliding TTL. It round-trips exactly what was written; durability beyond
// the TTL is not a contract.
type SessionRepository struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{Client: client, TTL: ttl}
}

func (r *SessionRepository) key(sid string) string {
	return "quiz:session:" + sid
}

func (r *SessionRepository) Save(ctx context.Context, sid string, session *model.QuizSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, r.key(sid), data, r.TTL).Err()
}

func (r *SessionRepository) Find(ctx context.Context, sid string) (*model.QuizSession, error) {
	data, err := r.Client.Get(ctx, r.key(sid)).Bytes()
	if err == redis.Nil {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session model.QuizSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sid string) error {
	return r.Client.Del(ctx, r.key(sid)).Err()
}
