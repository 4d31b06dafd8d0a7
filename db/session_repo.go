package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	errs "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/models"
)

const sessionKeyPrefix = "citypulse:session:"

// SessionRepository persists one JSON session object per session id
type SessionRepository interface {
	SaveSession(ctx context.Context, session *models.Session, ttl time.Duration) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	UpdateSessionPoints(ctx context.Context, id string, points int) error
	DeleteSession(ctx context.Context, id string) error
}

type sessionRepo struct {
	client *redis.Client
}

func NewSessionRepo(client *redis.Client) SessionRepository {
	return &sessionRepo{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *sessionRepo) SaveSession(ctx context.Context, session *models.Session, ttl time.Duration) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), raw, ttl).Err(); err != nil {
		return errors.Wrap(err, "save session")
	}
	return nil
}

func (s *sessionRepo) GetSession(ctx context.Context, id string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errs.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "load session")
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	return &session, nil
}

// UpdateSessionPoints rewrites the stored balance and keeps the remaining TTL
func (s *sessionRepo) UpdateSessionPoints(ctx context.Context, id string, points int) error {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}
	session.Points = points
	raw, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	if err := s.client.SetArgs(ctx, sessionKey(id), raw, redis.SetArgs{KeepTTL: true}).Err(); err != nil {
		return errors.Wrap(err, "update session points")
	}
	return nil
}

func (s *sessionRepo) DeleteSession(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return errors.Wrap(err, "delete session")
	}
	return nil
}
