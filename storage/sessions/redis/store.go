package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/session"
)

// Open connects to redis and waits for it to be ready. Waits 100ms longer between each attempt.
func Open(ctx context.Context, conf core.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	var err error
	maxAttempts := 10
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return client, nil
		}
		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, errors.Wrap(ctx.Err(), "redis ping")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	_ = client.Close()
	return nil, errors.Wrap(err, "redis ping timeout")
}

type sessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

var _ session.Repository = (*sessionRepository)(nil)

// NewSessionRepository stores session records as JSON; records without an expiry live for `ttl`.
func NewSessionRepository(client *redis.Client, ttl time.Duration) session.Repository {
	return &sessionRepository{client: client, ttl: ttl, now: time.Now}
}

func sessionKey(id string) string {
	return fmt.Sprintf("eduport:session:%s", id)
}

func (repo *sessionRepository) Get(ctx context.Context, id string) (session.Record, error) {
	value, err := repo.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return session.Record{}, session.ErrNotFound
	}
	if err != nil {
		return session.Record{}, errors.Wrap(err, "getting session")
	}
	var rec session.Record
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		return session.Record{}, errors.Wrap(err, "decoding session")
	}
	if rec.Expired(repo.now()) {
		return session.Record{}, session.ErrNotFound
	}
	return rec, nil
}

func (repo *sessionRepository) Save(ctx context.Context, rec session.Record) error {
	ttl := repo.expiration(rec)
	if ttl <= 0 {
		return repo.Delete(ctx, rec.ID)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	return errors.Wrap(repo.client.Set(ctx, sessionKey(rec.ID), data, ttl).Err(), "saving session")
}

func (repo *sessionRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrap(repo.client.Del(ctx, sessionKey(id)).Err(), "deleting session")
}

// expiration returns how long redis should keep `rec`.
func (repo *sessionRepository) expiration(rec session.Record) time.Duration {
	if rec.ExpiresAt.IsZero() {
		return repo.ttl
	}
	return rec.ExpiresAt.Sub(repo.now())
}
