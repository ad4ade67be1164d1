package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/ppldoc/superadmin-console/internal/cache"
	"github.com/ppldoc/superadmin-console/internal/utils"
)

// RedisStore keeps sessions under session:{id} and their flash queue under
// session:{id}:flash.
type RedisStore struct {
	cache  *cache.RedisClient
	maxTTL time.Duration
	now    func() time.Time
}

// NewRedisStore creates a store. maxTTL caps every session lifetime.
func NewRedisStore(c *cache.RedisClient, maxTTL time.Duration) *RedisStore {
	return &RedisStore{cache: c, maxTTL: maxTTL, now: time.Now}
}

func sessionKey(id string) string { return "session:" + id }
func flashKey(id string) string   { return "session:" + id + ":flash" }

// Create stores a new session for token. Its lifetime follows the token's
// exp claim when it has one.
func (s *RedisStore) Create(ctx context.Context, token string) (*Session, error) {
	ttl := TokenTTL(token, s.maxTTL, s.now())
	if ttl <= 0 {
		return nil, ErrTokenExpired
	}

	id, err := utils.GenerateSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	sess := &Session{ID: id, Token: token, CreatedAt: s.now().UTC()}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKey(id), string(data), ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	log.Debug().Str("session_id", id[:13]).Dur("ttl", ttl).Msg("Session created")
	return sess, nil
}

// Get loads a session by id.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	raw, err := s.cache.Get(ctx, sessionKey(id))
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Save writes back a session, keeping its expiry.
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	exists, err := s.cache.Exists(ctx, sessionKey(sess.ID))
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.cache.Set(ctx, sessionKey(sess.ID), string(data), cache.KeepTTL)
}

// Destroy removes the session and any pending flashes.
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionKey(id), flashKey(id))
}

// AddFlash queues a notification for the next render.
func (s *RedisStore) AddFlash(ctx context.Context, id string, f Flash) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.cache.Push(ctx, flashKey(id), string(data), 10*time.Minute)
}

// Flashes returns and clears the queued notifications.
func (s *RedisStore) Flashes(ctx context.Context, id string) ([]Flash, error) {
	raw, err := s.cache.Drain(ctx, flashKey(id))
	if err != nil {
		return nil, err
	}
	out := make([]Flash, 0, len(raw))
	for _, r := range raw {
		var f Flash
		if err := json.Unmarshal([]byte(r), &f); err != nil {
			log.Warn().Err(err).Msg("Dropping malformed flash")
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// TokenTTL returns how long a session for token may live: the time left
// until its exp claim, capped at limit. Tokens that are not JWTs or carry no
// exp get limit. The signature is not verified; the backend does that.
func TokenTTL(token string, limit time.Duration, now time.Time) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return limit
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return limit
	}
	ttl := exp.Sub(now)
	if limit > 0 && ttl > limit {
		return limit
	}
	return ttl
}
