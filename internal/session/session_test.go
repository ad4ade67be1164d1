package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppldoc/superadmin-console/internal/cache"
	"github.com/ppldoc/superadmin-console/pkg/hms"
)

func newStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(cache.NewRedisClientWithClient(client), 12*time.Hour), mr
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix(), "sub": "root"}).
		SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func TestCreateGetDestroy(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, signed(t, time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.True(t, sess.Authenticated())

	ttl := mr.TTL("session:" + sess.ID)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)

	require.NoError(t, store.Destroy(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_ExpiredToken(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Create(context.Background(), signed(t, time.Now().Add(-time.Minute)))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSave_KeepsExpiry(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "opaque-token")
	require.NoError(t, err)
	mr.FastForward(time.Hour)

	sess.Profile = &hms.Profile{Name: "Root", Email: "root@ppldoc.com"}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Root", got.Profile.Name)
	assert.InDelta(t, (11 * time.Hour).Seconds(), mr.TTL("session:"+sess.ID).Seconds(), 5)
}

func TestSave_UnknownSession(t *testing.T) {
	store, _ := newStore(t)

	err := store.Save(context.Background(), &Session{ID: "sess_missing", Token: "t"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFlashes_AreConsumedOnce(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddFlash(ctx, "s1", Flash{Type: FlashSuccess, Message: "Hospital updated"}))
	require.NoError(t, store.AddFlash(ctx, "s1", Flash{Type: FlashError, Message: "Branch with this email already exists."}))

	flashes, err := store.Flashes(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, flashes, 2)
	assert.Equal(t, "Hospital updated", flashes[0].Message)

	flashes, err = store.Flashes(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, flashes)
}

func TestTokenTTL(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 12*time.Hour, TokenTTL("not-a-jwt", 12*time.Hour, now))
	assert.Equal(t, 12*time.Hour, TokenTTL(signed(t, now.Add(48*time.Hour)), 12*time.Hour, now))
	assert.InDelta(t, (2 * time.Hour).Seconds(), TokenTTL(signed(t, now.Add(2*time.Hour)), 12*time.Hour, now).Seconds(), 1)
	assert.LessOrEqual(t, TokenTTL(signed(t, now.Add(-time.Hour)), 12*time.Hour, now), time.Duration(0))
}

func TestCookieSigning(t *testing.T) {
	value := SignID("sess_abc", "secret")

	id, ok := VerifyCookie(value, "secret")
	assert.True(t, ok)
	assert.Equal(t, "sess_abc", id)

	_, ok = VerifyCookie(value, "other")
	assert.False(t, ok)
	_, ok = VerifyCookie("sess_abc", "secret")
	assert.False(t, ok)
	_, ok = VerifyCookie("sess_abc.", "secret")
	assert.False(t, ok)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), &Session{ID: "s", Token: "t"})
	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "s", s.ID)
}
