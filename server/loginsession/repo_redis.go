package loginsession

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "console:session:"

var _ Repo = (*RedisRepo)(nil)

// RedisRepo keeps sessions in Redis hashes so several console instances can
// share logins. Each key expires with its session.
type RedisRepo struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisRepo connects to addr, which is either a redis:// URL or host:port.
// If prefix is empty "console:session:" is used.
func NewRedisRepo(ctx context.Context, addr, prefix string) (*RedisRepo, error) {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	opt := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		var err error
		if opt, err = redis.ParseURL(addr); err != nil {
			return nil, errors.Wrapf(err, "[NewRedisRepo] invalid redis address")
		}
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "[NewRedisRepo] redis ping failed")
	}

	return &RedisRepo{rdb: rdb, prefix: prefix}, nil
}

func (r *RedisRepo) key(sessionID string) string { return r.prefix + sessionID }

// Upsert stores the session as a hash with fields acc, ref, cat, exp (unix)
func (r *RedisRepo) Upsert(ctx context.Context, session Session) error {
	if session.ID == "" {
		return fmt.Errorf("sessionID is required")
	}

	kv := map[string]string{
		"acc": session.AccessToken,
		"ref": session.RefreshToken,
		"cat": formatUnix(session.CreatedAt),
		"exp": formatUnix(session.ExpiresAt),
	}

	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, r.key(session.ID), kv)
	if !session.ExpiresAt.IsZero() {
		pipe.ExpireAt(ctx, r.key(session.ID), session.ExpiresAt)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisRepo) Get(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, fmt.Errorf("sessionID is required")
	}

	m, err := r.rdb.HGetAll(ctx, r.key(sessionID)).Result()
	if err != nil {
		return Session{}, err
	}
	if len(m) == 0 {
		return Session{}, errors.ErrSessionNotFound
	}

	createdUnix, err := strconv.ParseInt(m["cat"], 10, 64)
	if err != nil {
		return Session{}, errors.Wrapf(err, "[RedisRepo Get] invalid created time")
	}
	expUnix, err := strconv.ParseInt(m["exp"], 10, 64)
	if err != nil {
		return Session{}, errors.Wrapf(err, "[RedisRepo Get] invalid expiry")
	}

	session := Session{
		ID:           sessionID,
		AccessToken:  m["acc"],
		RefreshToken: m["ref"],
		CreatedAt:    parseUnix(createdUnix),
		ExpiresAt:    parseUnix(expUnix),
	}
	if session.Expired(NowTimeFunc()) {
		return Session{}, errors.ErrSessionExpired
	}
	return session, nil
}

func (r *RedisRepo) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}
	return r.rdb.Del(ctx, r.key(sessionID)).Err()
}

func (r *RedisRepo) Close() error { return r.rdb.Close() }

// formatUnix stores the zero time as 0 so it survives the round trip
func formatUnix(t time.Time) string {
	if t.IsZero() {
		return "0"
	}
	return strconv.FormatInt(t.Unix(), 10)
}

func parseUnix(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}
