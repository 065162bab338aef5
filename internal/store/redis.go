package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hariprasanth02/2203031240132/internal/shortener"
	"github.com/redis/go-redis/v9"
)

// insertScript claims a code only if its key is absent and appends it to
// the insertion index, so two concurrent claims cannot both succeed.
var insertScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1],
	"code", ARGV[1],
	"destination", ARGV[2],
	"created_at", ARGV[3],
	"expires_at", ARGV[4],
	"hits", 0)
local seq = redis.call("INCR", KEYS[3])
redis.call("ZADD", KEYS[2], seq, ARGV[1])
return 1
`)

// incrementScript bumps hits only on an existing record.
var incrementScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
return redis.call("HINCRBY", KEYS[1], "hits", 1)
`)

// RedisStore is a Redis implementation of shortener.Registry.
// Each record is a hash under prefix+code; a sorted set keeps insertion order.
type RedisStore struct {
	client   *redis.Client
	prefix   string // "link:" for code -> record hash
	orderKey string // "links" sorted set of codes by insertion sequence
	seqKey   string // "links:seq" insertion counter
}

// NewRedisStore creates a new Redis-backed registry.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:   client,
		prefix:   "link:",
		orderKey: "links",
		seqKey:   "links:seq",
	}
}

func (r *RedisStore) key(code shortener.Code) string {
	return r.prefix + string(code)
}

func (r *RedisStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(code)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}

	return n == 1, nil
}

func (r *RedisStore) Insert(ctx context.Context, shortURL *shortener.ShortURL) error {
	ok, err := insertScript.Run(ctx, r.client,
		[]string{r.key(shortURL.Code), r.orderKey, r.seqKey},
		string(shortURL.Code),
		shortURL.Destination,
		shortURL.CreatedAt.UTC().Format(time.RFC3339Nano),
		shortURL.ExpiresAt.UTC().Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return fmt.Errorf("redis insert: %w", err)
	}

	if ok == 0 {
		return shortener.ErrDuplicateCode
	}

	return nil
}

func (r *RedisStore) Get(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	result, err := r.client.HGetAll(ctx, r.key(code)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	return decodeRecord(result)
}

func (r *RedisStore) IncrementHits(ctx context.Context, code shortener.Code) (int64, error) {
	hits, err := incrementScript.Run(ctx, r.client, []string{r.key(code)}).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis increment: %w", err)
	}

	if hits < 0 {
		return 0, shortener.ErrNotFound
	}

	return hits, nil
}

func (r *RedisStore) List(ctx context.Context) ([]shortener.ShortURL, error) {
	codes, err := r.client.ZRange(ctx, r.orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}

	if len(codes) == 0 {
		return []shortener.ShortURL{}, nil
	}

	pipe := r.client.Pipeline()

	cmds := make([]*redis.MapStringStringCmd, len(codes))
	for i, code := range codes {
		cmds[i] = pipe.HGetAll(ctx, r.key(shortener.Code(code)))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis list: %w", err)
	}

	links := make([]shortener.ShortURL, 0, len(codes))

	for _, cmd := range cmds {
		result := cmd.Val()
		if len(result) == 0 {
			continue
		}

		shortURL, err := decodeRecord(result)
		if err != nil {
			return nil, err
		}

		links = append(links, *shortURL)
	}

	return links, nil
}

// Times are stored as RFC 3339 text: unix nanoseconds overflow past 2262,
// well inside the range of accepted durations.
func decodeRecord(result map[string]string) (*shortener.ShortURL, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, result["created_at"])
	if err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, result["expires_at"])
	if err != nil {
		return nil, fmt.Errorf("decode expires_at: %w", err)
	}

	hits, err := strconv.ParseInt(result["hits"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}

	return &shortener.ShortURL{
		Code:        shortener.Code(result["code"]),
		Destination: result["destination"],
		CreatedAt:   createdAt,
		ExpiresAt:   expiresAt,
		Hits:        hits,
	}, nil
}

// Compile-time check.
var _ shortener.Registry = (*RedisStore)(nil)
