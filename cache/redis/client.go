package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("cache: key not found")

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

func connect(cfg Config) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func notFound(err error) error {
	if errors.Is(err, goredis.Nil) {
		return ErrNotFound
	}
	return err
}

// RedisCache implements the cache surface on Redis.
type RedisCache struct {
	client *goredis.Client
}

// NewCache connects to Redis and verifies the connection.
func NewCache(cfg Config) (*RedisCache, error) {
	client, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

// Close releases the connection pool.
func (r *RedisCache) Close() error { return r.client.Close() }

// ---- KV ----

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	return v, notFound(err)
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

// ---- Hash ----

func (r *RedisCache) HSet(ctx context.Context, key, field, value string) error {
	return r.client.HSet(ctx, key, field, value).Err()
}

func (r *RedisCache) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return r.client.HGetAll(ctx, key).Result()
}

// ---- List ----

func (r *RedisCache) LPush(ctx context.Context, key string, values ...string) error {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return r.client.LPush(ctx, key, args...).Err()
}

func (r *RedisCache) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.client.LRange(ctx, key, start, stop).Result()
}

func (r *RedisCache) LTrim(ctx context.Context, key string, start, stop int64) error {
	return r.client.LTrim(ctx, key, start, stop).Err()
}

// ---- PubSub ----

// RedisMessage is the message type returned by RedisPubSub.Subscribe.
type RedisMessage struct {
	Channel string
	Payload string
}

// RedisPubSub wraps the Redis pub/sub client.
type RedisPubSub struct {
	client *goredis.Client
}

// NewPubSub connects to Redis for pub/sub.
func NewPubSub(cfg Config) (*RedisPubSub, error) {
	client, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &RedisPubSub{client: client}, nil
}

func (r *RedisPubSub) Publish(ctx context.Context, channel, message string) error {
	return r.client.Publish(ctx, channel, message).Err()
}

// Subscribe waits for the subscription to be confirmed before returning.
func (r *RedisPubSub) Subscribe(ctx context.Context, channels ...string) (<-chan *RedisMessage, func(), error) {
	ps := r.client.Subscribe(ctx, channels...)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}
	ch := make(chan *RedisMessage, 256)
	go func() {
		defer close(ch)
		for msg := range ps.Channel() {
			ch <- &RedisMessage{Channel: msg.Channel, Payload: msg.Payload}
		}
	}()
	return ch, func() { _ = ps.Close() }, nil
}

// Close releases the connection pool.
func (r *RedisPubSub) Close() error { return r.client.Close() }
