package cache

import (
	"context"
	"errors"
	"time"

	"github.com/kasuganosora/rotationsolver/cache/local"
	cacheredis "github.com/kasuganosora/rotationsolver/cache/redis"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("cache: key not found")

// Cache is the key/value, hash and list surface the solver shares with
// external tooling. The encounter tracker reads boss state from a hash that
// run may seed; the relay keeps the latest report under a key and a
// bounded list of recent reports.
type Cache interface {
	// KV
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error

	// Hash
	HSet(ctx context.Context, key, field, value string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// List
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LTrim(ctx context.Context, key string, start, stop int64) error

	Close() error
}

// Message is a received pub/sub message.
type Message struct {
	Channel string
	Payload string
}

// PubSub defines channel publish/subscribe operations.
type PubSub interface {
	Publish(ctx context.Context, channel, message string) error
	Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error)
}

// Config holds configuration for both Redis and the in-process cache.
type Config struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
	LocalPubSubBuf  int           `mapstructure:"local_pubsub_buf"`
	// DecisionChannel is where the relay publishes each tick report.
	DecisionChannel string `mapstructure:"decision_channel"`
	// EncounterKey is the hash the encounter tracker polls.
	EncounterKey string `mapstructure:"encounter_key"`
}

// IsNotFound reports whether err is a missing key from any backend.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, local.ErrNotFound) || errors.Is(err, cacheredis.ErrNotFound)
}

// NewCache returns a Cache backed by Redis if RedisAddr is set,
// otherwise an in-process LocalCache.
func NewCache(cfg Config) (Cache, error) {
	if cfg.RedisAddr != "" {
		return cacheredis.NewCache(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return local.NewCache(local.Config{GCInterval: cfg.LocalGCInterval})
}

// NewPubSub returns a PubSub backed by Redis if RedisAddr is set,
// otherwise an in-process LocalPubSub.
func NewPubSub(cfg Config) (PubSub, error) {
	if cfg.RedisAddr != "" {
		rps, err := cacheredis.NewPubSub(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return &redisPubSub{ps: rps}, nil
	}
	return &localPubSub{ps: local.NewPubSub(cfg.LocalPubSubBuf)}, nil
}

type localPubSub struct {
	ps *local.LocalPubSub
}

func (a *localPubSub) Publish(ctx context.Context, channel, message string) error {
	return a.ps.Publish(ctx, channel, message)
}

func (a *localPubSub) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	in, cancel, err := a.ps.Subscribe(ctx, channels...)
	if err != nil {
		return nil, nil, err
	}
	return bridge(in, func(m *local.LocalMessage) *Message {
		return &Message{Channel: m.Channel, Payload: m.Payload}
	}), cancel, nil
}

type redisPubSub struct {
	ps *cacheredis.RedisPubSub
}

func (a *redisPubSub) Publish(ctx context.Context, channel, message string) error {
	return a.ps.Publish(ctx, channel, message)
}

// Close releases the subscriber connection.
func (a *redisPubSub) Close() error { return a.ps.Close() }

func (a *redisPubSub) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	in, cancel, err := a.ps.Subscribe(ctx, channels...)
	if err != nil {
		return nil, nil, err
	}
	return bridge(in, func(m *cacheredis.RedisMessage) *Message {
		return &Message{Channel: m.Channel, Payload: m.Payload}
	}), cancel, nil
}

// bridge converts a backend message stream; the output closes with the
// input.
func bridge[T any](in <-chan T, conv func(T) *Message) <-chan *Message {
	out := make(chan *Message, cap(in))
	go func() {
		defer close(out)
		for m := range in {
			out <- conv(m)
		}
	}()
	return out
}
