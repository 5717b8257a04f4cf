// Package relay forwards committed decisions to the execution layer over
// pub/sub and keeps the latest ones in the cache for late joiners.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kasuganosora/rotationsolver/cache"
	"github.com/kasuganosora/rotationsolver/game/solver"
	"github.com/kasuganosora/rotationsolver/plugin/hook"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// HookName identifies the relay on the hook center.
	HookName = "relay.publish"
	// DefaultRecent is how many encoded reports the recent list keeps.
	DefaultRecent = 50
	queueSize     = 256
)

// ErrNoStore is returned by Stored when the relay keeps no latest report.
var ErrNoStore = errors.New("relay: no latest key")

// Config names the keys the relay writes.
type Config struct {
	Channel string
	// LatestKey holds the last report; RecentKey is a list of the last
	// Recent reports, newest first. Empty keys are skipped.
	LatestKey string
	RecentKey string
	Recent    int
	TTL       time.Duration
}

// Relay publishes reports from its own goroutine so the tick never waits
// on the network.
type Relay struct {
	cfg    Config
	ps     cache.PubSub
	store  cache.Cache
	logger *zap.Logger
	warn   rate.Sometimes

	queue    chan []byte
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New starts a Relay. store may be nil.
func New(cfg Config, ps cache.PubSub, store cache.Cache, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Recent <= 0 {
		cfg.Recent = DefaultRecent
	}
	r := &Relay{
		cfg:    cfg,
		ps:     ps,
		store:  store,
		logger: logger,
		warn:   rate.Sometimes{First: 1, Interval: 10 * time.Second},
		queue:  make(chan []byte, queueSize),
		stopCh: make(chan struct{}),
	}
	r.wg.Add(1)
	go r.loop()
	return r
}

// Attach subscribes the relay to committed decisions.
func (r *Relay) Attach(c *hook.Center) {
	c.Register(hook.DecisionCommitted, 200, HookName, func(_ context.Context, _ string, data any) (any, error) {
		if rep, ok := data.(*solver.Report); ok {
			r.Send(rep)
		}
		return data, nil
	})
}

// Detach removes the relay from c. Queued reports are still published by
// Stop.
func (r *Relay) Detach(c *hook.Center) {
	c.Unregister(hook.DecisionCommitted, HookName)
}

// Send encodes rep and queues it. A full queue drops the report.
func (r *Relay) Send(rep *solver.Report) {
	if rep == nil {
		return
	}
	payload, err := json.Marshal(rep)
	if err != nil {
		r.warn.Do(func() { r.logger.Warn("relay encode failed", zap.Error(err)) })
		return
	}
	select {
	case <-r.stopCh:
		return
	default:
	}
	select {
	case r.queue <- payload:
	default:
		r.warn.Do(func() { r.logger.Warn("relay queue full, dropping report", zap.Uint64("tick", rep.Tick)) })
	}
}

func (r *Relay) loop() {
	defer r.wg.Done()
	for {
		select {
		case p := <-r.queue:
			r.publish(p)
		case <-r.stopCh:
			for {
				select {
				case p := <-r.queue:
					r.publish(p)
				default:
					return
				}
			}
		}
	}
}

func (r *Relay) publish(payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg := string(payload)

	if err := r.ps.Publish(ctx, r.cfg.Channel, msg); err != nil {
		r.warn.Do(func() { r.logger.Warn("relay publish failed", zap.String("channel", r.cfg.Channel), zap.Error(err)) })
	}
	if r.store == nil {
		return
	}
	if r.cfg.LatestKey != "" {
		if err := r.store.Set(ctx, r.cfg.LatestKey, msg, r.cfg.TTL); err != nil {
			r.warn.Do(func() { r.logger.Warn("relay store latest failed", zap.Error(err)) })
		}
	}
	if r.cfg.RecentKey != "" {
		err := r.store.LPush(ctx, r.cfg.RecentKey, msg)
		if err == nil {
			err = r.store.LTrim(ctx, r.cfg.RecentKey, 0, int64(r.cfg.Recent-1))
		}
		if err != nil {
			r.warn.Do(func() { r.logger.Warn("relay store recent failed", zap.Error(err)) })
		}
	}
}

// Stop publishes what is queued and waits for the worker.
func (r *Relay) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

// Stored reads back the latest report written to the cache. Before the
// first write the error satisfies cache.IsNotFound.
func (r *Relay) Stored(ctx context.Context) (*solver.Report, error) {
	if r.store == nil || r.cfg.LatestKey == "" {
		return nil, ErrNoStore
	}
	raw, err := r.store.Get(ctx, r.cfg.LatestKey)
	if err != nil {
		return nil, err
	}
	rep := &solver.Report{}
	if err := json.Unmarshal([]byte(raw), rep); err != nil {
		return nil, fmt.Errorf("relay: decode %s: %w", r.cfg.LatestKey, err)
	}
	return rep, nil
}

// Recent decodes the stored recent reports, newest first. A non-positive
// limit returns all of them.
func Recent(ctx context.Context, store cache.Cache, key string, limit int) ([]*solver.Report, error) {
	raw, err := store.LRange(ctx, key, 0, int64(limit-1))
	if err != nil {
		return nil, err
	}
	out := make([]*solver.Report, 0, len(raw))
	for _, s := range raw {
		rep := &solver.Report{}
		if err := json.Unmarshal([]byte(s), rep); err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, nil
}
