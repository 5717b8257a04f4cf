package scheduler

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// TaskFn is a scheduled task. now is the time the ticker fired.
type TaskFn func(now time.Time)

// TickerInfo describes a registered ticker.
type TickerInfo struct {
	Name     string        `json:"name"`
	Interval time.Duration `json:"interval"`
	Runs     uint64        `json:"runs"`
	Panics   uint64        `json:"panics"`
	LastRun  time.Time     `json:"last_run"`
}

// Scheduler runs named periodic and delayed tasks. Each ticker has its own
// goroutine, so a task never overlaps with itself.
type Scheduler struct {
	mu      sync.Mutex
	tickers map[string]*tickerEntry
	timers  map[string]*time.Timer
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped bool
	wg      sync.WaitGroup
}

type tickerEntry struct {
	interval time.Duration
	stopCh   chan struct{}
	runs     atomic.Uint64
	panics   atomic.Uint64
	lastRun  atomic.Int64
}

// New creates a new Scheduler.
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		tickers: make(map[string]*tickerEntry),
		timers:  make(map[string]*time.Timer),
		stopCh:  make(chan struct{}),
		logger:  logger,
	}
}

// AddTicker registers a task to run on a fixed interval.
// If a task with the same name exists, it is replaced. A non-positive
// interval is logged and ignored.
func (s *Scheduler) AddTicker(name string, interval time.Duration, fn TaskFn) {
	if interval <= 0 {
		s.logger.Warn("non-positive interval, ticker ignored",
			zap.String("name", name), zap.Duration("interval", interval))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		s.logger.Warn("scheduler stopped, ticker ignored", zap.String("name", name))
		return
	}

	if old, ok := s.tickers[name]; ok {
		close(old.stopCh)
		delete(s.tickers, name)
	}

	entry := &tickerEntry{interval: interval, stopCh: make(chan struct{})}
	s.tickers[name] = entry

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				s.run(name, entry, fn, now)
			case <-entry.stopCh:
				return
			case <-s.stopCh:
				return
			}
		}
	}()
	s.logger.Info("scheduler task registered", zap.String("name", name), zap.Duration("interval", interval))
}

func (s *Scheduler) run(name string, entry *tickerEntry, fn TaskFn, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			entry.panics.Add(1)
			s.logger.Error("scheduler task panicked",
				zap.String("task", name),
				zap.Any("recover", r))
		}
	}()
	entry.runs.Add(1)
	entry.lastRun.Store(now.UnixNano())
	fn(now)
}

// AddDelay runs fn once after the given delay.
func (s *Scheduler) AddDelay(name string, delay time.Duration, fn TaskFn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if old, ok := s.timers[name]; ok {
		old.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("delay task panicked",
					zap.String("task", name), zap.Any("recover", r))
			}
			s.mu.Lock()
			if s.timers[name] == timer {
				delete(s.timers, name)
			}
			s.mu.Unlock()
		}()
		fn(time.Now())
	})
	s.timers[name] = timer
}

// Stop stops all tasks and waits for running tickers to return. It is safe
// to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.stopCh)
		for name, t := range s.timers {
			t.Stop()
			delete(s.timers, name)
		}
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// ListTickers returns the registered tickers sorted by name.
func (s *Scheduler) ListTickers() []TickerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TickerInfo, 0, len(s.tickers))
	for name, e := range s.tickers {
		info := TickerInfo{
			Name:     name,
			Interval: e.interval,
			Runs:     e.runs.Load(),
			Panics:   e.panics.Load(),
		}
		if ns := e.lastRun.Load(); ns != 0 {
			info.LastRun = time.Unix(0, ns)
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
