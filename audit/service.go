package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kasuganosora/rotationsolver/game/solver"
	"github.com/kasuganosora/rotationsolver/model"
	"github.com/kasuganosora/rotationsolver/plugin/hook"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	queueSize     = 1024
	batchSize     = 100
	flushInterval = 2 * time.Second
	// HookName identifies the journal on the hook center.
	HookName = "audit.journal"
)

// marshal encodes the targets column; tests swap it.
var marshal = json.Marshal

// Service journals committed decisions asynchronously in batches.
type Service struct {
	db       *gorm.DB
	ch       chan *model.DecisionLog
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	logger   *zap.Logger
	dropped  rate.Sometimes
	badRow   rate.Sometimes
}

// New creates a Service and starts its background worker.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &Service{
		db:      db,
		ch:      make(chan *model.DecisionLog, queueSize),
		stopCh:  make(chan struct{}),
		logger:  logger,
		dropped: rate.Sometimes{First: 1, Interval: 10 * time.Second},
		badRow:  rate.Sometimes{First: 1, Interval: 10 * time.Second},
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Attach subscribes the journal to committed decisions.
func (svc *Service) Attach(c *hook.Center) {
	c.Register(hook.DecisionCommitted, 100, HookName, func(_ context.Context, _ string, data any) (any, error) {
		if r, ok := data.(*solver.Report); ok {
			svc.Record(r)
		}
		return data, nil
	})
}

// Record enqueues a report for the next batch. It never blocks: when the
// queue is full the entry is dropped with a throttled warning.
func (svc *Service) Record(r *solver.Report) {
	if r == nil {
		return
	}
	select {
	case <-svc.stopCh:
		return
	default:
	}
	row, err := toRow(r)
	if err != nil {
		svc.badRow.Do(func() {
			svc.logger.Warn("journal targets not encoded", zap.Uint64("tick", r.Tick), zap.Error(err))
		})
	}
	select {
	case svc.ch <- row:
	default:
		svc.dropped.Do(func() {
			svc.logger.Warn("journal queue full, dropping decision", zap.Uint64("tick", r.Tick))
		})
	}
}

// toRow builds the journal row for r. An encoding error leaves Targets
// empty; the rest of the row is still usable.
func toRow(r *solver.Report) (*model.DecisionLog, error) {
	targets, err := marshal(struct {
		Sets       solver.SetSizes   `json:"sets"`
		Selections solver.Selections `json:"selections"`
	}{r.Sets, r.Selections})
	row := &model.DecisionLog{
		TraceID:   r.TraceID,
		Tick:      r.Tick,
		Rotation:  r.Decision.Rotation,
		Job:       r.Job,
		Layer:     r.Decision.Layer.String(),
		Held:      r.Decision.Held,
		Reason:    r.Decision.Reason,
		Phase:     r.Phase,
		Targets:   datatypes.JSON(targets),
		Error:     r.Error,
		DecidedAt: r.At,
	}
	if u := r.Decision.Use; u != nil {
		row.ActionID = uint32(u.ID)
		row.Action = u.Name
		row.TargetID = uint64(u.Target)
	}
	return row, err
}

// Recent returns the latest journaled decisions, newest first.
func (svc *Service) Recent(ctx context.Context, limit int) ([]model.DecisionLog, error) {
	if limit <= 0 || limit > batchSize {
		limit = batchSize
	}
	var rows []model.DecisionLog
	err := svc.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// Detach removes the journal from c. Reports already queued are still
// written by Stop.
func (svc *Service) Detach(c *hook.Center) {
	c.Unregister(hook.DecisionCommitted, HookName)
}

// Stop flushes remaining entries and shuts down the worker.
// It blocks until the worker goroutine has finished.
func (svc *Service) Stop(_ context.Context) {
	svc.stopOnce.Do(func() { close(svc.stopCh) })
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]*model.DecisionLog, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.CreateInBatches(&batch, batchSize).Error; err != nil {
			svc.logger.Error("journal batch write failed", zap.Int("rows", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-svc.ch:
			batch = append(batch, entry)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			for {
				select {
				case entry := <-svc.ch:
					batch = append(batch, entry)
					if len(batch) >= batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}
