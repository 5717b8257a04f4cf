package encounter

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/kasuganosora/rotationsolver/game/world"
	"go.uber.org/zap"
)

// Well-known phase names matched by defensive rotations.
const (
	PhaseEnrage = "Enrage"
)

// Boss is the tracked hostile of the current encounter and its named phase.
type Boss struct {
	ID    world.EntityID `json:"id"`
	Name  string         `json:"name"`
	Phase string         `json:"phase"`
}

// PhaseSource answers which boss is tracked and which phase it is in.
// Implementations must not block.
type PhaseSource interface {
	CurrentBoss() (Boss, bool)
}

// Phase returns the current phase of src, or "".
func Phase(src PhaseSource) string {
	if src == nil {
		return ""
	}
	b, ok := src.CurrentBoss()
	if !ok {
		return ""
	}
	return b.Phase
}

// Static is a fixed PhaseSource.
type Static struct {
	boss Boss
	ok   bool
}

// NewStatic returns a source that always reports b.
func NewStatic(b Boss) *Static { return &Static{boss: b, ok: true} }

// None is a source that never reports a boss.
var None PhaseSource = &Static{}

func (s *Static) CurrentBoss() (Boss, bool) { return s.boss, s.ok }

// HashReader is the subset of the cache the tracker reads from.
type HashReader interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Hash fields of the encounter key.
const (
	FieldID    = "id"
	FieldName  = "name"
	FieldPhase = "phase"
)

// HashWriter is the subset of the cache Seed writes to.
type HashWriter interface {
	Del(ctx context.Context, keys ...string) error
	HSet(ctx context.Context, key, field, value string) error
}

// Seed replaces the encounter hash at key with b, as a timeline plugin
// would. Empty fields are left out.
func Seed(ctx context.Context, store HashWriter, key string, b Boss) error {
	if err := store.Del(ctx, key); err != nil {
		return fmt.Errorf("encounter: clear %s: %w", key, err)
	}
	fields := [][2]string{{FieldName, b.Name}, {FieldPhase, b.Phase}}
	if b.ID != 0 {
		fields = append(fields, [2]string{FieldID, strconv.FormatUint(uint64(b.ID), 10)})
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		if err := store.HSet(ctx, key, f[0], f[1]); err != nil {
			return fmt.Errorf("encounter: seed %s.%s: %w", key, f[0], err)
		}
	}
	return nil
}

// Tracker mirrors the encounter hash published by an external timeline
// plugin. Refresh runs off the tick path; CurrentBoss only loads a pointer.
type Tracker struct {
	store   HashReader
	key     string
	logger  *zap.Logger
	current atomic.Pointer[Boss]
}

// NewTracker creates a Tracker reading key from store.
func NewTracker(store HashReader, key string, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{store: store, key: key, logger: logger}
}

// Refresh reloads the encounter hash. A missing or empty hash clears the
// tracked boss; a read error keeps the previous value.
func (t *Tracker) Refresh(ctx context.Context) error {
	fields, err := t.store.HGetAll(ctx, t.key)
	if err != nil {
		return fmt.Errorf("encounter: read %s: %w", t.key, err)
	}
	if len(fields) == 0 {
		t.current.Store(nil)
		return nil
	}
	b := &Boss{Name: fields[FieldName], Phase: fields[FieldPhase]}
	if raw := fields[FieldID]; raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("encounter: parse id %q: %w", raw, err)
		}
		b.ID = world.EntityID(id)
	}
	prev := t.current.Swap(b)
	if prev == nil || prev.Phase != b.Phase {
		t.logger.Info("encounter phase changed",
			zap.String("boss", b.Name), zap.String("phase", b.Phase))
	}
	return nil
}

// CurrentBoss returns the last refreshed boss.
func (t *Tracker) CurrentBoss() (Boss, bool) {
	b := t.current.Load()
	if b == nil {
		return Boss{}, false
	}
	return *b, true
}
