package rules

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/kasuganosora/rotationsolver/game/tick"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Guard is a compiled boolean condition attached to one action.
type Guard struct {
	Action string `json:"action"`
	Source string `json:"source"`

	program *vm.Program
}

// Guards holds the user conditions consulted before a candidate is tried.
// Action names are matched case-insensitively because config keys are
// lower-cased on load.
type Guards struct {
	byAction map[string]*Guard
	logger   *zap.Logger
	warn     rate.Sometimes
}

// Compile compiles every source as a boolean expression over Env. Any
// compile error fails the whole set.
func Compile(sources map[string]string, logger *zap.Logger) (*Guards, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	g := &Guards{
		byAction: make(map[string]*Guard, len(sources)),
		logger:   logger,
		warn:     rate.Sometimes{First: 1, Interval: 10 * time.Second},
	}
	for _, name := range names {
		src := sources[name]
		prog, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile guard %q: %w", name, err)
		}
		key := strings.ToLower(name)
		g.byAction[key] = &Guard{Action: key, Source: src, program: prog}
	}
	return g, nil
}

// Allow reports whether the action may be tried this tick. Actions without
// a guard are always allowed; a guard that fails to evaluate denies.
func (g *Guards) Allow(action string, f *tick.Frame) bool {
	if g == nil || len(g.byAction) == 0 {
		return true
	}
	guard, ok := g.byAction[strings.ToLower(action)]
	if !ok {
		return true
	}
	out, err := vm.Run(guard.program, NewEnv(f))
	if err != nil {
		g.warn.Do(func() {
			g.logger.Warn("guard evaluation failed",
				zap.String("action", guard.Action), zap.Error(err))
		})
		return false
	}
	allowed, ok := out.(bool)
	return ok && allowed
}

// List returns the guards sorted by action name.
func (g *Guards) List() []Guard {
	if g == nil {
		return nil
	}
	out := make([]Guard, 0, len(g.byAction))
	for _, guard := range g.byAction {
		out = append(out, *guard)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Action < out[j].Action })
	return out
}
