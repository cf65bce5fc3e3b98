package script

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/rsandor/Solace-sub001/game/effect"
	"github.com/rsandor/Solace-sub001/game/passive"
)

// Loader evaluates passive scripts and registers the passives they declare.
//
// A script declares a passive with
//
//	Passives.add('meditation', function (passive, effect) {
//	  passive.setLabel('Meditation');
//	  effect.modMpRecovery(function (player, value) { return value * 1.25; });
//	});
//
// The init function runs once, at load time. The registered modifiers run
// whenever the effect is evaluated; one that throws, times out or returns a
// non-number leaves the value unchanged.
type Loader struct {
	sb       *sandbox
	passives *passive.Registry
	logger   *zap.Logger
}

// NewLoader creates a Loader registering into passives.
func NewLoader(passives *passive.Registry, timeout time.Duration, logger *zap.Logger) *Loader {
	l := &Loader{
		sb:       newSandbox(timeout, logger),
		passives: passives,
		logger:   logger,
	}
	api := l.sb.vm.NewObject()
	_ = api.Set("add", l.add)
	l.sb.vm.Set("Passives", api)
	return l
}

// Run evaluates one script. name is used in error messages and stack traces.
func (l *Loader) Run(ctx context.Context, name, src string) error {
	if err := l.sb.run(ctx, name, src); err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

// LoadDir evaluates every .js file under dir in lexical order and returns how
// many passives were registered. It stops at the first failing script.
func (l *Loader) LoadDir(ctx context.Context, dir string) (int, error) {
	before := l.passives.Len()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".js" {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		l.logger.Debug("loading script", zap.String("path", path))
		return l.Run(ctx, path, string(src))
	})
	added := l.passives.Len() - before
	if err != nil {
		return added, err
	}
	l.logger.Info("scripts loaded", zap.String("dir", dir), zap.Int("passives", added))
	return added, nil
}

// add implements Passives.add(name, init). It runs inside the runtime with
// the sandbox lock held.
func (l *Loader) add(call goja.FunctionCall) goja.Value {
	vm := l.sb.vm
	arg := call.Argument(0)
	name := arg.String()
	init, ok := goja.AssertFunction(call.Argument(1))
	if goja.IsUndefined(arg) || goja.IsNull(arg) || name == "" || !ok {
		panic(vm.NewTypeError("Passives.add(name, function (passive, effect) {...})"))
	}

	e := effect.New(name)
	p := vm.NewObject()
	_ = p.Set("getName", func() string { return name })
	_ = p.Set("setLabel", func(label string) { e.SetLabel(label) })

	eo := vm.NewObject()
	for _, ch := range effect.Channels {
		ch := ch
		_ = eo.Set("mod"+methodSuffix(ch), func(fc goja.FunctionCall) goja.Value {
			fn, ok := goja.AssertFunction(fc.Argument(0))
			if !ok {
				panic(vm.NewTypeError("effect.mod%s expects a function", methodSuffix(ch)))
			}
			_ = e.Mod(ch, l.modifier(name, ch, fn))
			return goja.Undefined()
		})
	}

	if _, err := init(goja.Undefined(), p, eo); err != nil {
		if ex, ok := err.(*goja.Exception); ok {
			panic(ex)
		}
		panic(vm.NewGoError(err))
	}
	l.passives.Add(e)
	return goja.Undefined()
}

// modifier adapts a script function to an effect.Modifier.
func (l *Loader) modifier(passiveName string, ch effect.Channel, fn goja.Callable) effect.Modifier {
	return func(s effect.Subject, value float64) float64 {
		out, err := l.sb.call(fn, func(vm *goja.Runtime) []goja.Value {
			return []goja.Value{subjectValue(vm, s), vm.ToValue(value)}
		})
		if err != nil {
			l.logger.Warn("passive modifier failed",
				zap.String("passive", passiveName),
				zap.Stringer("channel", ch),
				zap.Error(err))
			return value
		}
		if out == nil {
			return value
		}
		v := out.ToFloat()
		if math.IsNaN(v) || math.IsInf(v, 0) {
			l.logger.Warn("passive modifier returned a non-number",
				zap.String("passive", passiveName),
				zap.Stringer("channel", ch),
				zap.String("result", out.String()))
			return value
		}
		return v
	}
}

// subjectValue exposes the read-only view of an actor scripts receive.
func subjectValue(vm *goja.Runtime, s effect.Subject) goja.Value {
	if s == nil {
		return goja.Null()
	}
	o := vm.NewObject()
	name, level, mobile := s.Name(), s.Level(), s.IsMobile()
	_ = o.Set("getName", func() string { return name })
	_ = o.Set("getLevel", func() int { return level })
	_ = o.Set("isMobile", func() bool { return mobile })
	return o
}

// methodSuffix turns "mp_recovery" into "MpRecovery".
func methodSuffix(ch effect.Channel) string {
	var b strings.Builder
	for _, part := range strings.Split(ch.String(), "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
