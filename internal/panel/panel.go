package panel

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"sync"

	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/shared/errors"
)

const seedField = "seed"

// FinishFunc runs once per committed interaction with the full parameter set.
type FinishFunc func(ctx context.Context, p galaxy.Parameters) error

// Panel owns the live parameters. Commits are serialized: a commit holds the
// lock until its callbacks return, so each one sees a complete regeneration.
type Panel struct {
	mu        sync.Mutex
	title     string
	controls  []Control
	byField   map[string]Control
	params    galaxy.Parameters
	callbacks []FinishFunc
	logger    *slog.Logger
}

func New(title string, initial galaxy.Parameters, logger *slog.Logger) *Panel {
	controls := Controls()
	byField := make(map[string]Control, len(controls))
	for _, c := range controls {
		byField[c.Field] = c
	}

	return &Panel{
		title:    title,
		controls: controls,
		byField:  byField,
		params:   initial,
		logger:   logger.With("component", "panel"),
	}
}

func (p *Panel) Title() string {
	return p.title
}

func (p *Panel) Controls() []Control {
	return append([]Control(nil), p.controls...)
}

func (p *Panel) Parameters() galaxy.Parameters {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// OnFinishChange registers fn for every later commit.
func (p *Panel) OnFinishChange(fn FinishFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callbacks = append(p.callbacks, fn)
}

// Commit applies one interaction's changes together. Nothing changes if any
// field is unknown or malformed; the previous parameters are restored if a
// callback fails. An empty change set is a no-op.
func (p *Panel) Commit(ctx context.Context, changes map[string]any) (galaxy.Parameters, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	logger := p.logger.With("operation", "commit", "fields", len(changes))

	if len(changes) == 0 {
		return p.params, nil
	}

	next := p.params
	for _, field := range sortedKeys(changes) {
		if err := p.apply(&next, field, changes[field]); err != nil {
			return p.params, err
		}
	}
	if err := next.Validate(); err != nil {
		return p.params, err
	}

	prev := p.params
	p.params = next
	for _, fn := range p.callbacks {
		if err := fn(ctx, next); err != nil {
			logger.Warn("Change callback failed, rolling back", "error", err)
			p.params = prev
			return prev, err
		}
	}

	logger.Debug("Panel change committed", "count", next.Count, "branches", next.Branches)
	return next, nil
}

func (p *Panel) apply(params *galaxy.Parameters, field string, raw any) error {
	if field == seedField {
		seed, err := toSeed(raw)
		if err != nil {
			return err
		}
		params.Seed = seed
		return nil
	}

	control, ok := p.byField[field]
	if !ok {
		return errors.Validationf("unknown panel field %q", field)
	}

	if control.Kind == KindColor {
		hex, ok := raw.(string)
		if !ok {
			return errors.Validationf("%s must be a hex color string", field)
		}
		c, err := galaxy.ParseColor(hex)
		if err != nil {
			return errors.WrapValidation(field+" is not a valid color", err)
		}
		control.setColor(params, c)
		return nil
	}

	v, err := toFloat(raw)
	if err != nil {
		return errors.WrapValidation(field+" must be a number", err)
	}
	v = control.Range.Apply(v)
	if control.Kind == KindInteger {
		v = math.Round(v)
	}
	control.setNumber(params, v)
	return nil
}

func toFloat(raw any) (float64, error) {
	var v float64
	switch n := raw.(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		v = f
	default:
		return 0, errors.Validationf("unsupported value type %T", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Validation("value must be finite")
	}
	return v, nil
}

// toSeed accepts a non-negative integer, or nil to go back to unseeded output.
func toSeed(raw any) (*uint64, error) {
	var seed uint64
	switch n := raw.(type) {
	case nil:
		return nil, nil
	case json.Number:
		s, err := strconv.ParseUint(n.String(), 10, 64)
		if err != nil {
			return nil, errors.WrapValidation("seed must be a non-negative integer", err)
		}
		seed = s
	case uint64:
		seed = n
	case int:
		if n < 0 {
			return nil, errors.Validation("seed must be a non-negative integer")
		}
		seed = uint64(n)
	case float64:
		if n < 0 || n != math.Trunc(n) || n >= math.MaxUint64 {
			return nil, errors.Validation("seed must be a non-negative integer")
		}
		seed = uint64(n)
	default:
		return nil, errors.Validationf("unsupported seed type %T", raw)
	}
	return &seed, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
