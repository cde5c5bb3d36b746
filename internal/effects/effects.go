// Package effects implements the status effect engine: application and
// stacking of timed modifiers, aggregation into a summary consumed by
// attack resolution, periodic damage/heal ticks and natural wound healing.
package effects

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
)

var (
	ErrUnknownEffect = errors.New("unknown effect definition")
)

// WoundAttackPenalty is the flat attack-value penalty each active wound
// stack contributes.
const WoundAttackPenalty = -2

// WoundHealInterval is how long one wound takes to heal naturally.
const WoundHealInterval = 4 * time.Hour

// Registry is the immutable definition lookup built once at startup from
// seeded content.
type Registry struct {
	defs map[string]game.StatusEffectDefinition
}

// NewRegistry indexes definitions by lowercase key.
func NewRegistry(defs []game.StatusEffectDefinition) *Registry {
	m := make(map[string]game.StatusEffectDefinition, len(defs))
	for _, d := range defs {
		m[strings.ToLower(d.Key)] = d
	}
	return &Registry{defs: m}
}

// Get returns the definition for a key.
func (r *Registry) Get(key string) (game.StatusEffectDefinition, bool) {
	d, ok := r.defs[strings.ToLower(key)]
	return d, ok
}

// Keys returns all registered definition keys.
func (r *Registry) Keys() []string {
	out := make([]string, 0, len(r.defs))
	for k := range r.defs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// InstanceStore is the persistence boundary for live effect instances.
type InstanceStore interface {
	ActiveEffectInstances(combatantKey string) ([]game.StatusEffectInstance, error)
	SaveEffectInstance(inst *game.StatusEffectInstance) error
}

// Engine applies, aggregates and ticks status effects.
type Engine struct {
	registry *Registry
	store    InstanceStore
	now      func() time.Time
}

// NewEngine builds an effect engine over the given registry and store.
func NewEngine(registry *Registry, store InstanceStore) *Engine {
	return &Engine{registry: registry, store: store, now: time.Now}
}

// WithClock overrides the engine clock (tests).
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// ApplyOptions tunes one application of an effect.
type ApplyOptions struct {
	// Duration overrides the definition default when non-nil. An explicit
	// zero duration means instant expiry.
	Duration *time.Duration
	// Intensity overrides the definition default when > 0.
	Intensity int
	// Location tags wound instances with the struck body location.
	Location game.BodyLocation
}

// Apply applies a definition to a combatant following the stack policy:
// stack below max, refresh at max, refresh in place when not stackable,
// otherwise create a fresh instance.
func (e *Engine) Apply(combatantKey, effectKey string, opts ApplyOptions) (*game.StatusEffectInstance, error) {
	def, ok := e.registry.Get(effectKey)
	if !ok {
		return nil, ErrUnknownEffect
	}
	now := e.now()

	intensity := def.DefaultIntensity
	if opts.Intensity > 0 {
		intensity = opts.Intensity
	}
	if intensity <= 0 {
		intensity = 1
	}

	expiry := e.expiryFor(&def, opts.Duration, now)

	existing, err := e.activeInstancesOf(combatantKey, def.Key, now)
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		// Oldest application first so refresh-at-max targets it.
		sort.Slice(existing, func(i, j int) bool {
			return existing[i].AppliedAt.Before(existing[j].AppliedAt)
		})
		inst := existing[0]

		switch {
		case def.Stackable && inst.Stacks < def.MaxStacks:
			inst.Stacks++
			inst.AppliedAt = now
			if expiry != nil {
				inst.ExpiresAt = expiry
			}
		case def.Stackable:
			// At max stacks: refresh only, never a second instance.
			inst.Intensity = intensity
			if expiry != nil {
				inst.ExpiresAt = expiry
			}
		default:
			inst.AppliedAt = now
			inst.Intensity = intensity
			inst.ExpiresAt = expiry
		}
		if err := e.store.SaveEffectInstance(&inst); err != nil {
			return nil, err
		}
		return &inst, nil
	}

	inst := game.StatusEffectInstance{
		CombatantKey: combatantKey,
		EffectKey:    strings.ToLower(def.Key),
		Stacks:       1,
		Intensity:    intensity,
		AppliedAt:    now,
		ExpiresAt:    expiry,
		Location:     opts.Location,
		Active:       true,
	}
	if err := e.store.SaveEffectInstance(&inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

// expiryFor resolves the expiry timestamp: explicit zero means instant
// expiry, nil falls back to the definition default, and a zero default
// means permanent (no expiry).
func (e *Engine) expiryFor(def *game.StatusEffectDefinition, override *time.Duration, now time.Time) *time.Time {
	if override != nil {
		t := now.Add(*override)
		return &t
	}
	if def.Permanent() {
		return nil
	}
	t := now.Add(time.Duration(def.DefaultDurationSeconds) * time.Second)
	return &t
}

func (e *Engine) activeInstancesOf(combatantKey, effectKey string, now time.Time) ([]game.StatusEffectInstance, error) {
	all, err := e.store.ActiveEffectInstances(combatantKey)
	if err != nil {
		return nil, err
	}
	low := strings.ToLower(effectKey)
	out := make([]game.StatusEffectInstance, 0, len(all))
	for _, inst := range all {
		if inst.EffectKey == low && inst.Active && !inst.Expired(now) {
			out = append(out, inst)
		}
	}
	return out, nil
}

// Remove deactivates every instance of an effect on a combatant.
func (e *Engine) Remove(combatantKey, effectKey string) error {
	insts, err := e.activeInstancesOf(combatantKey, effectKey, e.now())
	if err != nil {
		return err
	}
	for i := range insts {
		insts[i].Active = false
		if err := e.store.SaveEffectInstance(&insts[i]); err != nil {
			return err
		}
	}
	return nil
}
