// Package actor models the two kinds of combatants, player characters and
// mobiles, and the resource pools they hold. Derived values come from
// game/stats; ability scores are piped through the actor's effect chain.
package actor

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rsandor/Solace-sub001/game/effect"
	"github.com/rsandor/Solace-sub001/game/stats"
)

// Resource is one of the three consumable pools.
type Resource int

const (
	HP Resource = iota
	MP
	SP

	numResources
)

// Resources lists the pools in canonical order.
var Resources = [...]Resource{HP, MP, SP}

func (r Resource) String() string {
	switch r {
	case HP:
		return "hp"
	case MP:
		return "mp"
	case SP:
		return "sp"
	}
	return fmt.Sprintf("resource(%d)", int(r))
}

// Valid reports whether r is a known pool.
func (r Resource) Valid() bool { return r >= HP && r < numResources }

// ParseResource resolves "hp", "mp" or "sp".
func ParseResource(name string) (Resource, error) {
	for _, r := range Resources {
		if r.String() == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown resource %q", stats.ErrInvalidArgument, name)
}

// CostChannel is the effect channel that adjusts costs paid from r.
func (r Resource) CostChannel() effect.Channel {
	return [...]effect.Channel{effect.HpCost, effect.MpCost, effect.SpCost}[r]
}

// RecoveryChannel is the effect channel that adjusts amounts recovered into r.
func (r Resource) RecoveryChannel() effect.Channel {
	return [...]effect.Channel{effect.HpRecovery, effect.MpRecovery, effect.SpRecovery}[r]
}

// Actor is anything that fights and spends resources.
type Actor interface {
	effect.Subject

	Power() int
	Ability(a stats.Attribute) int
	MaxResource(r Resource) int
	AC() int
	HitMod() int
	DamageMod() int
	AttackRoll() int
	AverageDamage() int
	NumberOfAttacks() int

	PlayState() PlayState
	SetPlayState(s PlayState)
	Effects() *effect.Chain

	// Exclusive runs fn with sole access to the actor's pools. fn must not
	// call Exclusive on the same actor.
	Exclusive(fn func(p *Pools))
	// Current returns a pool's value without holding it; use Exclusive to
	// read and write consistently.
	Current(r Resource) int

	// Inputs returns the stat calculator inputs describing this actor.
	Inputs() stats.Inputs
}

// Pools is the view of an actor's resources handed to Exclusive.
type Pools struct {
	owner Actor
	cur   *[numResources]int
}

// Current returns the current value of r.
func (p *Pools) Current(r Resource) int { return p.cur[r] }

// Max returns the effect-adjusted maximum of r.
func (p *Pools) Max(r Resource) int { return p.owner.MaxResource(r) }

// Set stores v into r, clamped to [0, Max(r)].
func (p *Pools) Set(r Resource, v int) {
	if most := p.Max(r); v > most {
		v = most
	}
	if v < 0 {
		v = 0
	}
	p.cur[r] = v
}

// Add changes r by delta, clamped like Set, and returns the new value.
func (p *Pools) Add(r Resource, delta int) int {
	p.Set(r, p.cur[r]+delta)
	return p.cur[r]
}

// Spend subtracts n from r without applying the upper clamp, so a pool
// above its current maximum drops by exactly n. It never goes below zero.
func (p *Pools) Spend(r Resource, n int) {
	v := p.cur[r] - n
	if v < 0 {
		v = 0
	}
	p.cur[r] = v
}

// Fill sets every pool to its maximum.
func (p *Pools) Fill() {
	for _, r := range Resources {
		p.cur[r] = p.Max(r)
	}
}

// base is shared by Character and Mobile. Identity, level, state and the
// effect chain can be read without the pool lock.
type base struct {
	id    uuid.UUID
	name  string
	level atomic.Int32
	state atomic.Int32
	chain *effect.Chain

	mu    sync.Mutex
	pools [numResources]int

	self Actor
}

func (b *base) init(self Actor, name string, level int) {
	b.id = uuid.New()
	b.name = name
	b.level.Store(int32(level))
	b.state.Store(int32(Standing))
	b.chain = effect.NewChain()
	b.self = self
}

func (b *base) ID() uuid.UUID          { return b.id }
func (b *base) Name() string           { return b.name }
func (b *base) Level() int             { return int(b.level.Load()) }
func (b *base) Effects() *effect.Chain { return b.chain }

func (b *base) PlayState() PlayState { return PlayState(b.state.Load()) }

func (b *base) SetPlayState(s PlayState) { b.state.Store(int32(s)) }

func (b *base) Exclusive(fn func(p *Pools)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&Pools{owner: b.self, cur: &b.pools})
}

func (b *base) Current(r Resource) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pools[r]
}

// ability pipes a base ability score through the matching effect channel.
// The result is rounded to the nearest integer and never drops below 1.
func (b *base) ability(a stats.Attribute, score int) int {
	v := b.chain.Evaluate(effect.AbilityChannel(a), b.self, float64(score))
	n := int(math.Round(v))
	if n < 1 {
		n = 1
	}
	return n
}

func (b *base) MaxResource(r Resource) int {
	switch r {
	case HP:
		return derived(b.self, stats.StatMaxHP)
	case MP:
		return derived(b.self, stats.StatMaxMP)
	case SP:
		return derived(b.self, stats.StatMaxSP)
	}
	return 0
}

func (b *base) AC() int              { return derived(b.self, stats.StatAC) }
func (b *base) HitMod() int          { return derived(b.self, stats.StatHitMod) }
func (b *base) DamageMod() int       { return derived(b.self, stats.StatDamageMod) }
func (b *base) AttackRoll() int      { return derived(b.self, stats.StatAttackRoll) }
func (b *base) AverageDamage() int   { return derived(b.self, stats.StatAverageDamage) }
func (b *base) NumberOfAttacks() int { return derived(b.self, stats.StatNumberOfAttacks) }

func (b *base) inputs(level, power int, mobile bool) stats.Inputs {
	in := stats.Inputs{Level: level, Power: power, Mobile: mobile}
	in.Strength = b.self.Ability(stats.Strength)
	in.Vitality = b.self.Ability(stats.Vitality)
	in.Magic = b.self.Ability(stats.Magic)
	in.Speed = b.self.Ability(stats.Speed)
	return in
}

// Derive computes a named stat for a.
func Derive(a Actor, name stats.Stat) (float64, error) {
	return stats.Derive(name, a.Inputs())
}

// SavingThrow returns a's saving throw of the given name.
func SavingThrow(a Actor, name string) (int, error) {
	st, err := stats.LookupSavingThrow(name)
	if err != nil {
		return 0, err
	}
	in := a.Inputs()
	return stats.Save(in.Level, in.Score(st.A), in.Score(st.B))
}

// MagicRoll returns the roll a makes against the named saving throw.
func MagicRoll(a Actor, name string) (int, error) {
	save, err := SavingThrow(a, name)
	if err != nil {
		return 0, err
	}
	return stats.MagicRoll(save), nil
}

// derived drops the error of Derive. Actors are validated at construction
// and their ability scores never fall below 1, so every stat an actor
// exposes is in range.
func derived(a Actor, name stats.Stat) int {
	v, _ := Derive(a, name)
	return int(v)
}
