// Package effect implements the per-actor modifier pipeline. An Effect is a
// named record of up to ten value transforms, one per Channel; a Chain holds
// the effects attached to one actor and pipes a base value through every
// active effect in attachment order.
package effect

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rsandor/Solace-sub001/game/stats"
)

// Subject is the read-only view of an actor handed to modifiers. Its methods
// must not take the actor's pool lock: modifiers run while the caller may
// hold it.
type Subject interface {
	ID() uuid.UUID
	Name() string
	Level() int
	IsMobile() bool
}

// Modifier transforms a value for the given subject.
type Modifier func(s Subject, value float64) float64

// Identity returns the value unchanged.
func Identity(_ Subject, value float64) float64 { return value }

// Channel selects which value a modifier transforms.
type Channel int

const (
	HpRecovery Channel = iota
	MpRecovery
	SpRecovery
	HpCost
	MpCost
	SpCost
	Strength
	Magic
	Vitality
	Speed

	numChannels
)

var channelNames = [numChannels]string{
	"hp_recovery", "mp_recovery", "sp_recovery",
	"hp_cost", "mp_cost", "sp_cost",
	"strength", "magic", "vitality", "speed",
}

// Channels lists every channel.
var Channels = [...]Channel{
	HpRecovery, MpRecovery, SpRecovery,
	HpCost, MpCost, SpCost,
	Strength, Magic, Vitality, Speed,
}

func (c Channel) String() string {
	if c.Valid() {
		return channelNames[c]
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool { return c >= 0 && c < numChannels }

// ParseChannel resolves a channel by its snake_case name.
func ParseChannel(name string) (Channel, error) {
	for i, n := range channelNames {
		if n == name {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown channel %q", stats.ErrInvalidArgument, name)
}

// AbilityChannel maps an ability score to the channel modifying it.
func AbilityChannel(a stats.Attribute) Channel {
	switch a {
	case stats.Strength:
		return Strength
	case stats.Magic:
		return Magic
	case stats.Vitality:
		return Vitality
	default:
		return Speed
	}
}

// Effect is a named set of channel modifiers. Registering a modifier replaces
// any previous one for the channel; a nil modifier restores identity.
type Effect struct {
	name  string
	label string

	mu   sync.RWMutex
	mods [numChannels]Modifier
}

// New creates an effect with no modifiers registered.
func New(name string) *Effect {
	return &Effect{name: name, label: name}
}

// Name returns the unique name the effect is attached under.
func (e *Effect) Name() string { return e.name }

// Label returns the display label, which defaults to the name.
func (e *Effect) Label() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.label
}

// SetLabel sets the display label.
func (e *Effect) SetLabel(label string) {
	e.mu.Lock()
	e.label = label
	e.mu.Unlock()
}

// Mod registers m on channel c.
func (e *Effect) Mod(c Channel, m Modifier) error {
	if !c.Valid() {
		return fmt.Errorf("%w: unknown channel %d", stats.ErrInvalidArgument, int(c))
	}
	e.mu.Lock()
	e.mods[c] = m
	e.mu.Unlock()
	return nil
}

// Modifier returns the modifier registered on c, or Identity.
func (e *Effect) Modifier(c Channel) Modifier {
	if !c.Valid() {
		return Identity
	}
	e.mu.RLock()
	m := e.mods[c]
	e.mu.RUnlock()
	if m == nil {
		return Identity
	}
	return m
}

// Registered reports whether a non-identity modifier is set on c.
func (e *Effect) Registered(c Channel) bool {
	if !c.Valid() {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mods[c] != nil
}

func (e *Effect) set(c Channel, m Modifier) {
	e.mu.Lock()
	e.mods[c] = m
	e.mu.Unlock()
}

func (e *Effect) ModHpRecovery(m Modifier) { e.set(HpRecovery, m) }
func (e *Effect) ModMpRecovery(m Modifier) { e.set(MpRecovery, m) }
func (e *Effect) ModSpRecovery(m Modifier) { e.set(SpRecovery, m) }
func (e *Effect) ModHpCost(m Modifier)     { e.set(HpCost, m) }
func (e *Effect) ModMpCost(m Modifier)     { e.set(MpCost, m) }
func (e *Effect) ModSpCost(m Modifier)     { e.set(SpCost, m) }
func (e *Effect) ModStrength(m Modifier)   { e.set(Strength, m) }
func (e *Effect) ModMagic(m Modifier)      { e.set(Magic, m) }
func (e *Effect) ModVitality(m Modifier)   { e.set(Vitality, m) }
func (e *Effect) ModSpeed(m Modifier)      { e.set(Speed, m) }

func (e *Effect) HpRecovery() Modifier { return e.Modifier(HpRecovery) }
func (e *Effect) MpRecovery() Modifier { return e.Modifier(MpRecovery) }
func (e *Effect) SpRecovery() Modifier { return e.Modifier(SpRecovery) }
func (e *Effect) HpCost() Modifier     { return e.Modifier(HpCost) }
func (e *Effect) MpCost() Modifier     { return e.Modifier(MpCost) }
func (e *Effect) SpCost() Modifier     { return e.Modifier(SpCost) }
func (e *Effect) Strength() Modifier   { return e.Modifier(Strength) }
func (e *Effect) Magic() Modifier      { return e.Modifier(Magic) }
func (e *Effect) Vitality() Modifier   { return e.Modifier(Vitality) }
func (e *Effect) Speed() Modifier      { return e.Modifier(Speed) }
