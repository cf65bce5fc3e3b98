package actor

import (
	"fmt"

	"github.com/rsandor/Solace-sub001/game/stats"
)

// Mobile is an autonomous actor. Its combat stats come from level and power;
// it holds no major or minor role, so every ability follows the tertiary
// curve.
type Mobile struct {
	base
	power int
}

// NewMobile creates a mobile at full resources.
func NewMobile(name string, level, power int) (*Mobile, error) {
	if level < stats.MinLevel || level > stats.MaxLevel {
		return nil, fmt.Errorf("%w: level %d outside [%d,%d]", stats.ErrInvalidArgument, level, stats.MinLevel, stats.MaxLevel)
	}
	if power < stats.MinPower || power > stats.MaxPower {
		return nil, fmt.Errorf("%w: power %d outside [%d,%d]", stats.ErrInvalidArgument, power, stats.MinPower, stats.MaxPower)
	}
	m := &Mobile{power: power}
	m.init(m, name, level)
	m.Exclusive(func(p *Pools) { p.Fill() })
	return m, nil
}

func (m *Mobile) IsMobile() bool { return true }

// Power returns the mobile's difficulty scalar.
func (m *Mobile) Power() int { return m.power }

// Ability returns the effect-adjusted ability score.
func (m *Mobile) Ability(a stats.Attribute) int {
	score, _ := stats.Ability(m.Level(), stats.Tertiary)
	return m.ability(a, score)
}

// ChanceToHit returns the mobile's chance to hit a player of its level.
func (m *Mobile) ChanceToHit() float64 {
	v, _ := stats.MobileChanceToHit(m.power)
	return v
}

func (m *Mobile) Inputs() stats.Inputs {
	return m.inputs(m.Level(), m.power, true)
}
