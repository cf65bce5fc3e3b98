package actor

import (
	"fmt"

	"github.com/rsandor/Solace-sub001/game/stats"
)

// Roles assigns the major and minor growth curves to two distinct ability
// scores. The other two follow the tertiary curve.
type Roles struct {
	Major stats.Attribute
	Minor stats.Attribute
}

// Validate checks that both roles name a known ability and differ.
func (r Roles) Validate() error {
	if !r.Major.Valid() || !r.Minor.Valid() {
		return fmt.Errorf("%w: roles must name known abilities", stats.ErrInvalidArgument)
	}
	if r.Major == r.Minor {
		return fmt.Errorf("%w: %s cannot hold both major and minor", stats.ErrInvalidArgument, r.Major)
	}
	return nil
}

// RoleOf returns the growth curve a follows.
func (r Roles) RoleOf(a stats.Attribute) stats.Role {
	switch a {
	case r.Major:
		return stats.Major
	case r.Minor:
		return stats.Minor
	}
	return stats.Tertiary
}

// ParseRoles builds a role assignment from ability names.
func ParseRoles(major, minor string) (Roles, error) {
	ma, err := stats.ParseAttribute(major)
	if err != nil {
		return Roles{}, err
	}
	mi, err := stats.ParseAttribute(minor)
	if err != nil {
		return Roles{}, err
	}
	r := Roles{Major: ma, Minor: mi}
	return r, r.Validate()
}

// Character is a player character.
type Character struct {
	base
	roles Roles
}

// NewCharacter creates a player character at full resources.
func NewCharacter(name string, level int, roles Roles) (*Character, error) {
	if level < stats.MinLevel || level > stats.MaxLevel {
		return nil, fmt.Errorf("%w: level %d outside [%d,%d]", stats.ErrInvalidArgument, level, stats.MinLevel, stats.MaxLevel)
	}
	if err := roles.Validate(); err != nil {
		return nil, err
	}
	c := &Character{roles: roles}
	c.init(c, name, level)
	c.Exclusive(func(p *Pools) { p.Fill() })
	return c, nil
}

// Roles returns the character's role assignment.
func (c *Character) Roles() Roles { return c.roles }

func (c *Character) IsMobile() bool { return false }

// Power is zero for player characters.
func (c *Character) Power() int { return 0 }

// SetLevel changes the character's level. Pools are not refilled.
func (c *Character) SetLevel(level int) error {
	if level < stats.MinLevel || level > stats.MaxLevel {
		return fmt.Errorf("%w: level %d outside [%d,%d]", stats.ErrInvalidArgument, level, stats.MinLevel, stats.MaxLevel)
	}
	c.level.Store(int32(level))
	return nil
}

// Ability returns the effect-adjusted ability score.
func (c *Character) Ability(a stats.Attribute) int {
	score, _ := stats.Ability(c.Level(), c.roles.RoleOf(a))
	return c.ability(a, score)
}

func (c *Character) Inputs() stats.Inputs {
	return c.inputs(c.Level(), 0, false)
}
