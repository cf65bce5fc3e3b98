// Package stats is the mathematics engine behind the game world: ability
// scores, derived combat and resource statistics for player characters, and
// the power-driven curves used for mobiles and equipment.
//
// Every function in this package is pure. The parametric constants were tuned
// against the balance spreadsheet and must not drift: the derived values are
// compared literally against reference tables.
package stats

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned when a level, power, ability score, role,
// slot or stat name is outside the domain of a formula.
var ErrInvalidArgument = errors.New("stats: invalid argument")

// Level and power bounds (inclusive).
const (
	MinLevel = 1
	MaxLevel = 100
	MinPower = 1
	MaxPower = 100
)

// Ability score curve parameters.
const (
	abilityMajorMinimum   = 10.0
	abilityLogBase        = 2.555
	abilityMinorScalar    = 0.7
	abilityTertiaryScalar = 0.4
)

// Role controls which growth curve an ability score follows.
type Role int

const (
	Major Role = iota
	Minor
	Tertiary
)

func (r Role) String() string {
	switch r {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Tertiary:
		return "tertiary"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool { return r >= Major && r <= Tertiary }

// Attribute names one of the four player character ability scores.
type Attribute int

const (
	Strength Attribute = iota
	Vitality
	Magic
	Speed
)

// Attributes lists the ability scores in canonical order.
var Attributes = [...]Attribute{Strength, Vitality, Magic, Speed}

func (a Attribute) String() string {
	switch a {
	case Strength:
		return "strength"
	case Vitality:
		return "vitality"
	case Magic:
		return "magic"
	case Speed:
		return "speed"
	}
	return fmt.Sprintf("attribute(%d)", int(a))
}

// Valid reports whether a is one of the four ability scores.
func (a Attribute) Valid() bool { return a >= Strength && a <= Speed }

// ParseAttribute resolves an ability score by its lower-case name.
func ParseAttribute(name string) (Attribute, error) {
	for _, a := range Attributes {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown ability %q", ErrInvalidArgument, name)
}

// abilityTable[role][level] is filled once at init and never written again.
var abilityTable [3][MaxLevel + 1]int

func init() {
	for level := MinLevel; level <= MaxLevel; level++ {
		major := int(math.Floor(abilityMajorMinimum +
			float64(level)*(math.Log(float64(level))/math.Log(abilityLogBase))))
		abilityTable[Major][level] = major
		abilityTable[Minor][level] = int(math.Floor(abilityMinorScalar * float64(major)))
		abilityTable[Tertiary][level] = int(math.Floor(abilityTertiaryScalar * float64(major)))
	}
	initAverages()
}

// Ability returns the standard ability score for a player character of the
// given level whose ability holds the given role:
//
//	   Major(L) = floor(10 + L * log_2.555(L))
//	   Minor(L) = floor(0.7 * Major(L))
//	Tertiary(L) = floor(0.4 * Major(L))
func Ability(level int, role Role) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	if !role.Valid() {
		return 0, fmt.Errorf("%w: unknown role %d", ErrInvalidArgument, int(role))
	}
	return abilityTable[role][level], nil
}

// ability is the unchecked table lookup used by the average tables.
func ability(level int, role Role) int { return abilityTable[role][level] }

func checkLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return fmt.Errorf("%w: level %d outside [%d,%d]", ErrInvalidArgument, level, MinLevel, MaxLevel)
	}
	return nil
}

func checkPower(power int) error {
	if power < MinPower || power > MaxPower {
		return fmt.Errorf("%w: power %d outside [%d,%d]", ErrInvalidArgument, power, MinPower, MaxPower)
	}
	return nil
}

func checkScore(name string, score int) error {
	if score < 1 {
		return fmt.Errorf("%w: %s score %d must be positive", ErrInvalidArgument, name, score)
	}
	return nil
}
