package stats

import (
	"fmt"
	"math"
)

// Player character tuning parameters. These are runtime float64 values on
// purpose: differences such as (max - min) must round exactly as they do in
// the balance spreadsheet, which untyped constant folding would not.
var (
	chDamageModScale = 0.81
	chDamageModShift = -1.0

	chHitModScale = 0.7
	chHitModShift = 0.0

	chACModScale      = 0.8
	chACModShift      = 0.0
	chACModSpeedScale = 0.2
	chACModSpeedPower = 1.1205

	chHPVitalityScale   = 1.0
	chHPVitalityLogBase = 2.1
	chHPStrengthScale   = 0.5
	chHPStrengthLogBase = 3.5
	chHPShift           = -3.0

	chMPMagicScale      = 1.1
	chMPMagicLogBase    = 1.65
	chMPVitalityScale   = 0.5
	chMPVitalityLogBase = 4.0
	chMPShift           = -3.0

	chSPSpeedScale      = 1.0
	chSPSpeedLogBase    = 2.0
	chSPStrengthScale   = 0.9
	chSPStrengthLogBase = 2.8
	chSPShift           = 2.0

	chSavingThrowScalar     = 0.21
	chSavingThrowLevelPower = 0.05
)

// attacksLevelStep is the number of levels between extra attacks per round.
const attacksLevelStep = 33

// scaledLog returns scale * x * log_base(x).
func scaledLog(scale float64, x int, base float64) float64 {
	return scale * float64(x) * math.Log(float64(x)) / math.Log(base)
}

// MaxHP returns the maximum hit points of a player character:
//
//	MaxHP(v, s) = floor(v * log_2.1(v) + 0.5 * s * log_3.5(s)) - 3
func MaxHP(vitality, strength int) (int, error) {
	if err := checkScore("vitality", vitality); err != nil {
		return 0, err
	}
	if err := checkScore("strength", strength); err != nil {
		return 0, err
	}
	return maxHP(vitality, strength), nil
}

func maxHP(vitality, strength int) int {
	vitalityHP := scaledLog(chHPVitalityScale, vitality, chHPVitalityLogBase)
	strengthHP := scaledLog(chHPStrengthScale, strength, chHPStrengthLogBase)
	return int(math.Floor(vitalityHP+strengthHP) + chHPShift)
}

// MaxMP returns the maximum magic points of a player character:
//
//	MaxMP(m, v) = 1.1 * m * log_1.65(m) + 0.5 * v * log_4(v) - 3
func MaxMP(magic, vitality int) (int, error) {
	if err := checkScore("magic", magic); err != nil {
		return 0, err
	}
	if err := checkScore("vitality", vitality); err != nil {
		return 0, err
	}
	magicMP := scaledLog(chMPMagicScale, magic, chMPMagicLogBase)
	vitalityMP := scaledLog(chMPVitalityScale, vitality, chMPVitalityLogBase)
	return int(magicMP + vitalityMP + chMPShift), nil
}

// MaxSP returns the maximum stamina points of a player character:
//
//	MaxSP(e, s) = e * log_2(e) + 0.9 * s * log_2.8(s) + 2
func MaxSP(speed, strength int) (int, error) {
	if err := checkScore("speed", speed); err != nil {
		return 0, err
	}
	if err := checkScore("strength", strength); err != nil {
		return 0, err
	}
	speedSP := scaledLog(chSPSpeedScale, speed, chSPSpeedLogBase)
	strengthSP := scaledLog(chSPStrengthScale, strength, chSPStrengthLogBase)
	return int(speedSP + strengthSP + chSPShift), nil
}

// AC returns the armor class bonus of a player character of the given level
// whose dodge is fed by the given speed score:
//
//	AC(l, s) = floor(0.2 * s^1.1205) + l^0.8
func AC(level, speed int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	if err := checkScore("speed", speed); err != nil {
		return 0, err
	}
	return ac(level, speed), nil
}

func ac(level, speed int) int {
	speedAC := int(math.Floor(chACModSpeedScale * math.Pow(float64(speed), chACModSpeedPower)))
	levelAC := int(math.Pow(float64(level), chACModScale) + chACModShift)
	return levelAC + speedAC
}

// HitMod returns the hit modifier of a player character of the given level.
func HitMod(level int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	return hitMod(level), nil
}

func hitMod(level int) int {
	return int(math.Pow(float64(level), chHitModScale) + chHitModShift)
}

// DamageMod returns the damage modifier of a player character of the given
// level.
func DamageMod(level int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	return damageMod(level), nil
}

func damageMod(level int) int {
	return int(math.Pow(float64(level), chDamageModScale) + chDamageModShift)
}

// AttackRoll returns the attack roll of a player character wielding a
// standard weapon of its own level: the weapon roll plus the hit modifier.
func AttackRoll(level int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	return weaponAttackRoll(level) + hitMod(level), nil
}

// AverageDamage returns the mean damage of a successful player character
// attack with a standard weapon of its own level.
func AverageDamage(level int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	return weaponAverageDamage(level) + damageMod(level), nil
}

// NumberOfAttacks returns how many attacks a player character makes each
// battle round: one, plus one more every 33 levels.
func NumberOfAttacks(level int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	return 1 + (level-1)/attacksLevelStep, nil
}

// SavingThrow names a saving throw and the two ability scores feeding it.
type SavingThrow struct {
	Name string
	A, B Attribute
}

// SavingThrows lists the six saving throws.
var SavingThrows = [...]SavingThrow{
	{Name: "will", A: Strength, B: Vitality},
	{Name: "reflex", A: Strength, B: Speed},
	{Name: "resolve", A: Strength, B: Magic},
	{Name: "vigor", A: Vitality, B: Speed},
	{Name: "prudence", A: Vitality, B: Magic},
	{Name: "guile", A: Speed, B: Magic},
}

// LookupSavingThrow finds a saving throw by name.
func LookupSavingThrow(name string) (SavingThrow, error) {
	for _, st := range SavingThrows {
		if st.Name == name {
			return st, nil
		}
	}
	return SavingThrow{}, fmt.Errorf("%w: unknown saving throw %q", ErrInvalidArgument, name)
}

// Save computes the saving throw for a character of the given level from the
// two ability scores the throw is built on:
//
//	save = 0.21 * (a + b) * level^0.05
func Save(level, a, b int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: negative ability score", ErrInvalidArgument)
	}
	return int(chSavingThrowScalar * float64(a+b) * math.Pow(float64(level), chSavingThrowLevelPower)), nil
}

// MagicRoll returns the roll made against a saving throw of the given value.
func MagicRoll(save int) int { return 4 * save }
