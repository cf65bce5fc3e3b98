package stats

import "fmt"

// Stat names a derived statistic reachable through Derive.
type Stat string

const (
	StatMaxHP               Stat = "max_hp"
	StatMaxMP               Stat = "max_mp"
	StatMaxSP               Stat = "max_sp"
	StatAC                  Stat = "ac"
	StatHitMod              Stat = "hit_mod"
	StatDamageMod           Stat = "damage_mod"
	StatAttackRoll          Stat = "attack_roll"
	StatAverageDamage       Stat = "average_damage"
	StatNumberOfAttacks     Stat = "number_of_attacks"
	StatChanceToHit         Stat = "chance_to_hit"
	StatWeaponAttackRoll    Stat = "weapon_attack_roll"
	StatWeaponAverageDamage Stat = "weapon_average_damage"
	StatArmorBaseAC         Stat = "armor_base_ac"
	StatAverageHP           Stat = "average_hp"
	StatAverageAC           Stat = "average_ac"
)

// Inputs carries everything a derived stat may depend on. Player character
// stats read the ability scores; mobile stats (Mobile set) read Power
// instead. Slot is only read by StatArmorBaseAC.
type Inputs struct {
	Level  int
	Power  int
	Mobile bool

	Strength int
	Vitality int
	Magic    int
	Speed    int

	Slot Slot
}

// Score returns the ability score held in the inputs for a.
func (in Inputs) Score(a Attribute) int {
	switch a {
	case Strength:
		return in.Strength
	case Vitality:
		return in.Vitality
	case Magic:
		return in.Magic
	case Speed:
		return in.Speed
	}
	return 0
}

type deriveFn func(in Inputs) (float64, error)

func intStat(v int, err error) (float64, error) { return float64(v), err }

// atLevel guards stats computed from ability scores alone, which would
// otherwise accept any level.
func atLevel(fn deriveFn) deriveFn {
	return func(in Inputs) (float64, error) {
		if err := checkLevel(in.Level); err != nil {
			return 0, err
		}
		return fn(in)
	}
}

func atLevelPower(fn deriveFn) deriveFn {
	return func(in Inputs) (float64, error) {
		if err := checkLevelPower(in.Level, in.Power); err != nil {
			return 0, err
		}
		return fn(in)
	}
}

var characterStats = map[Stat]deriveFn{
	StatMaxHP:           atLevel(func(in Inputs) (float64, error) { return intStat(MaxHP(in.Vitality, in.Strength)) }),
	StatMaxMP:           atLevel(func(in Inputs) (float64, error) { return intStat(MaxMP(in.Magic, in.Vitality)) }),
	StatMaxSP:           atLevel(func(in Inputs) (float64, error) { return intStat(MaxSP(in.Speed, in.Strength)) }),
	StatAC:              func(in Inputs) (float64, error) { return intStat(AC(in.Level, in.Speed)) },
	StatHitMod:          func(in Inputs) (float64, error) { return intStat(HitMod(in.Level)) },
	StatDamageMod:       func(in Inputs) (float64, error) { return intStat(DamageMod(in.Level)) },
	StatAttackRoll:      func(in Inputs) (float64, error) { return intStat(AttackRoll(in.Level)) },
	StatAverageDamage:   func(in Inputs) (float64, error) { return intStat(AverageDamage(in.Level)) },
	StatNumberOfAttacks: func(in Inputs) (float64, error) { return intStat(NumberOfAttacks(in.Level)) },
}

var mobileStats = map[Stat]deriveFn{
	StatMaxHP:         func(in Inputs) (float64, error) { return intStat(MobileMaxHP(in.Level, in.Power)) },
	StatMaxMP:         atLevelPower(func(in Inputs) (float64, error) { return intStat(MaxMP(in.Magic, in.Vitality)) }),
	StatMaxSP:         atLevelPower(func(in Inputs) (float64, error) { return intStat(MaxSP(in.Speed, in.Strength)) }),
	StatAC:            func(in Inputs) (float64, error) { return intStat(MobileAC(in.Level, in.Power)) },
	StatAttackRoll:    func(in Inputs) (float64, error) { return intStat(MobileAttackRoll(in.Level, in.Power)) },
	StatAverageDamage: func(in Inputs) (float64, error) { return intStat(MobileAverageDamage(in.Level, in.Power)) },
	StatChanceToHit:   func(in Inputs) (float64, error) { return MobileChanceToHit(in.Power) },
	StatHitMod: func(in Inputs) (float64, error) {
		return MobileHitMod, checkLevelPower(in.Level, in.Power)
	},
	StatDamageMod: func(in Inputs) (float64, error) {
		return MobileDamageMod, checkLevelPower(in.Level, in.Power)
	},
	StatNumberOfAttacks: func(in Inputs) (float64, error) {
		return MobileNumberOfAttacks, checkLevelPower(in.Level, in.Power)
	},
}

// levelStats do not depend on who is asking.
var levelStats = map[Stat]deriveFn{
	StatWeaponAttackRoll:    func(in Inputs) (float64, error) { return intStat(WeaponAttackRoll(in.Level)) },
	StatWeaponAverageDamage: func(in Inputs) (float64, error) { return intStat(WeaponAverageDamage(in.Level)) },
	StatArmorBaseAC:         func(in Inputs) (float64, error) { return intStat(ArmorBaseAC(in.Level, in.Slot)) },
	StatAverageHP:           func(in Inputs) (float64, error) { return AverageHP(in.Level) },
	StatAverageAC:           func(in Inputs) (float64, error) { return AverageAC(in.Level) },
}

// Derive computes the named stat. Saving throws are reachable by their own
// names ("will", "reflex", ...). Unknown names, and stats that do not exist
// for the kind of actor described by in, fail with ErrInvalidArgument.
func Derive(name Stat, in Inputs) (float64, error) {
	if fn, ok := levelStats[name]; ok {
		return fn(in)
	}
	table := characterStats
	if in.Mobile {
		table = mobileStats
	}
	if fn, ok := table[name]; ok {
		v, err := fn(in)
		if err != nil {
			return 0, fmt.Errorf("derive %s: %w", name, err)
		}
		return v, nil
	}
	if st, err := LookupSavingThrow(string(name)); err == nil {
		return intStat(Save(in.Level, in.Score(st.A), in.Score(st.B)))
	}
	kind := "player character"
	if in.Mobile {
		kind = "mobile"
	}
	return 0, fmt.Errorf("%w: no %s stat %q", ErrInvalidArgument, kind, name)
}
