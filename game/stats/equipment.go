package stats

import (
	"fmt"
	"math"
)

// Slot is an armor slot.
type Slot string

const (
	SlotHead    Slot = "head"
	SlotBody    Slot = "body"
	SlotHands   Slot = "hands"
	SlotLegs    Slot = "legs"
	SlotWaist   Slot = "waist"
	SlotFeet    Slot = "feet"
	SlotOffHand Slot = "off-hand"
)

// Slots lists every armor slot of a fully equipped character.
var Slots = [...]Slot{SlotHead, SlotBody, SlotHands, SlotLegs, SlotWaist, SlotFeet, SlotOffHand}

// armorBaseAC is the per-slot coefficient over the shared level curve.
var armorBaseAC = map[Slot]float64{
	SlotHead:    2.0,
	SlotBody:    5.0,
	SlotHands:   1.0,
	SlotLegs:    3.0,
	SlotWaist:   1.0,
	SlotFeet:    2.0,
	SlotOffHand: 3.0,
}

// Equipment tuning parameters.
var (
	armorLevelExponent = 0.68

	weaponChanceToHitP35 = 0.65
	weaponMinDamage      = 4.0
	weaponReferencePower = 35

	// battleTimeP35 is the expected number of rounds a battle against a
	// power 35 mobile of the same level lasts.
	battleTimeP35 = 40
)

// ArmorBaseAC returns the mean armor class bonus of a piece of armor of the
// given level worn in the given slot. Loot generation scatters around it.
func ArmorBaseAC(level int, slot Slot) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	if _, ok := armorBaseAC[slot]; !ok {
		return 0, fmt.Errorf("%w: unknown armor slot %q", ErrInvalidArgument, slot)
	}
	return armorAC(level, slot), nil
}

func armorAC(level int, slot Slot) int {
	return int(armorBaseAC[slot] * math.Pow(float64(level), armorLevelExponent))
}

// WeaponAttackRoll returns the base attack roll of a weapon of the given
// level, tuned so a player of that level hits a power 35 mobile 65% of the
// time.
func WeaponAttackRoll(level int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	return weaponAttackRoll(level), nil
}

func weaponAttackRoll(level int) int {
	mobAC := mobileAC(level, weaponReferencePower)
	return int(float64(mobAC-hitMod(level)) / (1.0 - weaponChanceToHitP35))
}

// WeaponAverageDamage returns the mean damage of a weapon of the given level.
func WeaponAverageDamage(level int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	return weaponAverageDamage(level), nil
}

func weaponAverageDamage(level int) int {
	mobHP := mobileMaxHP(level, weaponReferencePower)
	rounds := battleTimeP35 / 2
	return int(math.Ceil(weaponMinDamage + ((1/weaponChanceToHitP35)*float64(mobHP)/float64(rounds))))
}

// averageHP and averageAC are indexed by level and filled once at init.
var (
	averageHP [MaxLevel + 1]float64
	averageAC [MaxLevel + 1]float64
)

// hpRoleCombinations are the (vitality, strength) role pairs averaged into
// the expected hit points of a level.
var hpRoleCombinations = [...][2]Role{
	{Major, Minor},
	{Major, Tertiary},
	{Minor, Major},
	{Minor, Tertiary},
	{Tertiary, Major},
	{Tertiary, Minor},
	{Tertiary, Tertiary},
}

func initAverages() {
	for level := MinLevel; level <= MaxLevel; level++ {
		sum := 0
		for _, c := range hpRoleCombinations {
			sum += maxHP(ability(level, c[0]), ability(level, c[1]))
		}
		averageHP[level] = float64(sum) / float64(len(hpRoleCombinations))

		armor := 0
		for _, slot := range Slots {
			armor += armorAC(level, slot)
		}
		averageAC[level] = float64(armor + ac(level, ability(level, Minor)))
	}
}

// AverageHP returns the expected maximum hit points of a player character of
// the given level, averaged over the role combinations.
func AverageHP(level int) (float64, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	return averageHP[level], nil
}

// AverageAC returns the expected armor class of a fully equipped player
// character of the given level whose speed holds the minor role.
func AverageAC(level int) (float64, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	return averageAC[level], nil
}
