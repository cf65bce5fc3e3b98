package stats

import "math"

// Mobile tuning parameters.
var (
	mobACBase         = 4.0
	mobACScalar       = 0.15
	mobACPowerScale   = 3.6
	mobACPowerDivisor = 55.0
	mobACLevelScale   = 1.01
	mobACLevelDivisor = 800.0

	mobHPScale        = 0.85
	mobHPLogBase      = 1.19
	mobHPPowerDivisor = 15.8
	mobHPShift        = 10.0
	mobHPPowerExp     = 1.7

	mobAttackRollMin = 0.4
	mobAttackRollMax = 0.85
	mobAttackRollExp = 1.2

	mobDamageMaxToKillPlayer = 20.0
	mobDamageMinToKillPlayer = 6.0
	mobDamageExp             = 1.3
)

// MobileAC returns the armor class of a mobile of the given level and power.
func MobileAC(level, power int) (int, error) {
	if err := checkLevelPower(level, power); err != nil {
		return 0, err
	}
	return mobileAC(level, power), nil
}

func mobileAC(level, power int) int {
	l := float64(level)
	ac := mobACBase + mobACScalar*float64(power)*
		math.Pow(mobACPowerScale, 1+(l/mobACPowerDivisor)) +
		mobACLevelScale*math.Pow(l, 1+(l/mobACLevelDivisor))
	return int(ac)
}

// MobileMaxHP returns the maximum hit points of a mobile:
//
//	MobHP(L, P) = (1 + P^1.7 / 15.8) * 0.85 * L * log_1.19(L) + 10
func MobileMaxHP(level, power int) (int, error) {
	if err := checkLevelPower(level, power); err != nil {
		return 0, err
	}
	return mobileMaxHP(level, power), nil
}

func mobileMaxHP(level, power int) int {
	l := float64(level)
	hp := (1+(math.Pow(float64(power), mobHPPowerExp)/mobHPPowerDivisor))*
		mobHPScale*
		l*
		(math.Log(l)/math.Log(mobHPLogBase)) +
		mobHPShift
	return int(hp)
}

// MobileChanceToHit returns the chance a mobile of the given power hits a
// player character of the same level. It rises from just above 0.40 to 0.85
// at power 100 and does not depend on level:
//
//	(M - m) * (power / 100)^1.2 + m
func MobileChanceToHit(power int) (float64, error) {
	if err := checkPower(power); err != nil {
		return 0, err
	}
	return mobileChanceToHit(power), nil
}

func mobileChanceToHit(power int) float64 {
	hi, lo := mobAttackRollMax, mobAttackRollMin
	return (hi-lo)*math.Pow(float64(power)/100.0, mobAttackRollExp) + lo
}

// MobileAttackRoll returns the attack roll that gives a mobile its chance to
// hit against the average armor class of a player of the same level:
//
//	Roll = AverageAC(level) / (1 - ChanceToHit(power))
func MobileAttackRoll(level, power int) (int, error) {
	if err := checkLevelPower(level, power); err != nil {
		return 0, err
	}
	return int(averageAC[level] / (1 - mobileChanceToHit(power))), nil
}

// MobileAverageDamage returns the mean damage of a successful mobile attack,
// sized so a player of the same level dies after between 6 (power 100) and 20
// (power 0) hits:
//
//	damage = ceil(AverageHP(level) / ((M - m) * (1 - (power/100)^1.3) + m))
func MobileAverageDamage(level, power int) (int, error) {
	if err := checkLevelPower(level, power); err != nil {
		return 0, err
	}
	hp := averageHP[level]
	most, least := mobDamageMaxToKillPlayer, mobDamageMinToKillPlayer
	hits := (most-least)*(1-math.Pow(float64(power)/100.0, mobDamageExp)) + least
	return int(math.Ceil(hp / hits)), nil
}

// Mobiles have no hit or damage modifier and attack once per round.
const (
	MobileHitMod          = 0
	MobileDamageMod       = 0
	MobileNumberOfAttacks = 1
)

func checkLevelPower(level, power int) error {
	if err := checkLevel(level); err != nil {
		return err
	}
	return checkPower(power)
}
