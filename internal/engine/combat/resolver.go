// Package combat resolves attacker-vs-defender fights between units and
// cities. All randomness flows through the injected dice roller so
// resolutions are reproducible under a fixed seed.
package combat

import (
	"math"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/stratforge/empire-api/internal/entities"
	"github.com/stratforge/empire-api/internal/errors"
)

// ExperienceAward is granted to the attacker after every fight, and to the
// defender when the defender is a unit.
const ExperienceAward = 10

// cityFortification doubles a city's stored defense in combat
const cityFortification = 2

// Resolver resolves combat using an injected dice roller
type Resolver struct {
	roller dice.Roller
}

// NewResolver creates a combat resolver
func NewResolver(roller dice.Roller) (*Resolver, error) {
	if roller == nil {
		return nil, errors.InvalidArgument("dice roller is required")
	}
	return &Resolver{roller: roller}, nil
}

// multiplier draws a combat roll uniformly from {0.80, 0.81, ..., 1.20}
func (r *Resolver) multiplier() (float64, error) {
	roll, err := r.roller.Roll(41)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll combat multiplier")
	}
	return 0.8 + float64(roll-1)/100, nil
}

// ResolveUnitAttack fights attacker against a defending unit. Both units
// are mutated in place: the loser takes damage proportional to the margin
// of victory and both sides gain experience. The caller removes a unit
// whose health reaches zero.
func (r *Resolver) ResolveUnitAttack(attacker, defender *entities.Unit) (*entities.CombatResult, error) {
	attackerRoll, err := r.multiplier()
	if err != nil {
		return nil, err
	}
	defenderRoll, err := r.multiplier()
	if err != nil {
		return nil, err
	}

	attackerPower := (float64(attacker.Attack) + float64(attacker.Experience)/10) * attackerRoll
	defenderPower := (float64(defender.Defense) + float64(defender.Experience)/10) * defenderRoll

	result := &entities.CombatResult{
		AttackerPower: attackerPower,
		DefenderPower: defenderPower,
	}

	damage := marginDamage(attackerPower, defenderPower)
	if attackerPower > defenderPower {
		result.Winner = entities.CombatWinnerAttacker
		result.DefenderDamage = damage
		defender.Health = max(0, defender.Health-damage)
	} else {
		// Ties hold for the defender.
		result.Winner = entities.CombatWinnerDefender
		result.AttackerDamage = damage
		attacker.Health = max(0, attacker.Health-damage)
	}

	attacker.Experience += ExperienceAward
	defender.Experience += ExperienceAward

	return result, nil
}

// ResolveCityAttack fights attacker against a city. The city's combat
// power is its fortified defense with no experience bonus. A defeated city
// loses the full damage from its defense stat; a city that holds loses
// half the damage it dealt. Ownership transfer on defeat is the caller's
// job, the resolver only mutates stats.
func (r *Resolver) ResolveCityAttack(attacker *entities.Unit, city *entities.City) (*entities.CombatResult, error) {
	attackerRoll, err := r.multiplier()
	if err != nil {
		return nil, err
	}
	defenderRoll, err := r.multiplier()
	if err != nil {
		return nil, err
	}

	attackerPower := (float64(attacker.Attack) + float64(attacker.Experience)/10) * attackerRoll
	defenderPower := float64(city.Defense*cityFortification) * defenderRoll

	result := &entities.CombatResult{
		AttackerPower: attackerPower,
		DefenderPower: defenderPower,
	}

	damage := marginDamage(attackerPower, defenderPower)
	if attackerPower > defenderPower {
		result.Winner = entities.CombatWinnerAttacker
		result.DefenderDamage = damage
		city.Defense = max(0, city.Defense-damage)
	} else {
		result.Winner = entities.CombatWinnerDefender
		result.AttackerDamage = damage
		attacker.Health = max(0, attacker.Health-damage)
		city.Defense = max(0, city.Defense-damage/2)
	}

	attacker.Experience += ExperienceAward

	return result, nil
}

// marginDamage scales the loser's own power by the margin of victory
func marginDamage(attackerPower, defenderPower float64) int {
	high := math.Max(attackerPower, defenderPower)
	low := math.Min(attackerPower, defenderPower)
	if high == 0 {
		return 0
	}
	margin := (high - low) / high
	return int(math.Round(low * margin))
}
