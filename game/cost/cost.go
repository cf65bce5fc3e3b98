// Package cost arbitrates spending of an actor's resource pools. A
// ResourceCost is an immutable value built once per ability definition; its
// affordability check and withdrawal run inside the actor's exclusive
// section so concurrent spenders and the recovery cycle never interleave.
package cost

import (
	"fmt"
	"math"

	"github.com/rsandor/Solace-sub001/game/actor"
	"github.com/rsandor/Solace-sub001/game/stats"
)

// Type says how a cost amount is interpreted.
type Type int

const (
	// Fixed costs the amount itself.
	Fixed Type = iota
	// Percentage costs amount percent of the pool's maximum.
	Percentage
)

func (t Type) String() string {
	switch t {
	case Fixed:
		return "fixed"
	case Percentage:
		return "percentage"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType resolves "fixed" or "percentage".
func ParseType(name string) (Type, error) {
	switch name {
	case "fixed":
		return Fixed, nil
	case "percentage":
		return Percentage, nil
	}
	return 0, fmt.Errorf("%w: unknown cost type %q", stats.ErrInvalidArgument, name)
}

var insufficientMessages = [...]string{
	actor.HP: "Not enough {m}hp{x}.",
	actor.MP: "Not enough {m}mp{x}.",
	actor.SP: "Not enough {m}sp{x}.",
}

// ResourceCost is what an ability costs from one pool.
type ResourceCost struct {
	typ      Type
	resource actor.Resource
	amount   int
}

// New validates and builds a cost.
func New(typ Type, resource actor.Resource, amount int) (ResourceCost, error) {
	if typ != Fixed && typ != Percentage {
		return ResourceCost{}, fmt.Errorf("%w: unknown cost type %d", stats.ErrInvalidArgument, int(typ))
	}
	if !resource.Valid() {
		return ResourceCost{}, fmt.Errorf("%w: unknown resource %d", stats.ErrInvalidArgument, int(resource))
	}
	if amount < 0 {
		return ResourceCost{}, fmt.Errorf("%w: negative cost %d", stats.ErrInvalidArgument, amount)
	}
	return ResourceCost{typ: typ, resource: resource, amount: amount}, nil
}

// FixedCost builds a fixed cost. It panics on invalid input and is meant for
// static ability tables.
func FixedCost(resource actor.Resource, amount int) ResourceCost {
	return must(New(Fixed, resource, amount))
}

// PercentageCost builds a percentage-of-max cost. It panics on invalid input
// and is meant for static ability tables.
func PercentageCost(resource actor.Resource, percent int) ResourceCost {
	return must(New(Percentage, resource, percent))
}

func must(c ResourceCost, err error) ResourceCost {
	if err != nil {
		panic(err)
	}
	return c
}

func (c ResourceCost) Type() Type               { return c.typ }
func (c ResourceCost) Resource() actor.Resource { return c.resource }
func (c ResourceCost) Amount() int              { return c.amount }

func (c ResourceCost) String() string {
	if c.typ == Percentage {
		return fmt.Sprintf("%d%% %s", c.amount, c.resource)
	}
	return fmt.Sprintf("%d %s", c.amount, c.resource)
}

// Cost returns what withdrawing c from a would take right now: the base
// amount, adjusted by a's cost modifiers for the pool and rounded.
func (c ResourceCost) Cost(a actor.Actor) int {
	return c.cost(a, a.MaxResource(c.resource))
}

func (c ResourceCost) cost(a actor.Actor, most int) int {
	base := c.amount
	if c.typ == Percentage {
		base = int(float64(c.amount) / 100.0 * float64(most))
	}
	v := a.Effects().Evaluate(c.resource.CostChannel(), a, float64(base))
	n := int(math.Round(v))
	if n < 0 {
		n = 0
	}
	return n
}

// CanWithdraw reports whether a holds enough of the resource to pay c.
func (c ResourceCost) CanWithdraw(a actor.Actor) bool {
	ok := false
	a.Exclusive(func(p *actor.Pools) {
		ok = p.Current(c.resource) >= c.cost(a, p.Max(c.resource))
	})
	return ok
}

// Withdraw pays c from a if a can afford it and does nothing otherwise.
// Callers check CanWithdraw first and report InsufficientResourceMessage.
func (c ResourceCost) Withdraw(a actor.Actor) {
	c.TryWithdraw(a)
}

// TryWithdraw pays c from a if a can afford it and reports whether it did.
// The check and the subtraction happen in one critical section.
func (c ResourceCost) TryWithdraw(a actor.Actor) bool {
	ok := false
	a.Exclusive(func(p *actor.Pools) {
		amount := c.cost(a, p.Max(c.resource))
		cur := p.Current(c.resource)
		if cur < amount {
			return
		}
		p.Spend(c.resource, amount)
		ok = true
	})
	return ok
}

// InsufficientResourceMessage is shown when the actor cannot pay c.
func (c ResourceCost) InsufficientResourceMessage() string {
	if !c.resource.Valid() {
		return ""
	}
	return insufficientMessages[c.resource]
}

// WithdrawAll pays every cost or none. It returns the first cost a could not
// afford, or nil. Costs on the same pool add up.
func WithdrawAll(a actor.Actor, costs ...ResourceCost) *ResourceCost {
	var failed *ResourceCost
	a.Exclusive(func(p *actor.Pools) {
		var due [len(actor.Resources)]int
		for i := range costs {
			c := costs[i]
			due[c.resource] += c.cost(a, p.Max(c.resource))
			if p.Current(c.resource) < due[c.resource] {
				failed = &costs[i]
				return
			}
		}
		for _, r := range actor.Resources {
			if due[r] > 0 {
				p.Spend(r, due[r])
			}
		}
	})
	return failed
}
