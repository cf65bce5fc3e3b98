package cost

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsandor/Solace-sub001/game/actor"
	"github.com/rsandor/Solace-sub001/game/effect"
	"github.com/rsandor/Solace-sub001/game/stats"
)

// newWarrior is level 50 with vitality major and strength minor:
// max HP 1883, max MP 1273, max SP 1230.
func newWarrior(t *testing.T) *actor.Character {
	t.Helper()
	c, err := actor.NewCharacter("Varek", 50, actor.Roles{Major: stats.Vitality, Minor: stats.Strength})
	require.NoError(t, err)
	return c
}

func TestFixedWithdraw(t *testing.T) {
	c := newWarrior(t)
	mp := FixedCost(actor.MP, 100)

	assert.Equal(t, 100, mp.Cost(c))
	assert.True(t, mp.CanWithdraw(c))
	mp.Withdraw(c)
	assert.Equal(t, 1173, c.Current(actor.MP))
}

func TestPercentageWithdraw(t *testing.T) {
	c := newWarrior(t)
	hp := PercentageCost(actor.HP, 10)
	// trunc(0.1 * 1883)
	assert.Equal(t, 188, hp.Cost(c))
	assert.True(t, hp.TryWithdraw(c))
	assert.Equal(t, 1883-188, c.Current(actor.HP))
}

func TestFullPercentageEmptiesPool(t *testing.T) {
	c := newWarrior(t)
	all := PercentageCost(actor.SP, 100)
	require.True(t, all.CanWithdraw(c))
	all.Withdraw(c)
	assert.Equal(t, 0, c.Current(actor.SP))
	assert.False(t, all.CanWithdraw(c))
}

func TestWithdrawUnaffordableIsNoop(t *testing.T) {
	c := newWarrior(t)
	c.Exclusive(func(p *actor.Pools) { p.Set(actor.MP, 50) })

	mp := FixedCost(actor.MP, 100)
	assert.False(t, mp.CanWithdraw(c))
	mp.Withdraw(c)
	assert.Equal(t, 50, c.Current(actor.MP))
	assert.False(t, mp.TryWithdraw(c))
	assert.Equal(t, 50, c.Current(actor.MP))
	assert.Equal(t, "Not enough {m}mp{x}.", mp.InsufficientResourceMessage())
}

func TestCostModifiers(t *testing.T) {
	c := newWarrior(t)
	meta := effect.New("metamagical")
	meta.ModMpCost(func(_ effect.Subject, v float64) float64 { return v * 0.9 })
	require.NoError(t, c.Effects().Apply(meta))

	mp := FixedCost(actor.MP, 100)
	assert.Equal(t, 90, mp.Cost(c))
	mp.Withdraw(c)
	assert.Equal(t, 1273-90, c.Current(actor.MP))

	// HP costs are untouched by an MP cost modifier.
	assert.Equal(t, 100, FixedCost(actor.HP, 100).Cost(c))

	// A modifier that drives the cost negative costs nothing.
	free := effect.New("free")
	free.ModSpCost(func(_ effect.Subject, v float64) float64 { return v - 1000 })
	require.NoError(t, c.Effects().Apply(free))
	assert.Equal(t, 0, FixedCost(actor.SP, 10).Cost(c))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Not enough {m}hp{x}.", FixedCost(actor.HP, 1).InsufficientResourceMessage())
	assert.Equal(t, "Not enough {m}sp{x}.", PercentageCost(actor.SP, 1).InsufficientResourceMessage())
	assert.Equal(t, "25% sp", PercentageCost(actor.SP, 25).String())
	assert.Equal(t, "3 hp", FixedCost(actor.HP, 3).String())
}

func TestNewValidation(t *testing.T) {
	_, err := New(Fixed, actor.MP, -1)
	assert.ErrorIs(t, err, stats.ErrInvalidArgument)
	_, err = New(Type(5), actor.MP, 1)
	assert.ErrorIs(t, err, stats.ErrInvalidArgument)
	_, err = New(Fixed, actor.Resource(9), 1)
	assert.ErrorIs(t, err, stats.ErrInvalidArgument)

	c, err := New(Percentage, actor.HP, 20)
	require.NoError(t, err)
	assert.Equal(t, Percentage, c.Type())
	assert.Equal(t, actor.HP, c.Resource())
	assert.Equal(t, 20, c.Amount())

	typ, err := ParseType("percentage")
	require.NoError(t, err)
	assert.Equal(t, Percentage, typ)
	_, err = ParseType("free")
	assert.ErrorIs(t, err, stats.ErrInvalidArgument)

	assert.Panics(t, func() { FixedCost(actor.HP, -5) })
}

func TestConcurrentWithdrawNeverOverdraws(t *testing.T) {
	c := newWarrior(t)
	mp := FixedCost(actor.MP, 10)

	var wg sync.WaitGroup
	var paid atomic.Int32
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if mp.TryWithdraw(c) {
				paid.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(127), paid.Load())
	assert.Equal(t, 3, c.Current(actor.MP))
}

func TestWithdrawAll(t *testing.T) {
	c := newWarrior(t)

	failed := WithdrawAll(c, FixedCost(actor.HP, 10), FixedCost(actor.MP, 2000))
	require.NotNil(t, failed)
	assert.Equal(t, actor.MP, failed.Resource())
	assert.Equal(t, 1883, c.Current(actor.HP), "nothing is paid when one cost fails")

	// Two costs on one pool add up.
	failed = WithdrawAll(c, FixedCost(actor.SP, 1000), FixedCost(actor.SP, 300))
	require.NotNil(t, failed)
	assert.Equal(t, 1230, c.Current(actor.SP))

	assert.Nil(t, WithdrawAll(c, FixedCost(actor.HP, 10), PercentageCost(actor.MP, 50)))
	assert.Equal(t, 1873, c.Current(actor.HP))
	assert.Equal(t, 1273-636, c.Current(actor.MP))
}
