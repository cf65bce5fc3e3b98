package effect

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsandor/Solace-sub001/game/stats"
)

type stubSubject struct {
	id    uuid.UUID
	level int
}

func (s stubSubject) ID() uuid.UUID  { return s.id }
func (s stubSubject) Name() string   { return "stub" }
func (s stubSubject) Level() int     { return s.level }
func (s stubSubject) IsMobile() bool { return false }

func newSubject() Subject { return stubSubject{id: uuid.New(), level: 10} }

func add(n float64) Modifier {
	return func(_ Subject, v float64) float64 { return v + n }
}

func scale(n float64) Modifier {
	return func(_ Subject, v float64) float64 { return v * n }
}

func TestEffect_DefaultsToIdentity(t *testing.T) {
	e := New("plain")
	s := newSubject()
	for _, c := range Channels {
		assert.False(t, e.Registered(c))
		assert.Equal(t, 42.5, e.Modifier(c)(s, 42.5), c.String())
	}
	assert.Equal(t, 3.0, e.HpRecovery()(s, 3))
	assert.Equal(t, 3.0, e.Speed()(s, 3))
}

func TestEffect_SettersAndGetters(t *testing.T) {
	e := New("all")
	setters := []func(Modifier){
		e.ModHpRecovery, e.ModMpRecovery, e.ModSpRecovery,
		e.ModHpCost, e.ModMpCost, e.ModSpCost,
		e.ModStrength, e.ModMagic, e.ModVitality, e.ModSpeed,
	}
	getters := []func() Modifier{
		e.HpRecovery, e.MpRecovery, e.SpRecovery,
		e.HpCost, e.MpCost, e.SpCost,
		e.Strength, e.Magic, e.Vitality, e.Speed,
	}
	require.Len(t, setters, len(Channels))
	s := newSubject()
	for i := range setters {
		setters[i](add(float64(i + 1)))
	}
	for i, get := range getters {
		assert.Equal(t, float64(10+i+1), get()(s, 10), Channels[i].String())
		assert.True(t, e.Registered(Channels[i]))
	}

	e.ModSpeed(nil)
	assert.Equal(t, 10.0, e.Speed()(s, 10))
}

func TestEffect_ModRejectsUnknownChannel(t *testing.T) {
	e := New("bad")
	err := e.Mod(Channel(99), add(1))
	assert.ErrorIs(t, err, stats.ErrInvalidArgument)
	assert.Equal(t, 5.0, e.Modifier(Channel(99))(newSubject(), 5))
}

func TestChannel_Parse(t *testing.T) {
	for _, c := range Channels {
		got, err := ParseChannel(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseChannel("luck")
	assert.ErrorIs(t, err, stats.ErrInvalidArgument)
	assert.Equal(t, Vitality, AbilityChannel(stats.Vitality))
}

func TestChain_OrderMatters(t *testing.T) {
	a := New("a")
	a.ModHpRecovery(add(2))
	b := New("b")
	b.ModHpRecovery(scale(3))

	s := newSubject()
	c := NewChain()
	require.NoError(t, c.Apply(a))
	require.NoError(t, c.Apply(b))
	// b(a(5)) = (5+2)*3
	assert.Equal(t, 21.0, c.Evaluate(HpRecovery, s, 5))

	reversed := NewChain()
	require.NoError(t, reversed.Apply(b))
	require.NoError(t, reversed.Apply(a))
	// a(b(5)) = 5*3+2
	assert.Equal(t, 17.0, reversed.Evaluate(HpRecovery, s, 5))

	require.NoError(t, c.Detach("b"))
	assert.Equal(t, 7.0, c.Evaluate(HpRecovery, s, 5))

	// Other channels stay identity.
	assert.Equal(t, 5.0, c.Evaluate(MpRecovery, s, 5))
}

func TestChain_Lifecycle(t *testing.T) {
	c := NewChain()
	e := New("haste")
	e.ModSpeed(scale(2))
	s := newSubject()

	assert.Equal(t, Detached, c.State("haste"))
	require.NoError(t, c.Attach(e))
	assert.Equal(t, Attached, c.State("haste"))
	assert.Equal(t, 10.0, c.Evaluate(Speed, s, 10), "attached but inactive")

	require.NoError(t, c.Activate("haste"))
	assert.Equal(t, Active, c.State("haste"))
	assert.Equal(t, 20.0, c.Evaluate(Speed, s, 10))

	assert.ErrorIs(t, c.Attach(New("haste")), ErrAlreadyAttached)
	assert.ErrorIs(t, c.Activate("slow"), ErrNotAttached)
	assert.ErrorIs(t, c.Detach("slow"), ErrNotAttached)
	assert.ErrorIs(t, c.Attach(nil), stats.ErrInvalidArgument)

	require.NoError(t, c.Detach("haste"))
	assert.Equal(t, Detached, c.State("haste"))
	assert.Equal(t, 0, c.Len())
}

func TestChain_ActivationKeepsAttachmentOrder(t *testing.T) {
	a := New("a")
	a.ModMagic(add(1))
	b := New("b")
	b.ModMagic(scale(10))

	c := NewChain()
	require.NoError(t, c.Attach(a))
	require.NoError(t, c.Apply(b))
	require.NoError(t, c.Activate("a"))

	// a was attached first, so it runs first even though b became active first.
	assert.Equal(t, 20.0, c.Evaluate(Magic, newSubject(), 1))
	names := []string{}
	for _, e := range c.Active() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestChain_ModifierMayDetach(t *testing.T) {
	c := NewChain()
	once := New("once")
	once.ModHpCost(func(_ Subject, v float64) float64 {
		_ = c.Detach("once")
		return v / 2
	})
	require.NoError(t, c.Apply(once))

	s := newSubject()
	assert.Equal(t, 5.0, c.Evaluate(HpCost, s, 10))
	assert.Equal(t, 10.0, c.Evaluate(HpCost, s, 10))
}

func TestChain_ConcurrentEvaluate(t *testing.T) {
	c := NewChain()
	e := New("steady")
	e.ModSpRecovery(add(1))
	require.NoError(t, c.Apply(e))

	s := newSubject()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.Equal(t, float64(i+1), c.Evaluate(SpRecovery, s, float64(i)))
		}(i)
	}
	wg.Wait()
}
