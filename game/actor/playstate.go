package actor

import (
	"fmt"

	"github.com/rsandor/Solace-sub001/game/stats"
)

// PlayState is what an actor is currently doing.
type PlayState int32

const (
	Standing PlayState = iota
	Sitting
	Resting
	Sleeping
	Fighting
	Dead
)

var playStateNames = [...]string{"standing", "sitting", "resting", "sleeping", "fighting", "dead"}

func (s PlayState) String() string {
	if s >= Standing && s <= Dead {
		return playStateNames[s]
	}
	return fmt.Sprintf("playstate(%d)", int(s))
}

// ParsePlayState resolves a play state by name.
func ParsePlayState(name string) (PlayState, error) {
	for i, n := range playStateNames {
		if n == name {
			return PlayState(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown play state %q", stats.ErrInvalidArgument, name)
}
