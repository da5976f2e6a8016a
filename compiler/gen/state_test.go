package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "cleaning-up", StateCleaningUp.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "State(42)", State(42).String())
}

func TestStateTransitions(t *testing.T) {
	path := []State{
		StateIdle, StateDiscovering, StateParsing, StateMerging,
		StateEmitting, StateWriting, StateCleaningUp, StateDone,
	}
	for i := 1; i < len(path); i++ {
		assert.True(t, canTransition(path[i-1], path[i]), "%s -> %s", path[i-1], path[i])
	}
	for _, s := range path[:len(path)-1] {
		assert.True(t, canTransition(s, StateFailed), "%s -> failed", s)
		assert.False(t, s.Terminal())
	}

	assert.False(t, canTransition(StateIdle, StateParsing))
	assert.False(t, canTransition(StateWriting, StateMerging))
	assert.False(t, canTransition(StateDone, StateFailed))
	assert.False(t, canTransition(StateFailed, StateDiscovering))
	assert.True(t, canTransition(StateDone, StateIdle))
	assert.True(t, canTransition(StateFailed, StateIdle))
	assert.True(t, StateDone.Terminal())
	assert.True(t, StateFailed.Terminal())
}
