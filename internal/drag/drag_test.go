package drag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inamate/whiteboard/internal/geom"
)

func TestIdleTrackerIgnoresMoves(t *testing.T) {
	var tr Tracker
	tr.To(geom.V(5, 5))
	tr.Pause()

	assert.False(t, tr.Active())
	assert.False(t, tr.Paused())
	assert.Equal(t, State{}, tr.State())
}

func TestOffsetFollowsEnd(t *testing.T) {
	var tr Tracker
	tr.Begin(geom.V(100, 100))
	tr.To(geom.V(40, 70))

	assert.True(t, tr.Active())
	assert.Equal(t, geom.V(-60, -30), tr.Offset())
	assert.Equal(t, geom.V(100, 100), tr.Origin())
}

func TestPauseFreezesOffset(t *testing.T) {
	var tr Tracker
	tr.Begin(geom.V(0, 0))
	tr.To(geom.V(10, 10))
	tr.Pause()
	tr.To(geom.V(50, 50))

	assert.Equal(t, geom.V(10, 10), tr.Offset())

	tr.Unpause()
	tr.To(geom.V(20, 0))
	assert.Equal(t, geom.V(20, 0), tr.Offset())
}

func TestStopResets(t *testing.T) {
	var tr Tracker
	tr.Begin(geom.V(3, 4))
	tr.To(geom.V(9, 9))
	tr.Stop()

	assert.Equal(t, State{}, tr.State())
	assert.False(t, tr.Active())
}
