package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUniqueAndPrefixed(t *testing.T) {
	a := New(PrefixStroke)
	b := New(PrefixStroke)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "stroke_"))
	require.NoError(t, Validate(a, PrefixStroke))
}

func TestValidate(t *testing.T) {
	id := NewBoardID()

	assert.NoError(t, Validate(id, PrefixBoard))
	assert.Error(t, Validate(id, PrefixSnapshot))
	assert.Error(t, Validate("not an id", PrefixBoard))

	p, err := Prefix(NewSnapshotID())
	require.NoError(t, err)
	assert.Equal(t, PrefixSnapshot, p)
}
