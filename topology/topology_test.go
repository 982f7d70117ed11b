package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLink(t *testing.T) {
	s := NewStore()
	s.AddNode("a", nil)
	s.AddNode("b", nil)

	require.NoError(t, s.AddLink("a", "b", 10, 2))

	forward, ok := s.Link("a", "b")
	require.True(t, ok)
	reverse, ok := s.Link("b", "a")
	require.True(t, ok)

	assert.Equal(t, 0.0, forward.Used)
	assert.Equal(t, 0.0, reverse.Used)
	assert.True(t, forward.Active)
	assert.True(t, reverse.Active)
	assert.Equal(t, 2.0, forward.Weight)
	assert.Equal(t, 1, s.LinkPairCount())

	// utilization is tracked per direction
	forward.Used = 5
	assert.Equal(t, 0.5, forward.Utilization())
	assert.Equal(t, 0.0, reverse.Utilization())
}

func TestAddLinkMissingEndpoint(t *testing.T) {
	s := NewStore()
	s.AddNode("a", nil)
	assert.Error(t, s.AddLink("a", "b", 10, 1))
	assert.Error(t, s.AddLink("b", "a", 10, 1))
	assert.Equal(t, 0, s.LinkPairCount())
}

func TestAddLinkDuplicate(t *testing.T) {
	s := NewStore()
	s.AddNode("a", nil)
	s.AddNode("b", nil)
	require.NoError(t, s.AddLink("a", "b", 10, 1))
	assert.Error(t, s.AddLink("a", "b", 10, 1))
	assert.Error(t, s.AddLink("b", "a", 10, 1))
}

func TestRemoveLink(t *testing.T) {
	s := NewStore()
	s.AddNode("a", nil)
	s.AddNode("b", nil)
	require.NoError(t, s.AddLink("a", "b", 10, 1))

	forward, reverse, err := s.RemoveLink("a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a", forward.Src)
	assert.Equal(t, "a", reverse.Dst)

	_, ok := s.Link("a", "b")
	assert.False(t, ok)
	_, ok = s.Link("b", "a")
	assert.False(t, ok)

	_, _, err = s.RemoveLink("a", "b")
	assert.Error(t, err)
}

func TestRemoveNode(t *testing.T) {
	s := NewStore()
	for _, n := range []string{"a", "b", "c"} {
		s.AddNode(n, nil)
	}
	require.NoError(t, s.AddLink("a", "b", 10, 1))
	require.NoError(t, s.AddLink("b", "c", 10, 1))

	require.NoError(t, s.RemoveNode("b"))
	assert.False(t, s.HasNode("b"))
	assert.Equal(t, 0, s.LinkPairCount())
	_, ok := s.Link("a", "b")
	assert.False(t, ok)
	_, ok = s.Link("c", "b")
	assert.False(t, ok)

	assert.Error(t, s.RemoveNode("b"))
}

func TestActiveView(t *testing.T) {
	s := NewStore()
	for _, n := range []string{"a", "b", "c"} {
		s.AddNode(n, nil)
	}
	require.NoError(t, s.AddLink("a", "b", 10, 1))
	require.NoError(t, s.AddLink("b", "c", 10, 1))

	view := s.ActiveView()
	assert.True(t, view.HasNode("a"))
	_, exists := view.Adjacency["a"]["b"]
	assert.True(t, exists)

	// failed links disappear from the view in both directions
	forward, _ := s.Link("a", "b")
	reverse, _ := s.Link("b", "a")
	forward.Active = false
	reverse.Active = false

	view = s.ActiveView()
	_, exists = view.Adjacency["a"]["b"]
	assert.False(t, exists)
	_, exists = view.Adjacency["b"]["a"]
	assert.False(t, exists)
	// node stays visible even with no active links
	assert.True(t, view.HasNode("a"))
}
