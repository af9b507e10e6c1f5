package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func addrs(names ...string) []Address {
	out := make([]Address, len(names))
	for i, name := range names {
		out[i] = addr(name)
	}
	return out
}

func TestGraphSetEdges(t *testing.T) {
	g := NewGraph()

	g.SetEdges(addr("C1"), addrs("A1", "B1"))
	assert.Equal(t, addrs("A1", "B1"), g.OutEdges(addr("C1")))

	// replacement drops the old edges entirely
	g.SetEdges(addr("C1"), addrs("B1", "D1"))
	assert.Equal(t, addrs("B1", "D1"), g.OutEdges(addr("C1")))
	assert.Empty(t, g.DependentsOf(addr("A1")))

	// duplicates collapse
	g.SetEdges(addr("C1"), addrs("A1", "A1", "A1"))
	assert.Equal(t, addrs("A1"), g.OutEdges(addr("C1")))

	// clearing
	g.SetEdges(addr("C1"), nil)
	assert.Empty(t, g.OutEdges(addr("C1")))
	assert.Empty(t, g.DependentsOf(addr("A1")))
}

func TestGraphWouldCycle(t *testing.T) {
	g := NewGraph()
	g.SetEdges(addr("B1"), addrs("A1"))
	g.SetEdges(addr("C1"), addrs("B1"))

	assert.True(t, g.WouldCycle(addr("A1"), addrs("A1")), "self reference")
	assert.True(t, g.WouldCycle(addr("A1"), addrs("C1")), "A1 <- B1 <- C1 <- A1")
	assert.True(t, g.WouldCycle(addr("A1"), addrs("B1")))
	assert.False(t, g.WouldCycle(addr("D1"), addrs("C1")))
	assert.False(t, g.WouldCycle(addr("A1"), addrs("D1")))

	// replacing a cell's own edges cannot cycle through the edges
	// being replaced
	assert.False(t, g.WouldCycle(addr("B1"), addrs("D1")))
	assert.False(t, g.WouldCycle(addr("C1"), addrs("A1")))
}

func TestGraphDependentsOf(t *testing.T) {
	g := NewGraph()
	g.SetEdges(addr("B1"), addrs("A1"))
	g.SetEdges(addr("B2"), addrs("A1"))
	g.SetEdges(addr("C1"), addrs("B1", "B2"))

	assert.Equal(t, addrs("B1", "B2", "C1"), g.DependentsOf(addr("A1")))
	assert.Equal(t, addrs("C1"), g.DependentsOf(addr("B2")))
	assert.Empty(t, g.DependentsOf(addr("C1")))
}

func TestTopologicalOrder(t *testing.T) {
	g := NewGraph()
	g.SetEdges(addr("B1"), addrs("A1"))
	g.SetEdges(addr("B2"), addrs("A1"))
	g.SetEdges(addr("C1"), addrs("B1", "B2"))

	order, err := g.TopologicalOrder(addrs("C1", "B2", "A1", "B1"))
	require.NoError(t, err)
	assert.Equal(t, addrs("A1", "B1", "B2", "C1"), order)

	// only edges inside the subset count
	order, err = g.TopologicalOrder(addrs("C1", "B1"))
	require.NoError(t, err)
	assert.Equal(t, addrs("B1", "C1"), order)

	// independent cells come out in ascending address order
	order, err = g.TopologicalOrder(addrs("B2", "A2", "A1", "B1"))
	require.NoError(t, err)
	assert.Equal(t, addrs("A1", "B1", "A2", "B2"), order)
}

func TestTopologicalOrderCycle(t *testing.T) {
	// build a cyclic graph directly; the grid never commits one
	g := NewGraph()
	g.out[addr("A1")] = map[Address]struct{}{addr("B1"): {}}
	g.in[addr("B1")] = map[Address]struct{}{addr("A1"): {}}
	g.out[addr("B1")] = map[Address]struct{}{addr("A1"): {}}
	g.in[addr("A1")] = map[Address]struct{}{addr("B1"): {}}

	_, err := g.TopologicalOrder(addrs("A1", "B1"))
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, addrs("A1", "B1"), cycleErr.Members)
}

func TestTopologicalOrderDeepChain(t *testing.T) {
	// A1 <- A2 <- ... <- A5000. iterative traversals must not blow
	// the stack on chains like this
	g := NewGraph()
	const depth = 5000
	subset := make([]Address, depth)
	subset[0] = Address{Row: 0, Col: 0}
	for i := 1; i < depth; i++ {
		subset[i] = Address{Row: i, Col: 0}
		g.SetEdges(subset[i], []Address{subset[i-1]})
	}

	deps := g.DependentsOf(subset[0])
	assert.Len(t, deps, depth-1)

	order, err := g.TopologicalOrder(subset)
	require.NoError(t, err)
	require.Len(t, order, depth)
	for i, a := range order {
		assert.Equal(t, subset[i], a)
	}

	assert.False(t, g.WouldCycle(subset[0], nil))
	assert.True(t, g.WouldCycle(subset[0], []Address{subset[depth-1]}))
}
