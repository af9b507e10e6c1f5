package spreadsheet

import (
	"container/heap"
	"fmt"
)

// CycleError reports that a set of cells could not be ordered because
// their references form a cycle.
type CycleError struct {
	Members []Address
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("reference cycle involving %d cell(s)", len(e.Members))
}

// Graph tracks reference edges between cells. An edge A -> B means
// the formula in A reads B. The graph is kept acyclic: callers probe
// WouldCycle before committing edges. All traversals are iterative so
// deep dependency chains cannot exhaust the stack.
type Graph struct {
	out map[Address]map[Address]struct{} // cell -> cells its formula reads
	in  map[Address]map[Address]struct{} // cell -> cells whose formulas read it
}

// NewGraph creates an empty dependency graph.
func NewGraph() *Graph {
	return &Graph{
		out: make(map[Address]map[Address]struct{}),
		in:  make(map[Address]map[Address]struct{}),
	}
}

// SetEdges replaces the outgoing edges of from with edges to each
// address in to. Duplicates collapse to one edge. A nil or empty to
// clears the cell's outgoing edges (a literal or cleared cell reads
// nothing). Incoming edges of from are untouched: other formulas may
// still read it.
func (g *Graph) SetEdges(from Address, to []Address) {
	for old := range g.out[from] {
		delete(g.in[old], from)
		if len(g.in[old]) == 0 {
			delete(g.in, old)
		}
	}
	delete(g.out, from)

	if len(to) == 0 {
		return
	}

	edges := make(map[Address]struct{}, len(to))
	for _, target := range to {
		edges[target] = struct{}{}
		if g.in[target] == nil {
			g.in[target] = make(map[Address]struct{})
		}
		g.in[target][from] = struct{}{}
	}
	g.out[from] = edges
}

// OutEdges returns the addresses the formula in from reads, ascending.
func (g *Graph) OutEdges(from Address) []Address {
	edges := g.out[from]
	if len(edges) == 0 {
		return nil
	}
	out := make([]Address, 0, len(edges))
	for addr := range edges {
		out = append(out, addr)
	}
	sortAddresses(out)
	return out
}

// WouldCycle reports whether replacing the outgoing edges of from with
// the given targets would create a cycle. The probe walks existing
// edges from each target looking for a path back to from; the graph
// itself is not modified. A self-reference is the degenerate cycle.
func (g *Graph) WouldCycle(from Address, to []Address) bool {
	visited := make(map[Address]struct{})
	stack := make([]Address, 0, len(to))

	for _, target := range to {
		if target == from {
			return true
		}
		if _, seen := visited[target]; !seen {
			visited[target] = struct{}{}
			stack = append(stack, target)
		}
	}

	// the new edges replace from's old ones, so paths through from's
	// current outgoing edges do not count
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for next := range g.out[node] {
			if next == from {
				return true
			}
			if _, seen := visited[next]; !seen {
				visited[next] = struct{}{}
				stack = append(stack, next)
			}
		}
	}

	return false
}

// DependentsOf returns every cell whose value transitively depends on
// addr, excluding addr itself, in ascending address order.
func (g *Graph) DependentsOf(addr Address) []Address {
	visited := map[Address]struct{}{addr: {}}
	stack := []Address{addr}
	var out []Address

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for reader := range g.in[node] {
			if _, seen := visited[reader]; !seen {
				visited[reader] = struct{}{}
				out = append(out, reader)
				stack = append(stack, reader)
			}
		}
	}

	sortAddresses(out)
	return out
}

// TopologicalOrder orders the given cells so every cell comes after
// all cells it reads, considering only edges between members of the
// set. Ties are broken by ascending address, which makes the order
// fully deterministic. Returns a CycleError if the subset is not a
// DAG; a committed graph never is, so that indicates a caller bug.
func (g *Graph) TopologicalOrder(subset []Address) ([]Address, error) {
	members := make(map[Address]struct{}, len(subset))
	for _, addr := range subset {
		members[addr] = struct{}{}
	}

	// remaining in-subset reads per cell. a cell is ready once every
	// cell it reads has been ordered
	pending := make(map[Address]int, len(members))
	for addr := range members {
		count := 0
		for target := range g.out[addr] {
			if _, ok := members[target]; ok {
				count++
			}
		}
		pending[addr] = count
	}

	ready := &addrHeap{}
	for addr, count := range pending {
		if count == 0 {
			*ready = append(*ready, addr)
		}
	}
	heap.Init(ready)

	order := make([]Address, 0, len(members))
	for ready.Len() > 0 {
		addr := heap.Pop(ready).(Address)
		order = append(order, addr)

		for reader := range g.in[addr] {
			if _, ok := members[reader]; !ok {
				continue
			}
			pending[reader]--
			if pending[reader] == 0 {
				heap.Push(ready, reader)
			}
		}
	}

	if len(order) != len(members) {
		var stuck []Address
		for addr, count := range pending {
			if count > 0 {
				stuck = append(stuck, addr)
			}
		}
		sortAddresses(stuck)
		return nil, &CycleError{Members: stuck}
	}

	return order, nil
}

// addrHeap is a min-heap of addresses ordered row-major ascending.
type addrHeap []Address

func (h addrHeap) Len() int           { return len(h) }
func (h addrHeap) Less(i, j int) bool { return h[i].Less(h[j]) }
func (h addrHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *addrHeap) Push(x any) { *h = append(*h, x.(Address)) }

func (h *addrHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
