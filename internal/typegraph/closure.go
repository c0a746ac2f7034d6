package typegraph

import (
	"sort"

	"github.com/reoring/tsgen/schema"
)

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// computeClosures fills Leaves for every supertype: the transitive set of
// concrete nodes reachable over subtype edges. Nested supertypes
// contribute their own closure, never themselves. Completed closures are
// memoized so shared subtrees are walked once; a node revisited while
// still on the walk stack is a cycle and aborts the build.
func (g *Graph) computeClosures() error {
	states := make(map[int]visitState, len(g.nodes))
	memo := make(map[int][]int, len(g.nodes))
	var stack []int

	var visit func(id int) ([]int, error)
	visit = func(id int) ([]int, error) {
		switch states[id] {
		case stateVisiting:
			return nil, g.cycleError(stack, id)
		case stateDone:
			return memo[id], nil
		}

		states[id] = stateVisiting
		stack = append(stack, id)

		seen := make(map[int]struct{})
		var leaves []int
		for _, sub := range g.nodes[id].Subtypes {
			if g.nodes[sub].Kind != schema.KindSupertype {
				if _, dup := seen[sub]; !dup {
					seen[sub] = struct{}{}
					leaves = append(leaves, sub)
				}
				continue
			}
			nested, err := visit(sub)
			if err != nil {
				return nil, err
			}
			for _, leaf := range nested {
				if _, dup := seen[leaf]; !dup {
					seen[leaf] = struct{}{}
					leaves = append(leaves, leaf)
				}
			}
		}
		sort.Ints(leaves)

		stack = stack[:len(stack)-1]
		states[id] = stateDone
		memo[id] = leaves
		return leaves, nil
	}

	for i := range g.nodes {
		if g.nodes[i].Kind != schema.KindSupertype {
			continue
		}
		leaves, err := visit(i)
		if err != nil {
			return err
		}
		g.nodes[i].Leaves = leaves
	}
	return nil
}

// cycleError reports the cycle closing at id: the stack suffix from the
// first visit of id, with id repeated at the end.
func (g *Graph) cycleError(stack []int, id int) error {
	start := 0
	for i, v := range stack {
		if v == id {
			start = i
			break
		}
	}
	path := make([]int, 0, len(stack)-start+1)
	path = append(path, stack[start:]...)
	path = append(path, id)

	refs := make([]schema.TypeRef, 0, len(path))
	for _, v := range path {
		refs = append(refs, g.nodes[v].Ref)
	}
	return &CycleError{Path: refs}
}
