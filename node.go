package gridsearch

import "github.com/pdrpinto/gridsearch/internal"

// NoParent marks the root node of a search tree.
const NoParent = -1

// Node is an immutable search tree record. Parent is an index into the
// run's node arena, or NoParent for the start node.
type Node struct {
	ID     int
	Parent int
	State  State
	Action Action
	G      int
	H      int
}

// F returns G + H.
func (n Node) F() int { return n.G + n.H }

// arena owns every node created during one run. Nodes are appended once and
// never modified, so parent indexes stay valid for the arena's lifetime.
type arena struct {
	nodes []Node
}

func (a *arena) add(parent int, state State, action Action, g, h int) Node {
	n := Node{ID: len(a.nodes), Parent: parent, State: state, Action: action, G: g, H: h}
	a.nodes = append(a.nodes, n)
	return n
}

func (a *arena) len() int { return len(a.nodes) }

// path rebuilds the start-to-goal states and actions ending at node id.
// actions[i] is the move into states[i+1].
func (a *arena) path(id int) ([]State, []Action) {
	chain := internal.WalkParents(id, func(i int) int { return a.nodes[i].Parent })
	states := make([]State, len(chain))
	actions := make([]Action, 0, len(chain)-1)
	for i, idx := range chain {
		n := a.nodes[idx]
		states[i] = n.State
		if n.Parent != NoParent {
			actions = append(actions, n.Action)
		}
	}
	return states, actions
}
