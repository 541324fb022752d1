package gridsearch

// Frontier holds discovered nodes awaiting expansion. Removal order is
// decided by the implementation. Duplicate states are allowed.
type Frontier interface {
	Add(node Node)
	Remove() (Node, error)
	Empty() bool
	Len() int
	ContainsState(state State) bool
}

// stateCounter tracks how many frontier entries hold each state.
type stateCounter map[State]int

func (c stateCounter) inc(s State) { c[s]++ }

func (c stateCounter) dec(s State) {
	if c[s] <= 1 {
		delete(c, s)
		return
	}
	c[s]--
}

// StackFrontier removes the most recently added node (depth-first).
type StackFrontier struct {
	nodes  []Node
	states stateCounter
}

// NewStackFrontier returns an empty LIFO frontier.
func NewStackFrontier() *StackFrontier {
	return &StackFrontier{states: make(stateCounter)}
}

func (f *StackFrontier) Add(node Node) {
	f.nodes = append(f.nodes, node)
	f.states.inc(node.State)
}

func (f *StackFrontier) Remove() (Node, error) {
	if len(f.nodes) == 0 {
		return Node{}, ErrEmptyFrontier
	}
	last := len(f.nodes) - 1
	node := f.nodes[last]
	f.nodes = f.nodes[:last]
	f.states.dec(node.State)
	return node, nil
}

func (f *StackFrontier) Empty() bool { return len(f.nodes) == 0 }

func (f *StackFrontier) Len() int { return len(f.nodes) }

func (f *StackFrontier) ContainsState(state State) bool { return f.states[state] > 0 }

// QueueFrontier removes the least recently added node (breadth-first).
type QueueFrontier struct {
	nodes  []Node
	head   int
	states stateCounter
}

// NewQueueFrontier returns an empty FIFO frontier.
func NewQueueFrontier() *QueueFrontier {
	return &QueueFrontier{states: make(stateCounter)}
}

func (f *QueueFrontier) Add(node Node) {
	f.nodes = append(f.nodes, node)
	f.states.inc(node.State)
}

func (f *QueueFrontier) Remove() (Node, error) {
	if f.Empty() {
		return Node{}, ErrEmptyFrontier
	}
	node := f.nodes[f.head]
	f.head++
	// drop the consumed prefix once it dominates the backing array
	if f.head > 32 && f.head*2 >= len(f.nodes) {
		f.nodes = append([]Node(nil), f.nodes[f.head:]...)
		f.head = 0
	}
	f.states.dec(node.State)
	return node, nil
}

func (f *QueueFrontier) Empty() bool { return f.head >= len(f.nodes) }

func (f *QueueFrontier) Len() int { return len(f.nodes) - f.head }

func (f *QueueFrontier) ContainsState(state State) bool { return f.states[state] > 0 }

// frontierStates lists the states currently held by f, in no particular order.
func frontierStates(f Frontier) []State {
	var counts stateCounter
	switch ft := f.(type) {
	case *StackFrontier:
		counts = ft.states
	case *QueueFrontier:
		counts = ft.states
	case *PriorityFrontier:
		counts = ft.states
	default:
		return nil
	}
	out := make([]State, 0, len(counts))
	for s := range counts {
		out = append(out, s)
	}
	return out
}
