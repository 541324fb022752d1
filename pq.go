package gridsearch

import "container/heap"

type priorityItem struct {
	node Node
	key  int
	seq  uint64
}

type priorityQueue []priorityItem

func (queue priorityQueue) Len() int { return len(queue) }
func (queue priorityQueue) Less(i, j int) bool {
	if queue[i].key != queue[j].key {
		return queue[i].key < queue[j].key
	}
	return queue[i].seq < queue[j].seq
}
func (queue priorityQueue) Swap(i, j int) { queue[i], queue[j] = queue[j], queue[i] }

func (queue *priorityQueue) Push(x any) {
	*queue = append(*queue, x.(priorityItem))
}

func (queue *priorityQueue) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	item := oldQueue[n-1]
	*queue = oldQueue[:n-1]
	return item
}

// PriorityFrontier removes the node with the smallest key. Equal keys leave
// in insertion order.
type PriorityFrontier struct {
	queue  priorityQueue
	key    func(Node) int
	seq    uint64
	states stateCounter
}

// NewPriorityFrontier returns an empty frontier ordered by key.
func NewPriorityFrontier(key func(Node) int) *PriorityFrontier {
	return &PriorityFrontier{key: key, states: make(stateCounter)}
}

func (f *PriorityFrontier) Add(node Node) {
	heap.Push(&f.queue, priorityItem{node: node, key: f.key(node), seq: f.seq})
	f.seq++
	f.states.inc(node.State)
}

func (f *PriorityFrontier) Remove() (Node, error) {
	if f.queue.Len() == 0 {
		return Node{}, ErrEmptyFrontier
	}
	item := heap.Pop(&f.queue).(priorityItem)
	f.states.dec(item.node.State)
	return item.node, nil
}

func (f *PriorityFrontier) Empty() bool { return f.queue.Len() == 0 }

func (f *PriorityFrontier) Len() int { return f.queue.Len() }

func (f *PriorityFrontier) ContainsState(state State) bool { return f.states[state] > 0 }
