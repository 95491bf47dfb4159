package commander

import "container/heap"

// Handle identifies a slot in a [TaskContainer]. It is a value type, safe to
// copy and to use as a map key; it stays valid (as a lookup key) even after
// the slot it names has been recycled, but [TaskContainer.Get] on a stale
// Handle reports "not found" rather than returning the new occupant.
type Handle struct {
	slot       int
	generation uint64
}

// freeSlotHeap is a container/heap min-heap of recycled slot indices, so
// recently-freed low indices are reused before the container ever grows.
type freeSlotHeap []int

func (h freeSlotHeap) Len() int            { return len(h) }
func (h freeSlotHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h freeSlotHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *freeSlotHeap) Push(x any)         { *h = append(*h, x.(int)) }
func (h *freeSlotHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

type taskSlot[T any] struct {
	value      T
	generation uint64
	occupied   bool
}

// TaskContainer is a generation-tagged slot arena: Allocate hands out a
// [Handle] immediately, before any value is stored, so a caller can register
// a handle with other structures (run queues, block callbacks) before the
// task itself is fully constructed. Freed slots are reused via a min-heap,
// keeping live handles densely packed at low indices.
type TaskContainer[T any] struct {
	slots     []taskSlot[T]
	free      freeSlotHeap
	identity  uint64
}

// NewTaskContainer constructs an empty container.
func NewTaskContainer[T any]() *TaskContainer[T] {
	return &TaskContainer[T]{identity: 1}
}

// Allocate reserves a new slot and returns its Handle. The slot holds no
// value until [TaskContainer.Set] is called.
func (c *TaskContainer[T]) Allocate() Handle {
	var slot int
	if len(c.free) > 0 {
		slot = heap.Pop(&c.free).(int)
	} else {
		slot = len(c.slots)
		c.slots = append(c.slots, taskSlot[T]{})
	}
	c.identity++
	gen := c.identity
	c.slots[slot] = taskSlot[T]{generation: gen, occupied: false}
	return Handle{slot: slot, generation: gen}
}

// Set stores a value for a previously-allocated Handle. Setting against a
// stale Handle (one whose slot has since been recycled) is a no-op.
func (c *TaskContainer[T]) Set(h Handle, value T) {
	if h.slot < 0 || h.slot >= len(c.slots) {
		return
	}
	s := &c.slots[h.slot]
	if s.generation != h.generation {
		return
	}
	s.value = value
	s.occupied = true
}

// Get returns the value stored for Handle, and whether it was found.
func (c *TaskContainer[T]) Get(h Handle) (T, bool) {
	if h.slot < 0 || h.slot >= len(c.slots) {
		var zero T
		return zero, false
	}
	s := &c.slots[h.slot]
	if s.generation != h.generation || !s.occupied {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Remove frees the slot named by Handle. Removing a stale or already-removed
// Handle is a no-op.
func (c *TaskContainer[T]) Remove(h Handle) {
	if h.slot < 0 || h.slot >= len(c.slots) {
		return
	}
	s := &c.slots[h.slot]
	if s.generation != h.generation || !s.occupied {
		return
	}
	var zero T
	s.value = zero
	s.occupied = false
	heap.Push(&c.free, h.slot)
}

// AllHandles returns the handles of every currently-occupied slot, in slot
// order. The returned slice is a snapshot, not a live view.
func (c *TaskContainer[T]) AllHandles() []Handle {
	out := make([]Handle, 0, len(c.slots)-len(c.free))
	for i := range c.slots {
		if c.slots[i].occupied {
			out = append(out, Handle{slot: i, generation: c.slots[i].generation})
		}
	}
	return out
}

// Len returns the number of currently-occupied slots.
func (c *TaskContainer[T]) Len() int {
	n := 0
	for i := range c.slots {
		if c.slots[i].occupied {
			n++
		}
	}
	return n
}
