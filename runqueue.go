package commander

import "container/list"

// runQueue is one priority level's FIFO of runnable task handles, with O(1)
// removal via a side index into the backing container/list. Very hot code
// path: kept deliberately simple, no extra bookkeeping beyond what add,
// remove and run need.
type runQueue struct {
	order *list.List
	index map[Handle]*list.Element
}

func newRunQueue() *runQueue {
	return &runQueue{order: list.New(), index: make(map[Handle]*list.Element)}
}

// add appends handle to the back of the queue, unless it's already present.
func (q *runQueue) add(handle Handle) {
	if _, ok := q.index[handle]; ok {
		return
	}
	q.index[handle] = q.order.PushBack(handle)
}

// remove drops handle from the queue, if present.
func (q *runQueue) remove(handle Handle) {
	if e, ok := q.index[handle]; ok {
		q.order.Remove(e)
		delete(q.index, handle)
	}
}

// empty reports whether the queue has nothing left.
func (q *runQueue) empty() bool {
	return q.order.Len() == 0
}

// run pops the frontmost task, polls it, and — unless polling blocked or
// finished it — rotates it to the back of the queue so the next run call
// advances a different task at this priority level.
func (q *runQueue) run(tasks *TaskContainer[scheduledTask], tickIndex uint64) {
	e := q.order.Front()
	if e == nil {
		return
	}
	handle := e.Value.(Handle)
	q.order.Remove(e)
	delete(q.index, handle)

	task, ok := tasks.Get(handle)
	if !ok {
		return
	}
	task.poll(tickIndex)
	if !task.isBlocked() && !task.isDone() {
		q.index[handle] = q.order.PushBack(handle)
	}
}
