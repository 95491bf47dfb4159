package commander

// runnable contains a group of runQueues, one per distinct priority value
// currently in use. Asking it to run a task always diverts to the queue at
// the lowest (= highest-precedence) priority that has anything in it —
// priorities strictly dominate, with no ageing or cross-priority fairness.
//
// Very hot code path: kept deliberately simple and sparse rather than, say,
// a generic priority queue, since priorities are a small dense uint8 range
// in practice.
type runnable struct {
	firstUsed int // -1 means none
	queues    []*runQueue
}

func newRunnable() *runnable {
	return &runnable{firstUsed: -1}
}

func (r *runnable) ensure(index int) {
	for len(r.queues) <= index {
		r.queues = append(r.queues, nil)
	}
	if r.queues[index] == nil {
		r.queues[index] = newRunQueue()
	}
}

// add marks handle runnable, at the priority recorded for it in tasks.
func (r *runnable) add(tasks *TaskContainer[scheduledTask], handle Handle) {
	task, ok := tasks.Get(handle)
	if !ok {
		return
	}
	index := int(task.priority())
	r.ensure(index)
	r.queues[index].add(handle)
	if r.firstUsed < 0 || r.firstUsed > index {
		r.firstUsed = index
	}
}

// remove un-marks handle runnable.
func (r *runnable) remove(tasks *TaskContainer[scheduledTask], handle Handle) {
	task, ok := tasks.Get(handle)
	if !ok {
		return
	}
	index := int(task.priority())
	r.ensure(index)
	q := r.queues[index]
	q.remove(handle)
	if q.empty() {
		r.queues[index] = nil
		// firstUsed only needs recomputing if the queue that just emptied was
		// the one it pointed at; nothing below index was ever non-nil, since
		// firstUsed always tracks the minimum in-use index.
		if r.firstUsed == index {
			r.firstUsed = -1
			for i := index + 1; i < len(r.queues); i++ {
				if r.queues[i] != nil {
					r.firstUsed = i
					break
				}
			}
		}
	}
}

// run advances exactly one task at the highest-precedence non-empty
// priority, and reports whether there was anything to run at all.
func (r *runnable) run(tasks *TaskContainer[scheduledTask], tickIndex uint64) bool {
	if r.firstUsed < 0 {
		return false
	}
	index := r.firstUsed
	q := r.queues[index]
	q.run(tasks, tickIndex)
	if q.empty() {
		// the polled task blocked or finished and was not rotated back: free
		// the cell so firstUsed keeps naming a non-empty queue.
		r.queues[index] = nil
		r.firstUsed = -1
		for i := index + 1; i < len(r.queues); i++ {
			if r.queues[i] != nil {
				r.firstUsed = i
				break
			}
		}
	}
	return true
}
