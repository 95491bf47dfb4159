package commander

import "testing"

func TestTaskContainer_AllocateReusesLowestFreedSlot(t *testing.T) {
	c := NewTaskContainer[int]()

	h1 := c.Allocate()
	c.Set(h1, 1)
	h2 := c.Allocate()
	c.Set(h2, 2)
	h3 := c.Allocate()
	c.Set(h3, 3)

	if h1.slot != 0 || h2.slot != 1 || h3.slot != 2 {
		t.Fatalf("slots = %d,%d,%d, want 0,1,2", h1.slot, h2.slot, h3.slot)
	}

	c.Remove(h2)
	c.Remove(h1)

	// slot 0 was freed last but is numerically lowest, so it must be reused
	// first: the free-slot heap reuses low indices before growing.
	h4 := c.Allocate()
	c.Set(h4, 4)
	if h4.slot != 0 {
		t.Fatalf("h4.slot = %d, want 0", h4.slot)
	}

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
}

func TestTaskContainer_StaleHandleIsNotFound(t *testing.T) {
	c := NewTaskContainer[int]()

	h1 := c.Allocate()
	h2 := c.Allocate()
	c.Set(h1, 1)
	c.Set(h2, 2)

	if _, ok := c.Get(h1); !ok {
		t.Fatal("expected h1 to be found")
	}
	if _, ok := c.Get(h2); !ok {
		t.Fatal("expected h2 to be found")
	}

	c.Remove(h1)

	h3 := c.Allocate()
	c.Set(h3, 3)
	if h3.slot != h1.slot {
		t.Fatalf("expected h3 to reuse h1's freed slot %d, got %d", h1.slot, h3.slot)
	}

	if _, ok := c.Get(h1); ok {
		t.Fatal("a stale handle into a recycled slot must report not-found")
	}
	if v, ok := c.Get(h3); !ok || v != 3 {
		t.Fatalf("Get(h3) = (%v, %v), want (3, true)", v, ok)
	}

	// removing an already-stale handle a second time is a no-op.
	c.Remove(h1)
	if v, ok := c.Get(h3); !ok || v != 3 {
		t.Fatalf("a double-remove of a stale handle must not disturb the live slot it once named: Get(h3) = (%v, %v)", v, ok)
	}
}

func TestTaskContainer_AllHandlesSnapshotExcludesRemoved(t *testing.T) {
	c := NewTaskContainer[string]()

	h1 := c.Allocate()
	c.Set(h1, "a")
	h2 := c.Allocate()
	c.Set(h2, "b")
	h3 := c.Allocate()
	c.Set(h3, "c")

	c.Remove(h2)

	all := c.AllHandles()
	if len(all) != 2 {
		t.Fatalf("len(AllHandles()) = %d, want 2", len(all))
	}
	seen := make(map[Handle]bool, len(all))
	for _, h := range all {
		seen[h] = true
	}
	if !seen[h1] || !seen[h3] || seen[h2] {
		t.Fatalf("AllHandles() = %+v, want exactly h1 and h3", all)
	}
}
