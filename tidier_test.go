package commander

import "testing"

// These three scenarios are the direct translation of the tidier-future
// smoke tests: a tidier's cleanup future must run exactly once, whether or
// not it is ever awaited directly, and concurrently-pending tidiers must
// each complete independently and in their own right order.

func TestTidier_RunsOnNaturalCompletionEvenWithoutBeingAwaited(t *testing.T) {
	x := New(&recordingIntegration{})
	cfg := NewRunConfig(WithPriority(3))
	agent := x.NewAgent(cfg, "test")

	tidied := false
	body := func(y *Yielder) struct{} {
		agent.Tidy(FuncFuture(func(Waker) (struct{}, bool) {
			tidied = true
			return struct{}{}, true
		}))
		Await(y, agent.Tick(1))
		return struct{}{}
	}
	handle := Add(x, Spawn(body), agent)

	if handle.State().Outcome != Ongoing {
		t.Fatalf("expected Ongoing immediately after Add, got %v", handle.State().Outcome)
	}

	x.Tick(1)
	if tidied {
		t.Fatal("tidier must not run before the task's body completes")
	}

	x.Tick(2)
	if !tidied {
		t.Fatal("tidier must run once the task naturally completes, even though it was never awaited directly")
	}
}

func TestTidier_AwaitedDirectlyRunsOnlyOnce(t *testing.T) {
	x := New(&recordingIntegration{})
	cfg := NewRunConfig(WithPriority(3))
	agent := x.NewAgent(cfg, "test")

	runs := 0
	body := func(y *Yielder) struct{} {
		tidier := agent.Tidy(FuncFuture(func(Waker) (struct{}, bool) {
			runs++
			return struct{}{}, true
		}))
		Await(y, agent.Tick(1))
		Await[struct{}](y, tidier)
		Await(y, agent.Tick(1))
		return struct{}{}
	}
	handle := Add(x, Spawn(body), agent)

	if handle.State().Outcome != Ongoing {
		t.Fatalf("expected Ongoing immediately after Add, got %v", handle.State().Outcome)
	}

	x.Tick(1)
	if runs != 0 {
		t.Fatalf("runs = %d, want 0 before the tidier is awaited", runs)
	}

	x.Tick(2)
	if runs != 1 {
		t.Fatalf("runs = %d, want 1 after the tidier is awaited", runs)
	}

	x.Tick(3)
	if runs != 1 {
		t.Fatalf("runs = %d, want 1: a Tidier must be idempotent once finished", runs)
	}
}

func TestTidier_MultipleDrainMostRecentFirstOnFinish(t *testing.T) {
	x := New(&recordingIntegration{})
	cfg := NewRunConfig(WithPriority(3))
	agent := x.NewAgent(cfg, "test")

	tidied := 0
	body := func(y *Yielder) struct{} {
		agent.Tidy(FuncFuture(func(Waker) (struct{}, bool) {
			tidied += 1
			return struct{}{}, true
		}))
		u := agent.Tidy(FuncFuture(func(Waker) (struct{}, bool) {
			tidied += 2
			return struct{}{}, true
		}))
		agent.Tidy(FuncFuture(func(Waker) (struct{}, bool) {
			tidied *= 4
			return struct{}{}, true
		}))
		Await(y, agent.Tick(1))
		Await[struct{}](y, u)
		Await(y, agent.Tick(1))
		return struct{}{}
	}
	handle := Add(x, Spawn(body), agent)

	if handle.State().Outcome != Ongoing {
		t.Fatalf("expected Ongoing immediately after Add, got %v", handle.State().Outcome)
	}

	x.Tick(1)
	if tidied != 0 {
		t.Fatalf("tidied = %d, want 0", tidied)
	}

	x.Tick(2)
	if tidied != 2 {
		t.Fatalf("tidied = %d, want 2 (only the directly-awaited tidier has run)", tidied)
	}

	x.Tick(3)
	// on natural completion the remaining tidiers drain most recently created
	// first: the third (*4), then the first (+1), so (2*4)+1 = 9, not (2+1)*4 = 12.
	if tidied != 9 {
		t.Fatalf("tidied = %d, want 9", tidied)
	}
}
