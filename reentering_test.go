package commander

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingIntegration struct {
	now    float64
	sleeps []SleepQuantity
}

func (r *recordingIntegration) CurrentTime() float64 { return r.now }

func (r *recordingIntegration) Sleep(q SleepQuantity) {
	r.sleeps = append(r.sleeps, q)
}

func TestReenteringIntegration_Reentry(t *testing.T) {
	ti := &recordingIntegration{}
	integ := newReenteringIntegration(ti)

	integ.Sleep(SleepQuantity{Kind: SleepTime, Seconds: 1})
	integ.CauseReentry() // one-shot, forwards SleepYesterday
	integ.Sleep(SleepQuantity{Kind: SleepTime, Seconds: 2}) // suppressed
	integ.Reentering()                                      // called by executor at tick start
	integ.Sleep(SleepQuantity{Kind: SleepTime, Seconds: 3})

	want := []SleepQuantity{
		{Kind: SleepTime, Seconds: 1},
		{Kind: SleepYesterday},
		{Kind: SleepTime, Seconds: 3},
	}
	require.Equal(t, want, ti.sleeps)
}

func TestReenteringIntegration_DedupAndForceNoDelay(t *testing.T) {
	ti := &recordingIntegration{}
	integ := newReenteringIntegration(ti)

	integ.Sleep(SleepQuantity{Kind: SleepNone})
	integ.Sleep(SleepQuantity{Kind: SleepTime, Seconds: 1})
	integ.CauseReentry()
	integ.Sleep(SleepQuantity{Kind: SleepTime, Seconds: 2}) // ignored: still pending
	integ.Sleep(SleepQuantity{Kind: SleepForever})          // ignored
	integ.Sleep(SleepQuantity{Kind: SleepNone})              // ignored
	integ.Reentering()
	integ.Sleep(SleepQuantity{Kind: SleepTime, Seconds: 3})
	integ.Sleep(SleepQuantity{Kind: SleepNone})
	integ.CauseReentry() // fires again: the Reentering call above cleared the latch
	integ.Reentering()
	integ.Sleep(SleepQuantity{Kind: SleepForever})

	want := []SleepQuantity{
		{Kind: SleepNone},
		{Kind: SleepTime, Seconds: 1},
		{Kind: SleepYesterday},
		{Kind: SleepTime, Seconds: 3},
		{Kind: SleepNone},
		{Kind: SleepYesterday},
		{Kind: SleepForever},
	}
	require.Equal(t, want, ti.sleeps)
}

func TestSleepCatcherIntegration_DedupsConsecutiveIdentical(t *testing.T) {
	ti := &recordingIntegration{}
	sc := newSleepCatcherIntegration(ti)

	sc.sleep(SleepQuantity{Kind: SleepTime, Seconds: 1})
	sc.sleep(SleepQuantity{Kind: SleepTime, Seconds: 1}) // dup, suppressed
	sc.sleep(SleepQuantity{Kind: SleepForever})

	want := []SleepQuantity{
		{Kind: SleepTime, Seconds: 1},
		{Kind: SleepForever},
	}
	require.Equal(t, want, ti.sleeps)
}
