package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	t.Parallel()

	m := NewInMemory()

	m.IncLinkCreated()
	m.IncLinkCreated()
	m.IncClickRecorded()
	m.IncClickLost()
	m.IncLoginFailed()
	m.ObserveRedirectDuration(10 * time.Millisecond)

	snap := m.Snapshot()

	if snap.LinksCreated != 2 {
		t.Errorf("expected 2 links created, got %d", snap.LinksCreated)
	}
	if snap.ClicksRecorded != 1 {
		t.Errorf("expected 1 click recorded, got %d", snap.ClicksRecorded)
	}
	if snap.ClicksLost != 1 {
		t.Errorf("expected 1 click lost, got %d", snap.ClicksLost)
	}
	if snap.LoginsFailed != 1 {
		t.Errorf("expected 1 login failed, got %d", snap.LoginsFailed)
	}
	if snap.RedirectDurationCount != 1 {
		t.Errorf("expected 1 duration observation, got %d", snap.RedirectDurationCount)
	}
	if snap.RedirectDurationTotalNs != (10 * time.Millisecond).Nanoseconds() {
		t.Errorf("unexpected duration total: %d", snap.RedirectDurationTotalNs)
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncClickRecorded()
		}()
	}
	wg.Wait()

	if got := m.Snapshot().ClicksRecorded; got != 50 {
		t.Errorf("expected 50 clicks recorded, got %d", got)
	}
}
