package main

import (
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Touch("a.JPG")
		time.Sleep(10 * time.Millisecond)
	}
	d.Touch("b.JPG")

	got := map[string]int{}
	deadline := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case p := <-d.Ready:
			got[p]++
		case <-deadline:
			t.Fatalf("timed out, got %v", got)
		}
	}

	select {
	case p := <-d.Ready:
		t.Errorf("extra event for %s", p)
	case <-time.After(200 * time.Millisecond):
	}
	if got["a.JPG"] != 1 || got["b.JPG"] != 1 {
		t.Errorf("events = %v, want one per path", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	d.Touch("a.JPG")
	d.Stop()

	select {
	case p := <-d.Ready:
		t.Errorf("event for %s after Stop", p)
	case <-time.After(100 * time.Millisecond):
	}
}
