package store

import (
	"sync"
	"testing"
	"time"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := newKeyedMutex()

	unlock := km.Lock("local_1_aaaa")

	acquired := make(chan struct{})
	go func() {
		u := km.Lock("local_1_aaaa")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock on same key acquired while first held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock not acquired after unlock")
	}
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := newKeyedMutex()

	unlockA := km.Lock("local_1_aaaa")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		u := km.Lock("local_2_bbbb")
		u()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent key blocked by unrelated lock")
	}
}

func TestKeyedMutex_CleansUpEntries(t *testing.T) {
	km := newKeyedMutex()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := km.Lock("shared")
			u()
		}()
	}
	wg.Wait()

	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.locks) != 0 {
		t.Fatalf("%d lock entries leaked", len(km.locks))
	}
}
