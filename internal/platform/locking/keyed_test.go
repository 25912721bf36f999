package locking

import (
	"sync"
	"testing"
)

func TestSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("p1")
			counter++
			km.Unlock("p1")
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("expected 50, got %d", counter)
	}
}

func TestIndependentKeysDoNotBlock(t *testing.T) {
	km := NewKeyedMutex()
	km.Lock("p1")
	done := make(chan struct{})
	go func() {
		km.Lock("p2")
		km.Unlock("p2")
		close(done)
	}()
	<-done
	km.Unlock("p1")
}

func TestMapStaysBounded(t *testing.T) {
	km := NewKeyedMutex()
	for i := 0; i < 10; i++ {
		km.Lock("k")
		km.Unlock("k")
	}
	if n := len(km.locks); n != 0 {
		t.Fatalf("expected empty lock map, got %d entries", n)
	}
}
