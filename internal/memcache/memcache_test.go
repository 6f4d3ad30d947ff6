package memcache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New[string](0, 0, 0, nil)
	defer c.Stop()

	c.Set("a", "alpha", 5)
	v, ok := c.Get("a")
	if !ok || v != "alpha" {
		t.Fatalf("Get(a) = %q, %v; want alpha, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}
	if got := c.Weight(); got != 5 {
		t.Errorf("Weight() = %d, want 5", got)
	}
	if got := c.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestReplaceEvictsOldValue(t *testing.T) {
	var evicted []string
	c := New[string](0, 0, 0, func(key, value string) {
		evicted = append(evicted, value)
	})
	defer c.Stop()

	c.Set("a", "old", 3)
	c.Set("a", "new", 7)

	v, _ := c.Get("a")
	if v != "new" {
		t.Errorf("Get(a) = %q, want new", v)
	}
	if c.Weight() != 7 {
		t.Errorf("Weight() = %d, want 7", c.Weight())
	}
	if len(evicted) != 1 || evicted[0] != "old" {
		t.Errorf("evicted = %v, want [old]", evicted)
	}
}

func TestWeightEvictionOldestIdleFirst(t *testing.T) {
	var mu sync.Mutex
	evicted := make(map[string]int)
	c := New[int](10, 0, 0, func(key string, value int) {
		mu.Lock()
		evicted[key]++
		mu.Unlock()
	})
	defer c.Stop()

	c.Set("a", 1, 4)
	c.Set("b", 2, 4)

	// Touch a so b becomes the oldest-idle entry.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be cached")
	}

	c.Set("c", 3, 4)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted as oldest-idle")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently accessed a should survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newly inserted c should survive eviction")
	}

	mu.Lock()
	defer mu.Unlock()
	if evicted["b"] != 1 {
		t.Errorf("eviction callback for b fired %d times, want 1", evicted["b"])
	}
	if len(evicted) != 1 {
		t.Errorf("unexpected evictions: %v", evicted)
	}
}

func TestSlidingExpiration(t *testing.T) {
	c := New[int](0, 100*time.Millisecond, 0, nil)
	defer c.Stop()

	c.Set("a", 1, 1)

	// Each access inside the window slides the expiration forward.
	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should still be cached after 60ms")
	}
	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should still be cached after access slid the window")
	}

	time.Sleep(150 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired after the idle window elapsed")
	}
}

func TestFlushFiresEvictOnce(t *testing.T) {
	var mu sync.Mutex
	evicted := make(map[string]int)
	c := New[int](0, 0, 0, func(key string, value int) {
		mu.Lock()
		evicted[key]++
		mu.Unlock()
	})
	defer c.Stop()

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i, 1)
	}
	c.Flush()

	if c.Len() != 0 {
		t.Errorf("Len() after Flush = %d, want 0", c.Len())
	}
	mu.Lock()
	defer mu.Unlock()
	for k, n := range evicted {
		if n != 1 {
			t.Errorf("eviction for %s fired %d times, want 1", k, n)
		}
	}
	if len(evicted) != 5 {
		t.Errorf("expected 5 evictions, got %d", len(evicted))
	}
}

func TestCompactRemovesExpired(t *testing.T) {
	c := New[int](0, 30*time.Millisecond, 0, nil)
	defer c.Stop()

	c.Set("a", 1, 1)
	c.Set("b", 2, 1)
	time.Sleep(50 * time.Millisecond)

	c.Compact()
	if c.Len() != 0 {
		t.Errorf("Len() after Compact = %d, want 0", c.Len())
	}
}

func TestEvictCallbackPanicSwallowed(t *testing.T) {
	c := New[int](0, 0, 0, func(key string, value int) {
		panic("callback boom")
	})
	defer c.Stop()

	c.Set("a", 1, 1)
	// Must not propagate the panic.
	c.Delete("a")

	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int](100, time.Minute, 0, nil)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", j%20)
				c.Set(key, n, 2)
				c.Get(key)
				if j%50 == 0 {
					c.Compact()
				}
			}
		}(i)
	}
	wg.Wait()

	if w := c.Weight(); w > 100 {
		t.Errorf("Weight() = %d, exceeds limit 100", w)
	}
}
