package cache

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.Set("key", "value", time.Minute)

	got, found := c.Get("key")
	if !found {
		t.Fatal("Get miss for a freshly set key")
	}
	if got != "value" {
		t.Errorf("Get = %v, want value", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	if _, found := c.Get("absent"); found {
		t.Error("Get hit for a key that was never set")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.Set("key", "value", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, found := c.Get("key"); found {
		t.Error("Get hit for an expired key")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.Set("key", "value", time.Minute)
	c.Delete("key")

	if _, found := c.Get("key"); found {
		t.Error("Get hit after Delete")
	}
}

func TestCacheDeleteExpired(t *testing.T) {
	c := New(time.Hour)
	defer c.Stop()

	c.Set("stale", 1, time.Millisecond)
	c.Set("fresh", 2, time.Minute)
	time.Sleep(5 * time.Millisecond)

	c.DeleteExpired()

	if _, found := c.Get("stale"); found {
		t.Error("expired item survived DeleteExpired")
	}
	if _, found := c.Get("fresh"); !found {
		t.Error("live item removed by DeleteExpired")
	}
}
