package denylist

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemory_AddContains(t *testing.T) {
	t.Parallel()

	dl := NewMemory()
	ctx := context.Background()

	ok, err := dl.Contains(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Contains error: %v", err)
	}
	if ok {
		t.Fatal("fresh denylist must not contain anything")
	}

	if err := dl.Add(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	ok, err = dl.Contains(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Contains error: %v", err)
	}
	if !ok {
		t.Fatal("expected jti-1 to be revoked")
	}
}

func TestMemory_AddIdempotent(t *testing.T) {
	t.Parallel()

	dl := NewMemory()
	ctx := context.Background()

	if err := dl.Add(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := dl.Add(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("second Add must not error: %v", err)
	}

	ok, _ := dl.Contains(ctx, "jti-1")
	if !ok {
		t.Fatal("jti-1 must stay revoked")
	}
}

func TestMemory_ExpiredEntriesDrop(t *testing.T) {
	t.Parallel()

	dl := NewMemory()
	ctx := context.Background()

	if err := dl.Add(ctx, "jti-1", -time.Second); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	ok, err := dl.Contains(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Contains error: %v", err)
	}
	if ok {
		t.Fatal("entry past its ttl must read as not revoked")
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	dl := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		jti := fmt.Sprintf("jti-%d", i)
		go func() {
			defer wg.Done()
			_ = dl.Add(ctx, jti, time.Hour)
		}()
		go func() {
			defer wg.Done()
			_, _ = dl.Contains(ctx, jti)
		}()
	}
	wg.Wait()

	// No revoke may be lost once all writers are done.
	for i := 0; i < 50; i++ {
		jti := fmt.Sprintf("jti-%d", i)
		ok, err := dl.Contains(ctx, jti)
		if err != nil {
			t.Fatalf("Contains error: %v", err)
		}
		if !ok {
			t.Fatalf("lost revocation for %s", jti)
		}
	}
}
