package lock

import (
	"context"
	"errors"
	"testing"

	"github.com/funnelpulse/lead-engine-api/internal/common"
)

func TestMemoryLockerAcquireAndRelease(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "camp1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := locker.Acquire(ctx, "camp1"); !errors.Is(err, common.ErrCampaignLocked) {
		t.Errorf("second acquire err = %v, want ErrCampaignLocked", err)
	}

	release()

	release2, err := locker.Acquire(ctx, "camp1")
	if err != nil {
		t.Errorf("acquire after release err = %v, want nil", err)
	}
	release2()
}

func TestMemoryLockerIsolatesCampaigns(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	r1, err := locker.Acquire(ctx, "camp1")
	if err != nil {
		t.Fatal(err)
	}
	defer r1()

	r2, err := locker.Acquire(ctx, "camp2")
	if err != nil {
		t.Errorf("acquire on another campaign err = %v, want nil", err)
	}
	if r2 != nil {
		r2()
	}
}

func TestMemoryLockerReleaseIdempotent(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "camp1")
	if err != nil {
		t.Fatal(err)
	}

	release()
	release()

	if _, err := locker.Acquire(ctx, "camp1"); err != nil {
		t.Errorf("acquire after double release err = %v, want nil", err)
	}
}
