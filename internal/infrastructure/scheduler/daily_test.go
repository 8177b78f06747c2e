package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestStartFiresImmediately(t *testing.T) {
	t.Parallel()

	fired := make(chan time.Time, 4)
	s := NewDailyScheduler(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx, func(now time.Time) { fired <- now }); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not fire on start")
	}
}

func TestStartTicks(t *testing.T) {
	t.Parallel()

	fired := make(chan time.Time, 16)
	s := NewDailyScheduler(10 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx, func(now time.Time) { fired <- now }); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer s.Stop(context.Background())

	// Immediate run plus at least one tick.
	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d runs observed", i)
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewDailyScheduler(time.Hour)
	if err := s.Start(context.Background(), func(time.Time) {}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop returned error: %v", err)
	}
}

func TestNilJobIsNoop(t *testing.T) {
	t.Parallel()

	s := NewDailyScheduler(time.Hour)
	if err := s.Start(context.Background(), nil); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
}
