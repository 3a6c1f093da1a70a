package resilience

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

var errSink = errors.New("sink down")

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(maxFailures, probes int) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_600_000_000, 0)}
	b := New(Config{
		Name:        "test",
		MaxFailures: maxFailures,
		Cooldown:    time.Minute,
		Probes:      probes,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:         clock.now,
	})
	return b, clock
}

func fail(context.Context) error { return errSink }
func ok(context.Context) error   { return nil }

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	b := New(Config{})
	if b.maxFailures != 5 || b.cooldown != 30*time.Second || b.probes != 3 {
		t.Errorf("defaults = (%d, %v, %d), want (5, 30s, 3)", b.maxFailures, b.cooldown, b.probes)
	}
	if b.State() != Closed {
		t.Errorf("initial state = %v, want closed", b.State())
	}
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()
	b, _ := newTestBreaker(3, 1)
	ctx := context.Background()

	for range 2 {
		_ = b.Do(ctx, fail)
	}
	_ = b.Do(ctx, ok)
	for range 2 {
		_ = b.Do(ctx, fail)
	}
	if b.State() != Closed {
		t.Fatalf("a success must reset the failure run, state = %v", b.State())
	}

	_ = b.Do(ctx, fail)
	if b.State() != Open {
		t.Fatalf("state = %v, want open", b.State())
	}
	called := false
	err := b.Do(ctx, func(context.Context) error { called = true; return nil })
	if !errors.Is(err, ErrOpen) || called {
		t.Errorf("Do while open = %v (called %v), want ErrOpen without calling", err, called)
	}
}

func TestBreaker_ProbesThenCloses(t *testing.T) {
	t.Parallel()
	b, clock := newTestBreaker(1, 2)
	ctx := context.Background()

	_ = b.Do(ctx, fail)
	clock.advance(59 * time.Second)
	if b.State() != Open {
		t.Fatalf("state = %v before cooldown, want open", b.State())
	}
	clock.advance(time.Second)
	if b.State() != Probing {
		t.Fatalf("state = %v after cooldown, want probing", b.State())
	}

	if err := b.Do(ctx, ok); err != nil {
		t.Fatalf("first probe: %v", err)
	}
	if b.State() != Probing {
		t.Fatalf("state = %v after one probe, want probing", b.State())
	}
	if err := b.Do(ctx, ok); err != nil {
		t.Fatalf("second probe: %v", err)
	}
	if b.State() != Closed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestBreaker_ProbeFailureReopens(t *testing.T) {
	t.Parallel()
	b, clock := newTestBreaker(1, 3)
	ctx := context.Background()

	_ = b.Do(ctx, fail)
	clock.advance(time.Minute)
	if err := b.Do(ctx, fail); !errors.Is(err, errSink) {
		t.Fatalf("probe err = %v", err)
	}
	if b.State() != Open {
		t.Fatalf("state = %v, want open", b.State())
	}
	if err := b.Do(ctx, ok); !errors.Is(err, ErrOpen) {
		t.Errorf("cooldown restarts on re-open, got %v", err)
	}
}

func TestBreaker_ProbeBudget(t *testing.T) {
	t.Parallel()
	b, clock := newTestBreaker(1, 1)
	ctx := context.Background()
	_ = b.Do(ctx, fail)
	clock.advance(time.Minute)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Do(ctx, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	if err := b.Do(ctx, ok); !errors.Is(err, ErrOpen) {
		t.Errorf("second concurrent probe = %v, want ErrOpen", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("probe: %v", err)
	}
	if b.State() != Closed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestBreaker_CancellationIsNotAFailure(t *testing.T) {
	t.Parallel()
	b, _ := newTestBreaker(1, 1)
	err := b.Do(context.Background(), func(context.Context) error { return context.Canceled })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if b.State() != Closed {
		t.Errorf("state = %v, want closed", b.State())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	if err := b.Do(ctx, func(context.Context) error { called = true; return nil }); !errors.Is(err, context.Canceled) || called {
		t.Errorf("Do on cancelled ctx = %v (called %v)", err, called)
	}
}

func TestBreaker_Reset(t *testing.T) {
	t.Parallel()
	b, _ := newTestBreaker(1, 1)
	_ = b.Do(context.Background(), fail)
	b.Reset()
	if b.State() != Closed {
		t.Fatalf("state = %v, want closed", b.State())
	}
	if err := b.Do(context.Background(), ok); err != nil {
		t.Errorf("Do after Reset: %v", err)
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()
	for s, want := range map[State]string{Closed: "closed", Open: "open", Probing: "probing", State(9): "unknown"} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
