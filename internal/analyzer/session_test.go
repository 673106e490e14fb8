package analyzer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/draft"
	"github.com/head-marketing/backend/internal/models"
)

// fakeAnalyzer hands out one resolvable call per Analyze invocation. It
// deliberately ignores context cancellation so tests can deliver a "late"
// response for a superseded request.
type fakeAnalyzer struct {
	mu    sync.Mutex
	calls []*fakeCall
}

type fakeCall struct {
	url     string
	results chan *models.WebsiteAnalysis
	errs    chan error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, url string) (*models.WebsiteAnalysis, error) {
	c := &fakeCall{
		url:     url,
		results: make(chan *models.WebsiteAnalysis, 1),
		errs:    make(chan error, 1),
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	select {
	case r := <-c.results:
		return r, nil
	case err := <-c.errs:
		return nil, err
	}
}

// waitForCall blocks until the n-th Analyze invocation has registered.
func (f *fakeAnalyzer) waitForCall(t *testing.T, n int) *fakeCall {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		if len(f.calls) >= n {
			c := f.calls[n-1]
			f.mu.Unlock()
			return c
		}
		f.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("call %d never arrived", n)
	return nil
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestSession(revealDelay time.Duration) (*Session, *draft.Draft, *fakeAnalyzer) {
	d := draft.New()
	fa := &fakeAnalyzer{}
	return NewSession(d, fa, revealDelay, zap.NewNop()), d, fa
}

func TestAnalysisSuccess(t *testing.T) {
	s, d, fa := newTestSession(time.Millisecond)

	s.Start("https://a.example")
	if got := d.Snapshot().Thinking; got != draft.ThinkingPending {
		t.Fatalf("thinking after start = %q, want pending", got)
	}

	call := fa.waitForCall(t, 1)
	call.results <- &models.WebsiteAnalysis{BusinessIntro: "Acme intro"}

	waitFor(t, "success", func() bool {
		return d.Snapshot().Thinking == draft.ThinkingSucceeded
	})
	snap := d.Snapshot()
	if snap.Analysis == nil || snap.Analysis.BusinessIntro != "Acme intro" {
		t.Fatalf("analysis = %+v", snap.Analysis)
	}

	// Strategies reveal after the delay.
	waitFor(t, "strategy reveal", func() bool {
		return d.Snapshot().ShowStrategies
	})
}

func TestAnalysisFailure(t *testing.T) {
	s, d, fa := newTestSession(time.Millisecond)

	s.Start("https://a.example")
	fa.waitForCall(t, 1).errs <- errors.New("cannot reach website")

	waitFor(t, "failure", func() bool {
		return d.Snapshot().Thinking == draft.ThinkingFailed
	})
	snap := d.Snapshot()
	if snap.AnalysisError != "cannot reach website" {
		t.Errorf("analysis error = %q", snap.AnalysisError)
	}
	if snap.Analysis != nil {
		t.Error("failed analysis left a result behind")
	}
}

// A stale response must never overwrite the state of a newer request, even
// though the transport delivered it after the restart.
func TestLateResponseFromSupersededRequestIsDiscarded(t *testing.T) {
	s, d, fa := newTestSession(time.Millisecond)

	s.Start("https://a.example")
	callA := fa.waitForCall(t, 1)

	s.Start("https://b.example")
	callB := fa.waitForCall(t, 2)

	// A's response arrives late, after B began.
	callA.results <- &models.WebsiteAnalysis{BusinessIntro: "A intro"}
	time.Sleep(50 * time.Millisecond)

	snap := d.Snapshot()
	if snap.Thinking != draft.ThinkingPending {
		t.Fatalf("thinking = %q, want pending while B is in flight", snap.Thinking)
	}
	if snap.Analysis != nil {
		t.Fatalf("stale result committed: %+v", snap.Analysis)
	}

	callB.results <- &models.WebsiteAnalysis{BusinessIntro: "B intro"}
	waitFor(t, "B's result", func() bool {
		s := d.Snapshot()
		return s.Analysis != nil && s.Analysis.BusinessIntro == "B intro"
	})
}

func TestCancelDiscardsInFlightOutcome(t *testing.T) {
	s, d, fa := newTestSession(time.Millisecond)

	s.Start("https://a.example")
	call := fa.waitForCall(t, 1)

	s.Cancel()
	snap := d.Snapshot()
	if snap.Thinking != draft.ThinkingCancelled {
		t.Fatalf("thinking after cancel = %q", snap.Thinking)
	}
	if snap.TargetURL != "" {
		t.Error("cancel did not clear the target URL")
	}

	call.results <- &models.WebsiteAnalysis{BusinessIntro: "late"}
	time.Sleep(50 * time.Millisecond)

	snap = d.Snapshot()
	if snap.Thinking != draft.ThinkingCancelled || snap.Analysis != nil {
		t.Fatalf("late outcome mutated a cancelled session: thinking=%q analysis=%+v", snap.Thinking, snap.Analysis)
	}
}

func TestCancelBeforeRevealSuppressesStrategies(t *testing.T) {
	s, d, fa := newTestSession(100 * time.Millisecond)

	s.Start("https://a.example")
	fa.waitForCall(t, 1).results <- &models.WebsiteAnalysis{BusinessIntro: "intro"}

	waitFor(t, "success", func() bool {
		return d.Snapshot().Thinking == draft.ThinkingSucceeded
	})
	s.Cancel()

	time.Sleep(200 * time.Millisecond)
	if d.Snapshot().ShowStrategies {
		t.Fatal("strategies revealed after cancel")
	}
}

func TestTransitionHookObservesLifecycle(t *testing.T) {
	s, d, fa := newTestSession(time.Millisecond)

	var mu sync.Mutex
	var seen []draft.ThinkingState
	s.OnTransition(func(st draft.ThinkingState) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	})

	s.Start("https://a.example")
	fa.waitForCall(t, 1).results <- &models.WebsiteAnalysis{BusinessIntro: "intro"}
	waitFor(t, "success", func() bool {
		return d.Snapshot().Thinking == draft.ThinkingSucceeded
	})

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != draft.ThinkingPending || seen[1] != draft.ThinkingSucceeded {
		t.Fatalf("transitions = %v", seen)
	}
}
