package analyzer

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/draft"
)

// Session drives URL analysis for one wizard draft. Every Start supersedes
// the previous request: the old context is cancelled and, because transports
// cancel on a best-effort basis, a generation counter guards against a stale
// response landing after a newer request began.
type Session struct {
	mu          sync.Mutex
	draft       *draft.Draft
	analyzer    Analyzer
	log         *zap.Logger
	revealDelay time.Duration

	gen          uint64
	cancel       context.CancelFunc
	onTransition func(draft.ThinkingState)
}

func NewSession(d *draft.Draft, a Analyzer, revealDelay time.Duration, log *zap.Logger) *Session {
	return &Session{
		draft:       d,
		analyzer:    a,
		log:         log,
		revealDelay: revealDelay,
	}
}

// OnTransition registers a hook invoked after each thinking-state change.
// The hook runs outside the session lock.
func (s *Session) OnTransition(fn func(draft.ThinkingState)) {
	s.mu.Lock()
	s.onTransition = fn
	s.mu.Unlock()
}

// Start begins analyzing url, cancelling any in-flight request first.
func (s *Session) Start(url string) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.draft.BeginAnalysis(url)
	s.mu.Unlock()

	s.fire(draft.ThinkingPending)
	go s.run(ctx, gen, url)
}

// Cancel aborts the in-flight request, if any, and clears the draft's
// analysis state.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.draft.CancelAnalysis()
	s.mu.Unlock()

	s.fire(draft.ThinkingCancelled)
}

func (s *Session) run(ctx context.Context, gen uint64, url string) {
	result, err := s.analyzer.Analyze(ctx, url)

	s.mu.Lock()
	if gen != s.gen {
		// A newer request or a cancel superseded this one; the outcome,
		// success or failure, must not touch the draft.
		s.mu.Unlock()
		return
	}
	s.cancel = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.mu.Unlock()
			return
		}
		s.draft.FailAnalysis(err.Error())
		s.mu.Unlock()
		s.log.Warn("analysis failed", zap.String("url", url), zap.Error(err))
		s.fire(draft.ThinkingFailed)
		return
	}
	if result.Error != "" {
		s.draft.FailAnalysis(result.Error)
		s.mu.Unlock()
		s.fire(draft.ThinkingFailed)
		return
	}

	s.draft.CompleteAnalysis(result)
	delay := s.revealDelay
	s.mu.Unlock()

	s.fire(draft.ThinkingSucceeded)

	// Strategies appear a beat after the result so the result card renders
	// first. Skipped when a cancel or restart lands in between.
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		if gen == s.gen {
			s.draft.RevealStrategies()
		}
		s.mu.Unlock()
	})
}

func (s *Session) fire(state draft.ThinkingState) {
	s.mu.Lock()
	fn := s.onTransition
	s.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}
