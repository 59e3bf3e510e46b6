package forms

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ErrSubmitInProgress is returned when a submission is already running.
var ErrSubmitInProgress = stderrors.New("submission already in progress")

// Submitter serializes submissions of one form.
type Submitter struct {
	submitting atomic.Bool
}

// Submit runs onSubmit unless another submission is running.
func (s *Submitter) Submit(ctx context.Context, onSubmit func(ctx context.Context) error) error {
	if !s.submitting.CompareAndSwap(false, true) {
		return ErrSubmitInProgress
	}
	defer s.submitting.Store(false)
	return onSubmit(ctx)
}

func (s *Submitter) IsSubmitting() bool {
	return s.submitting.Load()
}

// Guard hands out one Submitter per rendered form, identified by its
// submission token, so a double-posted form runs once.
type Guard struct {
	mu      sync.Mutex
	entries map[string]*guardEntry
}

// guardEntry is dropped once no request holds it.
type guardEntry struct {
	submitter Submitter
	refs      int
}

func NewGuard() *Guard {
	return &Guard{entries: map[string]*guardEntry{}}
}

func NewSubmissionToken() string {
	return uuid.New().String()
}

// Submit runs onSubmit under the submitter for token. An empty token is not
// guarded.
func (g *Guard) Submit(ctx context.Context, token string, onSubmit func(ctx context.Context) error) error {
	if token == "" {
		return onSubmit(ctx)
	}

	e := g.acquire(token)
	defer g.release(token, e)
	return e.submitter.Submit(ctx, onSubmit)
}

func (g *Guard) acquire(token string) *guardEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[token]
	if !ok {
		e = &guardEntry{}
		g.entries[token] = e
	}
	e.refs++
	return e
}

func (g *Guard) release(token string, e *guardEntry) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(g.entries, token)
	}
}

// InFlight reports how many tokens are held by running requests.
func (g *Guard) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}
