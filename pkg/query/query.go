// Package query holds the state of one data fetch for a page: loading,
// success or error. Every Fetch supersedes the previous one; a superseded
// fetch is cancelled and its result is discarded.
//
// The page handlers build one query per request and fetch it once, so
// supersession never triggers there; a query only races when the same value
// is fetched again, as in a long-lived view.
package query

import (
	"context"
	"sync"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State is a snapshot of a query.
type State[T any] struct {
	Data      T
	Status    Status
	IsLoading bool
	Err       error
	// Seq is the sequence number of the fetch this state belongs to.
	Seq uint64
}

// FetchFunc loads data for one argument.
type FetchFunc[A, T any] func(ctx context.Context, arg A) (T, error)

// Unit is the argument of queries that take none.
type Unit struct{}

// Query runs a FetchFunc and keeps the state of the latest call.
type Query[A, T any] struct {
	fetch FetchFunc[A, T]

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	state  State[T]
}

func New[A, T any](fetch func(ctx context.Context, arg A) (T, error)) *Query[A, T] {
	return &Query[A, T]{fetch: fetch}
}

// NewList wraps a repository List method.
func NewList[T any](list func(ctx context.Context) ([]T, error)) *Query[Unit, []T] {
	return New[Unit, []T](func(ctx context.Context, _ Unit) ([]T, error) {
		return list(ctx)
	})
}

// NewItem wraps a repository GetByID method; the argument is the key.
func NewItem[T any](get func(ctx context.Context, id int64) (*T, error)) *Query[int64, *T] {
	return New[int64, *T](get)
}

// Fetch runs the fetch for arg and returns the resulting state. If another
// Fetch starts before this one finishes, this one's context is cancelled and
// its result is dropped; the returned state is then whatever is current.
func (q *Query[A, T]) Fetch(ctx context.Context, arg A) State[T] {
	ctx, cancel := context.WithCancel(ctx)

	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
	}
	q.seq++
	seq := q.seq
	q.cancel = cancel
	q.state.Status = StatusLoading
	q.state.IsLoading = true
	q.state.Err = nil
	q.state.Seq = seq
	q.mu.Unlock()

	data, err := q.fetch(ctx, arg)

	q.mu.Lock()
	defer q.mu.Unlock()
	if seq != q.seq {
		cancel()
		return q.state
	}
	q.cancel = nil
	cancel()

	if err != nil {
		var zero T
		q.state = State[T]{Data: zero, Status: StatusError, Err: err, Seq: seq}
	} else {
		q.state = State[T]{Data: data, Status: StatusSuccess, Seq: seq}
	}
	return q.state
}

// State returns the current snapshot.
func (q *Query[A, T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Result returns the data of a successful fetch, or its error.
func (s State[T]) Result() (T, error) {
	return s.Data, s.Err
}
