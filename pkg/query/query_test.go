package query

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gumanista/hate-2-action/pkg/errors"
)

type org struct {
	ID   int64
	Name string
}

func TestNewItem_NotFoundEndsLoading(t *testing.T) {
	q := NewItem(func(ctx context.Context, id int64) (*org, error) {
		return nil, apperrors.NewRequestFailedError(http.MethodGet, "/organizations/9", http.StatusNotFound, "Organization not found")
	})

	assert.Equal(t, StatusIdle, q.State().Status)

	state := q.Fetch(context.Background(), 9)
	assert.False(t, state.IsLoading)
	assert.Equal(t, StatusError, state.Status)
	assert.True(t, apperrors.IsNotFound(state.Err))
	assert.Nil(t, state.Data)
	assert.Equal(t, state, q.State())
}

func TestNewList_Success(t *testing.T) {
	q := NewList(func(ctx context.Context) ([]org, error) {
		return []org{{ID: 1, Name: "Acme"}}, nil
	})

	state := q.Fetch(context.Background(), Unit{})
	assert.Equal(t, StatusSuccess, state.Status)
	assert.False(t, state.IsLoading)
	assert.NoError(t, state.Err)
	assert.Equal(t, []org{{ID: 1, Name: "Acme"}}, state.Data)
	assert.Equal(t, uint64(1), state.Seq)
}

func TestFetch_ErrorClearsPreviousData(t *testing.T) {
	fail := false
	q := New(func(ctx context.Context, id int64) (string, error) {
		if fail {
			return "", errors.New("boom")
		}
		return "ok", nil
	})

	assert.Equal(t, "ok", q.Fetch(context.Background(), 1).Data)
	fail = true
	state := q.Fetch(context.Background(), 1)
	assert.Equal(t, StatusError, state.Status)
	assert.Empty(t, state.Data)
}

func TestFetch_LatestRequestWins(t *testing.T) {
	slowStarted := make(chan struct{})
	var slowCtxErr error

	q := New(func(ctx context.Context, id int64) (string, error) {
		if id == 1 {
			close(slowStarted)
			select {
			case <-ctx.Done():
				slowCtxErr = ctx.Err()
			case <-time.After(2 * time.Second):
			}
			// resolves last, with stale data
			return "org-1", nil
		}
		return "org-2", nil
	})

	var wg sync.WaitGroup
	var slowState State[string]
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowState = q.Fetch(context.Background(), 1)
	}()

	<-slowStarted
	fastState := q.Fetch(context.Background(), 2)
	wg.Wait()

	assert.Equal(t, "org-2", fastState.Data)
	assert.Equal(t, uint64(2), fastState.Seq)

	// the superseded fetch was cancelled and did not overwrite the state
	assert.ErrorIs(t, slowCtxErr, context.Canceled)
	assert.Equal(t, uint64(2), slowState.Seq)

	final := q.State()
	require.Equal(t, StatusSuccess, final.Status)
	assert.Equal(t, "org-2", final.Data)
	assert.Equal(t, uint64(2), final.Seq)
}

func TestFetch_LoadingWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	q := New(func(ctx context.Context, _ Unit) (int, error) {
		close(started)
		<-release
		return 7, nil
	})

	done := make(chan State[int])
	go func() { done <- q.Fetch(context.Background(), Unit{}) }()

	<-started
	inFlight := q.State()
	assert.True(t, inFlight.IsLoading)
	assert.Equal(t, StatusLoading, inFlight.Status)

	close(release)
	final := <-done
	assert.False(t, final.IsLoading)
	assert.Equal(t, 7, final.Data)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "error", StatusError.String())
}
