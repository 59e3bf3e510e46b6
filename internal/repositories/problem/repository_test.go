package problem_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gumanista/hate-2-action/internal/backendtest"
	"github.com/gumanista/hate-2-action/internal/repositories/problem"
	"github.com/gumanista/hate-2-action/pkg/models"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestRepository_CRUD(t *testing.T) {
	backend := backendtest.New(t)
	repo := problem.NewRepository(backend.Client(t), backendtest.NopLogger())
	ctx := context.Background()
	projectID := backend.SeedProject(models.Project{Name: "Shelter"})

	created, err := repo.Create(ctx, models.ProblemCreate{Name: "Isolation", ProjectID: int64Ptr(projectID)})
	require.NoError(t, err)
	assert.False(t, bool(created.IsProcessed))
	require.NotNil(t, created.Project)
	assert.Equal(t, "Shelter", created.Project.Name)

	ctxText := "rural areas"
	updated, err := repo.Update(ctx, created.ProblemID, models.ProblemUpdate{Context: models.Some(ctxText)})
	require.NoError(t, err)
	assert.Equal(t, "Isolation", updated.Name)
	require.NotNil(t, updated.Context)
	assert.Equal(t, ctxText, *updated.Context)

	owned, err := repo.ListByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, created.ProblemID, owned[0].ProblemID)

	require.NoError(t, repo.Delete(ctx, created.ProblemID))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRepository_ExpandsSolutions(t *testing.T) {
	backend := backendtest.New(t)
	repo := problem.NewRepository(backend.Client(t), backendtest.NopLogger())
	id := backend.SeedProblem(models.Problem{Name: "Isolation"})
	backend.SeedSolution(models.Solution{Name: "Meetups", ProblemID: int64Ptr(id)})
	backend.SeedSolution(models.Solution{Name: "Unrelated"})

	p, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, p.Solutions, 1)
	assert.Equal(t, "Meetups", p.Solutions[0].Name)
}
