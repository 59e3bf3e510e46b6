package recommendation_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gumanista/hate-2-action/internal/backendtest"
	"github.com/gumanista/hate-2-action/internal/repositories/recommendation"
	"github.com/gumanista/hate-2-action/pkg/errors"
	"github.com/gumanista/hate-2-action/pkg/models"
)

func TestRepository_Process(t *testing.T) {
	backend := backendtest.New(t)
	repo := recommendation.NewRepository(backend.Client(t), backendtest.NopLogger())
	backend.SetProcessResponse(models.Response{
		Text:      "You are not alone.",
		Problems:  []models.ProblemSummary{{ProblemID: 4, Name: "Isolation"}},
		Solutions: []models.SolutionSummary{{SolutionID: 8, Name: "Meetups"}, {SolutionID: 9, Name: "Hotline"}},
		Projects:  []models.ProjectSummary{},
	})

	resp, err := repo.Process(context.Background(), models.ProcessMessageRequest{
		Message:       "I feel isolated",
		ResponseStyle: models.StyleEmpathetic,
	})
	require.NoError(t, err)
	assert.Equal(t, "You are not alone.", resp.Text)
	assert.Len(t, resp.Problems, 1)
	assert.Len(t, resp.Solutions, 2)
	assert.Empty(t, resp.Projects)

	req, ok := backend.LastRequest(http.MethodPost, recommendation.Path)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"message": "I feel isolated", "response_style": "empathetic"}, req.JSON())
}

func TestRepository_ProcessRejected(t *testing.T) {
	backend := backendtest.New(t)
	repo := recommendation.NewRepository(backend.Client(t), backendtest.NopLogger())

	_, err := repo.Process(context.Background(), models.ProcessMessageRequest{Message: "hi", ResponseStyle: "sarcastic"})
	rf, ok := errors.AsRequestFailed(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, rf.StatusCode)
	assert.Equal(t, "response_style: unexpected value", rf.Detail)
}

func TestRepository_ProcessBackendDown(t *testing.T) {
	backend := backendtest.New(t)
	repo := recommendation.NewRepository(backend.Client(t), backendtest.NopLogger())
	backend.Fail(http.MethodPost, recommendation.Path, http.StatusInternalServerError, "Internal Server Error")

	_, err := repo.Process(context.Background(), models.ProcessMessageRequest{Message: "hi", ResponseStyle: models.StyleFormal})
	rf, ok := errors.AsRequestFailed(err)
	require.True(t, ok)
	assert.Equal(t, "Internal Server Error", rf.Message())
}
