package organization_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gumanista/hate-2-action/internal/backendtest"
	"github.com/gumanista/hate-2-action/internal/repositories/organization"
	"github.com/gumanista/hate-2-action/pkg/apiclient"
	"github.com/gumanista/hate-2-action/pkg/errors"
	"github.com/gumanista/hate-2-action/pkg/models"
)

func getTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func setup(t *testing.T) (*backendtest.Backend, *organization.Repository) {
	t.Helper()
	backend := backendtest.New(t)
	cfg := apiclient.DefaultConfig()
	cfg.BaseURL = backend.URL()
	cfg.APIKey = backend.APIKey
	client, err := apiclient.NewClient(cfg, getTestLogger())
	require.NoError(t, err)
	return backend, organization.NewRepository(client, getTestLogger())
}

func ptr[T any](v T) *T {
	return &v
}

func TestRepository_CreateAssignsKey(t *testing.T) {
	backend, repo := setup(t)
	backend.SetNextID(42)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.OrganizationCreate{Name: "Acme", Description: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.OrganizationID)
	assert.Equal(t, "Acme", created.Name)
	require.NotNil(t, created.Description)
	assert.Equal(t, "", *created.Description)
	assert.NotNil(t, created.CreatedAt)

	req, ok := backend.LastRequest(http.MethodPost, organization.Path)
	require.True(t, ok)
	assert.Equal(t, backend.APIKey, req.APIKey)
	assert.Equal(t, "application/json", req.ContentType)
	body := req.JSON()
	assert.NotContains(t, body, "organization_id")
	assert.NotContains(t, body, "created_at")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(42), list[0].OrganizationID)
}

func TestRepository_RoundTripIsIdempotent(t *testing.T) {
	_, repo := setup(t)
	ctx := context.Background()

	payload := models.OrganizationCreate{
		Name:         "Acme",
		Description:  ptr("makers"),
		Website:      ptr("https://acme.test"),
		ContactEmail: nil,
	}
	created, err := repo.Create(ctx, payload)
	require.NoError(t, err)

	again := created.ToCreatePayload()
	assert.Equal(t, payload.Name, again.Name)
	assert.Equal(t, payload.Description, again.Description)
	assert.Equal(t, payload.Website, again.Website)
	assert.Equal(t, payload.ContactEmail, again.ContactEmail)
}

func TestRepository_ProjectIDsLinkProjects(t *testing.T) {
	backend, repo := setup(t)
	ctx := context.Background()
	p3 := backend.SeedProject(models.Project{ProjectID: 3, Name: "Shelter"})
	p7 := backend.SeedProject(models.Project{ProjectID: 7, Name: "Kitchen"})

	created, err := repo.Create(ctx, models.OrganizationCreate{Name: "Acme", ProjectIDs: []int64{p3, p7}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{3, 7}, created.ProjectIDs())

	update := models.NewOrganizationUpdate(models.ChangedOnly, created.ToCreatePayload(), models.OrganizationCreate{
		Name: "Acme", ProjectIDs: []int64{p7},
	})
	updated, err := repo.Update(ctx, created.OrganizationID, update)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, updated.ProjectIDs())

	req, ok := backend.LastRequest(http.MethodPut, "/organizations/"+itoa(created.OrganizationID))
	require.True(t, ok)
	assert.Equal(t, map[string]any{"project_ids": []any{float64(7)}}, req.JSON())
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	_, repo := setup(t)

	org, err := repo.GetByID(context.Background(), 404)
	require.Error(t, err)
	assert.Nil(t, org)
	assert.True(t, errors.IsNotFound(err))
	rf, _ := errors.AsRequestFailed(err)
	assert.Equal(t, "Organization not found", rf.Detail)
}

func TestRepository_Delete(t *testing.T) {
	backend, repo := setup(t)
	ctx := context.Background()
	id := backend.SeedOrganization(models.Organization{Name: "Gone"})

	require.NoError(t, repo.Delete(ctx, id))
	_, err := repo.GetByID(ctx, id)
	assert.True(t, errors.IsNotFound(err))

	err = repo.Delete(ctx, id)
	assert.True(t, errors.IsNotFound(err))
}

func TestRepository_Search(t *testing.T) {
	backend, repo := setup(t)
	backend.SeedOrganization(models.Organization{Name: "Acme"})
	backend.SeedOrganization(models.Organization{Name: "Globex"})
	backend.SeedOrganization(models.Organization{Name: "acme labs"})

	found, err := repo.Search(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestRepository_WrongKeyIsUnauthorized(t *testing.T) {
	backend, _ := setup(t)
	cfg := apiclient.DefaultConfig()
	cfg.BaseURL = backend.URL()
	cfg.APIKey = "wrong"
	client, err := apiclient.NewClient(cfg, getTestLogger())
	require.NoError(t, err)
	repo := organization.NewRepository(client, getTestLogger())

	_, err = repo.List(context.Background())
	rf, ok := errors.AsRequestFailed(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rf.StatusCode)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
