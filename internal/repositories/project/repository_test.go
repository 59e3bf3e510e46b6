package project_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gumanista/hate-2-action/internal/backendtest"
	"github.com/gumanista/hate-2-action/internal/repositories/project"
	"github.com/gumanista/hate-2-action/pkg/models"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestRepository_CreateWithoutOrganizationSendsNull(t *testing.T) {
	backend := backendtest.New(t)
	repo := project.NewRepository(backend.Client(t), backendtest.NopLogger())

	created, err := repo.Create(context.Background(), models.ProjectCreate{Name: "Shelter"})
	require.NoError(t, err)
	assert.Nil(t, created.OrganizationID)
	assert.Nil(t, created.Organization)

	req, ok := backend.LastRequest(http.MethodPost, project.Path)
	require.True(t, ok)
	body := req.JSON()
	require.Contains(t, body, "organization_id")
	assert.Nil(t, body["organization_id"])
}

func TestRepository_ExpandsOrganization(t *testing.T) {
	backend := backendtest.New(t)
	repo := project.NewRepository(backend.Client(t), backendtest.NopLogger())
	orgID := backend.SeedOrganization(models.Organization{Name: "Acme"})
	id := backend.SeedProject(models.Project{Name: "Shelter", OrganizationID: int64Ptr(orgID)})

	p, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p.Organization)
	assert.Equal(t, "Acme", p.Organization.Name)
	assert.Equal(t, orgID, p.Organization.OrganizationID)
}

func TestRepository_UpdateClearsOrganization(t *testing.T) {
	backend := backendtest.New(t)
	repo := project.NewRepository(backend.Client(t), backendtest.NopLogger())
	orgID := backend.SeedOrganization(models.Organization{Name: "Acme"})
	id := backend.SeedProject(models.Project{Name: "Shelter", OrganizationID: int64Ptr(orgID)})

	loaded, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	edited := loaded.ToCreatePayload()
	edited.OrganizationID = nil

	updated, err := repo.Update(context.Background(), id, models.NewProjectUpdate(models.FullReplace, loaded.ToCreatePayload(), edited))
	require.NoError(t, err)
	assert.Nil(t, updated.OrganizationID)
	assert.Equal(t, "Shelter", updated.Name)
}

func TestRepository_ListByOrganization(t *testing.T) {
	backend := backendtest.New(t)
	repo := project.NewRepository(backend.Client(t), backendtest.NopLogger())
	acme := backend.SeedOrganization(models.Organization{Name: "Acme"})
	globex := backend.SeedOrganization(models.Organization{Name: "Globex"})
	backend.SeedProject(models.Project{Name: "A1", OrganizationID: int64Ptr(acme)})
	backend.SeedProject(models.Project{Name: "G1", OrganizationID: int64Ptr(globex)})
	backend.SeedProject(models.Project{Name: "A2", OrganizationID: int64Ptr(acme)})
	backend.SeedProject(models.Project{Name: "Loose"})

	owned, err := repo.ListByOrganization(context.Background(), acme)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "A1", owned[0].Name)
	assert.Equal(t, "A2", owned[1].Name)

	none, err := repo.ListByOrganization(context.Background(), 999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
