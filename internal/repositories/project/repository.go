package project

import (
	"context"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"

	"github.com/gumanista/hate-2-action/internal/repositories/crud"
	"github.com/gumanista/hate-2-action/pkg/models"
)

const Path = "/projects"

// ProjectRepository defines the operations on projects
type ProjectRepository interface {
	List(ctx context.Context) ([]models.Project, error)
	Search(ctx context.Context, query string) ([]models.Project, error)
	ListByOrganization(ctx context.Context, organizationID int64) ([]models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Create(ctx context.Context, req models.ProjectCreate) (*models.Project, error)
	Update(ctx context.Context, id int64, req models.ProjectUpdate) (*models.Project, error)
	Delete(ctx context.Context, id int64) error
}

// Repository implements ProjectRepository
type Repository struct {
	*crud.Repository[models.Project, models.ProjectCreate, models.ProjectUpdate]
}

func NewRepository(client crud.Doer, logger ectologger.Logger) *Repository {
	return &Repository{
		Repository: crud.New[models.Project, models.ProjectCreate, models.ProjectUpdate](client, logger, "Project", Path),
	}
}

func (r *Repository) Search(ctx context.Context, query string) ([]models.Project, error) {
	return r.Reader.Search(ctx, query, func(p models.Project) string { return p.Name })
}

// ListByOrganization returns the projects whose organization_id matches.
// The backend has no filtered endpoint, so this filters the full list.
func (r *Repository) ListByOrganization(ctx context.Context, organizationID int64) ([]models.Project, error) {
	projects, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	owned := ectolinq.Filter(projects, func(p models.Project) bool {
		return p.OrganizationID != nil && *p.OrganizationID == organizationID
	})
	if owned == nil {
		return []models.Project{}, nil
	}
	return owned, nil
}
