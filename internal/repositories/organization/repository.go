package organization

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/gumanista/hate-2-action/internal/repositories/crud"
	"github.com/gumanista/hate-2-action/pkg/models"
)

const Path = "/organizations"

// OrganizationRepository defines the operations on organizations
type OrganizationRepository interface {
	List(ctx context.Context) ([]models.Organization, error)
	Search(ctx context.Context, query string) ([]models.Organization, error)
	GetByID(ctx context.Context, id int64) (*models.Organization, error)
	Create(ctx context.Context, req models.OrganizationCreate) (*models.Organization, error)
	Update(ctx context.Context, id int64, req models.OrganizationUpdate) (*models.Organization, error)
	Delete(ctx context.Context, id int64) error
}

// Repository implements OrganizationRepository
type Repository struct {
	*crud.Repository[models.Organization, models.OrganizationCreate, models.OrganizationUpdate]
}

func NewRepository(client crud.Doer, logger ectologger.Logger) *Repository {
	return &Repository{
		Repository: crud.New[models.Organization, models.OrganizationCreate, models.OrganizationUpdate](client, logger, "Organization", Path),
	}
}

func (r *Repository) Search(ctx context.Context, query string) ([]models.Organization, error) {
	return r.Reader.Search(ctx, query, func(o models.Organization) string { return o.Name })
}
