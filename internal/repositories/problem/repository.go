package problem

import (
	"context"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"

	"github.com/gumanista/hate-2-action/internal/repositories/crud"
	"github.com/gumanista/hate-2-action/pkg/models"
)

const Path = "/problems"

// ProblemRepository defines the operations on problems
type ProblemRepository interface {
	List(ctx context.Context) ([]models.Problem, error)
	Search(ctx context.Context, query string) ([]models.Problem, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Problem, error)
	GetByID(ctx context.Context, id int64) (*models.Problem, error)
	Create(ctx context.Context, req models.ProblemCreate) (*models.Problem, error)
	Update(ctx context.Context, id int64, req models.ProblemUpdate) (*models.Problem, error)
	Delete(ctx context.Context, id int64) error
}

// Repository implements ProblemRepository
type Repository struct {
	*crud.Repository[models.Problem, models.ProblemCreate, models.ProblemUpdate]
}

func NewRepository(client crud.Doer, logger ectologger.Logger) *Repository {
	return &Repository{
		Repository: crud.New[models.Problem, models.ProblemCreate, models.ProblemUpdate](client, logger, "Problem", Path),
	}
}

func (r *Repository) Search(ctx context.Context, query string) ([]models.Problem, error) {
	return r.Reader.Search(ctx, query, func(p models.Problem) string { return p.Name })
}

func (r *Repository) ListByProject(ctx context.Context, projectID int64) ([]models.Problem, error) {
	problems, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	owned := ectolinq.Filter(problems, func(p models.Problem) bool {
		return p.ProjectID != nil && *p.ProjectID == projectID
	})
	if owned == nil {
		return []models.Problem{}, nil
	}
	return owned, nil
}
