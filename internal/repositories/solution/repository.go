package solution

import (
	"context"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"

	"github.com/gumanista/hate-2-action/internal/repositories/crud"
	"github.com/gumanista/hate-2-action/pkg/models"
)

const Path = "/solutions"

// SolutionRepository defines the operations on solutions
type SolutionRepository interface {
	List(ctx context.Context) ([]models.Solution, error)
	Search(ctx context.Context, query string) ([]models.Solution, error)
	ListByProblem(ctx context.Context, problemID int64) ([]models.Solution, error)
	GetByID(ctx context.Context, id int64) (*models.Solution, error)
	Create(ctx context.Context, req models.SolutionCreate) (*models.Solution, error)
	Update(ctx context.Context, id int64, req models.SolutionUpdate) (*models.Solution, error)
	Delete(ctx context.Context, id int64) error
}

// Repository implements SolutionRepository
type Repository struct {
	*crud.Repository[models.Solution, models.SolutionCreate, models.SolutionUpdate]
}

func NewRepository(client crud.Doer, logger ectologger.Logger) *Repository {
	return &Repository{
		Repository: crud.New[models.Solution, models.SolutionCreate, models.SolutionUpdate](client, logger, "Solution", Path),
	}
}

func (r *Repository) Search(ctx context.Context, query string) ([]models.Solution, error) {
	return r.Reader.Search(ctx, query, func(s models.Solution) string { return s.Name })
}

func (r *Repository) ListByProblem(ctx context.Context, problemID int64) ([]models.Solution, error) {
	solutions, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	linked := ectolinq.Filter(solutions, func(s models.Solution) bool {
		return s.ProblemID != nil && *s.ProblemID == problemID
	})
	if linked == nil {
		return []models.Solution{}, nil
	}
	return linked, nil
}
