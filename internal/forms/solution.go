package forms

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gumanista/hate-2-action/pkg/models"
)

type SolutionForm struct {
	Name            string `form:"name" validate:"required"`
	Context         string `form:"context"`
	ProblemID       string `form:"problem_id" validate:"omitempty,key"`
	SubmissionToken string `form:"submission_token" validate:"-"`
}

func NewSolutionForm(existing *models.Solution) *SolutionForm {
	f := &SolutionForm{SubmissionToken: NewSubmissionToken()}
	if existing == nil {
		return f
	}
	f.Name = existing.Name
	f.Context = deref(existing.Context)
	f.ProblemID = formatID(existing.ProblemID)
	return f
}

func BindSolutionForm(c echo.Context) (*SolutionForm, error) {
	f := &SolutionForm{}
	if err := c.Bind(f); err != nil {
		return nil, err
	}
	f.normalize()
	return f, nil
}

func (f *SolutionForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.ProblemID = strings.TrimSpace(f.ProblemID)
}

func (f *SolutionForm) Validate() error {
	f.normalize()
	return Validate(f)
}

func (f *SolutionForm) ProblemOptions(problems []models.Problem) []Option[int64] {
	return Options(problems, models.Problem.Key, func(p models.Problem) string { return p.Name }, selectedIs(f.ProblemID))
}

func (f *SolutionForm) CreatePayload() models.SolutionCreate {
	context := f.Context
	return models.SolutionCreate{
		Name:      f.Name,
		Context:   &context,
		ProblemID: parseOptionalID(f.ProblemID),
	}
}

func (f *SolutionForm) UpdatePayload(policy models.UpdatePolicy, original models.Solution) models.SolutionUpdate {
	after := f.CreatePayload()
	after.Context = keepNull(original.Context, f.Context)
	return models.NewSolutionUpdate(policy, original.ToCreatePayload(), after)
}
