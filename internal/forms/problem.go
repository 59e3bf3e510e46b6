package forms

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gumanista/hate-2-action/pkg/models"
)

type ProblemForm struct {
	Name            string `form:"name" validate:"required"`
	Context         string `form:"context"`
	ProjectID       string `form:"project_id" validate:"omitempty,key"`
	SubmissionToken string `form:"submission_token" validate:"-"`
}

func NewProblemForm(existing *models.Problem) *ProblemForm {
	f := &ProblemForm{SubmissionToken: NewSubmissionToken()}
	if existing == nil {
		return f
	}
	f.Name = existing.Name
	f.Context = deref(existing.Context)
	f.ProjectID = formatID(existing.ProjectID)
	return f
}

func BindProblemForm(c echo.Context) (*ProblemForm, error) {
	f := &ProblemForm{}
	if err := c.Bind(f); err != nil {
		return nil, err
	}
	f.normalize()
	return f, nil
}

func (f *ProblemForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.ProjectID = strings.TrimSpace(f.ProjectID)
}

func (f *ProblemForm) Validate() error {
	f.normalize()
	return Validate(f)
}

func (f *ProblemForm) ProjectOptions(projects []models.Project) []Option[int64] {
	return Options(projects, models.Project.Key, projectLabel, selectedIs(f.ProjectID))
}

func (f *ProblemForm) CreatePayload() models.ProblemCreate {
	context := f.Context
	return models.ProblemCreate{
		Name:      f.Name,
		Context:   &context,
		ProjectID: parseOptionalID(f.ProjectID),
	}
}

func (f *ProblemForm) UpdatePayload(policy models.UpdatePolicy, original models.Problem) models.ProblemUpdate {
	after := f.CreatePayload()
	after.Context = keepNull(original.Context, f.Context)
	return models.NewProblemUpdate(policy, original.ToCreatePayload(), after)
}
