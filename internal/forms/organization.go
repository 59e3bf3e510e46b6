package forms

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gumanista/hate-2-action/pkg/models"
)

// OrganizationForm holds the submitted values of the organization form.
type OrganizationForm struct {
	Name            string   `form:"name" validate:"required"`
	Description     string   `form:"description"`
	Website         string   `form:"website" validate:"omitempty,http_url"`
	ContactEmail    string   `form:"contact_email" validate:"omitempty,email"`
	ProjectIDs      []string `form:"project_ids" validate:"omitempty,dive,key"`
	SubmissionToken string   `form:"submission_token" validate:"-"`
}

// NewOrganizationForm seeds the form from existing, or returns an empty form.
func NewOrganizationForm(existing *models.Organization) *OrganizationForm {
	f := &OrganizationForm{SubmissionToken: NewSubmissionToken()}
	if existing == nil {
		return f
	}
	f.Name = existing.Name
	f.Description = deref(existing.Description)
	f.Website = deref(existing.Website)
	f.ContactEmail = deref(existing.ContactEmail)
	f.ProjectIDs = formatIDs(existing.ProjectIDs())
	return f
}

// BindOrganizationForm reads the submitted form. Fields missing from the
// request stay empty, so an untouched multi-select means "no projects".
func BindOrganizationForm(c echo.Context) (*OrganizationForm, error) {
	f := &OrganizationForm{}
	if err := c.Bind(f); err != nil {
		return nil, err
	}
	f.normalize()
	return f, nil
}

func (f *OrganizationForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Website = strings.TrimSpace(f.Website)
	f.ContactEmail = strings.TrimSpace(f.ContactEmail)
}

func (f *OrganizationForm) Validate() error {
	f.normalize()
	return Validate(f)
}

// ProjectSelected reports whether the project is ticked in the multi-select.
func (f *OrganizationForm) ProjectSelected(id int64) bool {
	return selectedIn(f.ProjectIDs)(id)
}

func (f *OrganizationForm) ProjectOptions(projects []models.Project) []Option[int64] {
	return Options(projects, models.Project.Key, projectLabel, f.ProjectSelected)
}

func (f *OrganizationForm) CreatePayload() models.OrganizationCreate {
	description := f.Description
	return models.OrganizationCreate{
		Name:         f.Name,
		Description:  &description,
		Website:      nonEmpty(f.Website),
		ContactEmail: nonEmpty(f.ContactEmail),
		ProjectIDs:   parseIDs(f.ProjectIDs),
	}
}

// UpdatePayload derives the PUT body for original under policy.
func (f *OrganizationForm) UpdatePayload(policy models.UpdatePolicy, original models.Organization) models.OrganizationUpdate {
	after := f.CreatePayload()
	after.Description = keepNull(original.Description, f.Description)
	return models.NewOrganizationUpdate(policy, original.ToCreatePayload(), after)
}

func projectLabel(p models.Project) string {
	return p.Name
}
