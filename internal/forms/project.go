package forms

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gumanista/hate-2-action/pkg/models"
)

type ProjectForm struct {
	Name            string `form:"name" validate:"required"`
	Description     string `form:"description"`
	Website         string `form:"website" validate:"omitempty,http_url"`
	ContactEmail    string `form:"contact_email" validate:"omitempty,email"`
	OrganizationID  string `form:"organization_id" validate:"omitempty,key"`
	SubmissionToken string `form:"submission_token" validate:"-"`
}

func NewProjectForm(existing *models.Project) *ProjectForm {
	f := &ProjectForm{SubmissionToken: NewSubmissionToken()}
	if existing == nil {
		return f
	}
	f.Name = existing.Name
	f.Description = deref(existing.Description)
	f.Website = deref(existing.Website)
	f.ContactEmail = deref(existing.ContactEmail)
	f.OrganizationID = formatID(existing.OrganizationID)
	return f
}

func BindProjectForm(c echo.Context) (*ProjectForm, error) {
	f := &ProjectForm{}
	if err := c.Bind(f); err != nil {
		return nil, err
	}
	f.normalize()
	return f, nil
}

func (f *ProjectForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Website = strings.TrimSpace(f.Website)
	f.ContactEmail = strings.TrimSpace(f.ContactEmail)
	f.OrganizationID = strings.TrimSpace(f.OrganizationID)
}

func (f *ProjectForm) Validate() error {
	f.normalize()
	return Validate(f)
}

// OrganizationOptions lists every organization; none is selected when the
// project has no organization.
func (f *ProjectForm) OrganizationOptions(organizations []models.Organization) []Option[int64] {
	return Options(organizations, models.Organization.Key, func(o models.Organization) string { return o.Name }, selectedIs(f.OrganizationID))
}

func (f *ProjectForm) CreatePayload() models.ProjectCreate {
	description := f.Description
	return models.ProjectCreate{
		Name:           f.Name,
		Description:    &description,
		Website:        nonEmpty(f.Website),
		ContactEmail:   nonEmpty(f.ContactEmail),
		OrganizationID: parseOptionalID(f.OrganizationID),
	}
}

func (f *ProjectForm) UpdatePayload(policy models.UpdatePolicy, original models.Project) models.ProjectUpdate {
	after := f.CreatePayload()
	after.Description = keepNull(original.Description, f.Description)
	return models.NewProjectUpdate(policy, original.ToCreatePayload(), after)
}
