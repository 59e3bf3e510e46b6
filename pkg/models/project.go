package models

// Project optionally belongs to an organization and groups problems.
type Project struct {
	ProjectID      int64   `json:"project_id"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	Website        *string `json:"website"`
	ContactEmail   *string `json:"contact_email"`
	CreatedAt      *string `json:"created_at,omitempty"`
	OrganizationID *int64  `json:"organization_id"`

	Organization *Organization `json:"organization,omitempty"`
	Problems     []Problem     `json:"problems,omitempty"`
}

func (p Project) Key() int64 {
	return p.ProjectID
}

// ProjectCreate is the POST body. OrganizationID is always serialized.
type ProjectCreate struct {
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	Website        *string `json:"website"`
	ContactEmail   *string `json:"contact_email"`
	OrganizationID *int64  `json:"organization_id"`
}

type ProjectUpdate struct {
	Name           Optional[string] `json:"name,omitzero"`
	Description    Optional[string] `json:"description,omitzero"`
	Website        Optional[string] `json:"website,omitzero"`
	ContactEmail   Optional[string] `json:"contact_email,omitzero"`
	OrganizationID Optional[int64]  `json:"organization_id,omitzero"`
}

func (p Project) ToCreatePayload() ProjectCreate {
	return ProjectCreate{
		Name:           p.Name,
		Description:    p.Description,
		Website:        p.Website,
		ContactEmail:   p.ContactEmail,
		OrganizationID: p.OrganizationID,
	}
}

func (p Project) ToUpdatePayload() ProjectUpdate {
	return p.ToCreatePayload().AsUpdate()
}

func (c ProjectCreate) AsUpdate() ProjectUpdate {
	return ProjectUpdate{
		Name:           Some(c.Name),
		Description:    FromPtr(c.Description),
		Website:        FromPtr(c.Website),
		ContactEmail:   FromPtr(c.ContactEmail),
		OrganizationID: FromPtr(c.OrganizationID),
	}
}

func DiffProjectUpdate(before, after ProjectCreate) ProjectUpdate {
	return ProjectUpdate{
		Name:           diffValue(before.Name, after.Name),
		Description:    diffPtr(before.Description, after.Description),
		Website:        diffPtr(before.Website, after.Website),
		ContactEmail:   diffPtr(before.ContactEmail, after.ContactEmail),
		OrganizationID: diffPtr(before.OrganizationID, after.OrganizationID),
	}
}

func NewProjectUpdate(policy UpdatePolicy, before, after ProjectCreate) ProjectUpdate {
	if policy == ChangedOnly {
		return DiffProjectUpdate(before, after)
	}
	return after.AsUpdate()
}
