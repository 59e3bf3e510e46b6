package models

import "encoding/json"

// Organization owns zero or more projects.
type Organization struct {
	OrganizationID int64   `json:"organization_id"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	Website        *string `json:"website"`
	ContactEmail   *string `json:"contact_email"`
	CreatedAt      *string `json:"created_at,omitempty"`

	// Projects is the expanded relation; read-only.
	Projects []Project `json:"projects,omitempty"`
}

// UnmarshalJSON also accepts the key under "id", as older backends send it.
func (o *Organization) UnmarshalJSON(data []byte) error {
	type alias Organization
	aux := struct {
		*alias
		LegacyID *int64 `json:"id"`
	}{alias: (*alias)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if o.OrganizationID == 0 && aux.LegacyID != nil {
		o.OrganizationID = *aux.LegacyID
	}
	return nil
}

func (o Organization) Key() int64 {
	return o.OrganizationID
}

// ProjectIDs returns the keys of the expanded projects, or nil when the
// relation was not expanded.
func (o Organization) ProjectIDs() []int64 {
	if o.Projects == nil {
		return nil
	}
	ids := make([]int64, 0, len(o.Projects))
	for _, p := range o.Projects {
		ids = append(ids, p.ProjectID)
	}
	return ids
}

// OrganizationCreate is the POST body. ProjectIDs links existing projects.
type OrganizationCreate struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Website      *string `json:"website"`
	ContactEmail *string `json:"contact_email"`
	ProjectIDs   []int64 `json:"project_ids,omitzero"`
}

// OrganizationUpdate is the PUT body; absent fields stay unchanged server-side.
type OrganizationUpdate struct {
	Name         Optional[string]  `json:"name,omitzero"`
	Description  Optional[string]  `json:"description,omitzero"`
	Website      Optional[string]  `json:"website,omitzero"`
	ContactEmail Optional[string]  `json:"contact_email,omitzero"`
	ProjectIDs   Optional[[]int64] `json:"project_ids,omitzero"`
}

func (o Organization) ToCreatePayload() OrganizationCreate {
	return OrganizationCreate{
		Name:         o.Name,
		Description:  o.Description,
		Website:      o.Website,
		ContactEmail: o.ContactEmail,
		ProjectIDs:   UniqueIDs(o.ProjectIDs()),
	}
}

func (o Organization) ToUpdatePayload() OrganizationUpdate {
	return o.ToCreatePayload().AsUpdate()
}

// AsUpdate sets every field of the create shape. ProjectIDs is only sent when
// the caller supplied a selection.
func (c OrganizationCreate) AsUpdate() OrganizationUpdate {
	u := OrganizationUpdate{
		Name:         Some(c.Name),
		Description:  FromPtr(c.Description),
		Website:      FromPtr(c.Website),
		ContactEmail: FromPtr(c.ContactEmail),
	}
	if c.ProjectIDs != nil {
		u.ProjectIDs = Some(UniqueIDs(c.ProjectIDs))
	}
	return u
}

// DiffOrganizationUpdate keeps only the fields that changed between before and after.
func DiffOrganizationUpdate(before, after OrganizationCreate) OrganizationUpdate {
	return OrganizationUpdate{
		Name:         diffValue(before.Name, after.Name),
		Description:  diffPtr(before.Description, after.Description),
		Website:      diffPtr(before.Website, after.Website),
		ContactEmail: diffPtr(before.ContactEmail, after.ContactEmail),
		ProjectIDs:   diffIDs(before.ProjectIDs, after.ProjectIDs),
	}
}

func NewOrganizationUpdate(policy UpdatePolicy, before, after OrganizationCreate) OrganizationUpdate {
	if policy == ChangedOnly {
		return DiffOrganizationUpdate(before, after)
	}
	return after.AsUpdate()
}
