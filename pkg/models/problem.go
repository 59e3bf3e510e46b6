package models

// Problem optionally belongs to a project and groups solutions.
// IsProcessed is set by the backend once the problem has been embedded.
type Problem struct {
	ProblemID   int64    `json:"problem_id"`
	Name        string   `json:"name"`
	Context     *string  `json:"context"`
	CreatedAt   *string  `json:"created_at,omitempty"`
	IsProcessed FlexBool `json:"is_processed"`
	ProjectID   *int64   `json:"project_id"`

	Project   *Project   `json:"project,omitempty"`
	Solutions []Solution `json:"solutions,omitempty"`
}

func (p Problem) Key() int64 {
	return p.ProblemID
}

type ProblemCreate struct {
	Name      string  `json:"name"`
	Context   *string `json:"context"`
	ProjectID *int64  `json:"project_id"`
}

type ProblemUpdate struct {
	Name      Optional[string] `json:"name,omitzero"`
	Context   Optional[string] `json:"context,omitzero"`
	ProjectID Optional[int64]  `json:"project_id,omitzero"`
}

func (p Problem) ToCreatePayload() ProblemCreate {
	return ProblemCreate{
		Name:      p.Name,
		Context:   p.Context,
		ProjectID: p.ProjectID,
	}
}

func (p Problem) ToUpdatePayload() ProblemUpdate {
	return p.ToCreatePayload().AsUpdate()
}

func (c ProblemCreate) AsUpdate() ProblemUpdate {
	return ProblemUpdate{
		Name:      Some(c.Name),
		Context:   FromPtr(c.Context),
		ProjectID: FromPtr(c.ProjectID),
	}
}

func DiffProblemUpdate(before, after ProblemCreate) ProblemUpdate {
	return ProblemUpdate{
		Name:      diffValue(before.Name, after.Name),
		Context:   diffPtr(before.Context, after.Context),
		ProjectID: diffPtr(before.ProjectID, after.ProjectID),
	}
}

func NewProblemUpdate(policy UpdatePolicy, before, after ProblemCreate) ProblemUpdate {
	if policy == ChangedOnly {
		return DiffProblemUpdate(before, after)
	}
	return after.AsUpdate()
}
