package models

type Solution struct {
	SolutionID int64   `json:"solution_id"`
	Name       string  `json:"name"`
	Context    *string `json:"context"`
	CreatedAt  *string `json:"created_at,omitempty"`
	ProblemID  *int64  `json:"problem_id"`

	Problem *Problem `json:"problem,omitempty"`
}

func (s Solution) Key() int64 {
	return s.SolutionID
}

type SolutionCreate struct {
	Name      string  `json:"name"`
	Context   *string `json:"context"`
	ProblemID *int64  `json:"problem_id"`
}

type SolutionUpdate struct {
	Name      Optional[string] `json:"name,omitzero"`
	Context   Optional[string] `json:"context,omitzero"`
	ProblemID Optional[int64]  `json:"problem_id,omitzero"`
}

func (s Solution) ToCreatePayload() SolutionCreate {
	return SolutionCreate{
		Name:      s.Name,
		Context:   s.Context,
		ProblemID: s.ProblemID,
	}
}

func (s Solution) ToUpdatePayload() SolutionUpdate {
	return s.ToCreatePayload().AsUpdate()
}

func (c SolutionCreate) AsUpdate() SolutionUpdate {
	return SolutionUpdate{
		Name:      Some(c.Name),
		Context:   FromPtr(c.Context),
		ProblemID: FromPtr(c.ProblemID),
	}
}

func DiffSolutionUpdate(before, after SolutionCreate) SolutionUpdate {
	return SolutionUpdate{
		Name:      diffValue(before.Name, after.Name),
		Context:   diffPtr(before.Context, after.Context),
		ProblemID: diffPtr(before.ProblemID, after.ProblemID),
	}
}

func NewSolutionUpdate(policy UpdatePolicy, before, after SolutionCreate) SolutionUpdate {
	if policy == ChangedOnly {
		return DiffSolutionUpdate(before, after)
	}
	return after.AsUpdate()
}
