package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullOrganization() Organization {
	return Organization{
		OrganizationID: 42,
		Name:           "Acme",
		Description:    ptr(""),
		Website:        ptr("https://acme.test"),
		ContactEmail:   nil,
		CreatedAt:      ptr("2024-01-02T03:04:05"),
		Projects:       []Project{{ProjectID: 3, Name: "P3"}, {ProjectID: 7, Name: "P7"}},
	}
}

func TestToCreatePayload_OmitsServerFields(t *testing.T) {
	tests := []struct {
		name      string
		payload   any
		forbidden []string
		required  []string
	}{
		{
			name:      "organization",
			payload:   fullOrganization().ToCreatePayload(),
			forbidden: []string{"organization_id", "id", "created_at", "projects"},
			required:  []string{"name", "description", "website", "contact_email", "project_ids"},
		},
		{
			name: "project",
			payload: Project{
				ProjectID: 5, Name: "Shelter", CreatedAt: ptr("x"), OrganizationID: ptr(int64(42)),
				Organization: &Organization{OrganizationID: 42}, Problems: []Problem{{ProblemID: 1}},
			}.ToCreatePayload(),
			forbidden: []string{"project_id", "created_at", "organization", "problems"},
			required:  []string{"name", "organization_id"},
		},
		{
			name: "problem",
			payload: Problem{
				ProblemID: 9, Name: "Isolation", CreatedAt: ptr("x"), IsProcessed: true,
				Project: &Project{ProjectID: 5}, Solutions: []Solution{{SolutionID: 1}},
			}.ToCreatePayload(),
			forbidden: []string{"problem_id", "created_at", "is_processed", "project", "solutions"},
			required:  []string{"name", "context", "project_id"},
		},
		{
			name: "solution",
			payload: Solution{
				SolutionID: 2, Name: "Meetups", CreatedAt: ptr("x"), ProblemID: ptr(int64(9)),
				Problem: &Problem{ProblemID: 9},
			}.ToCreatePayload(),
			forbidden: []string{"solution_id", "created_at", "problem"},
			required:  []string{"name", "context", "problem_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := marshalMap(t, tt.payload)
			for _, f := range tt.forbidden {
				assert.NotContains(t, fields, f)
			}
			for _, f := range tt.required {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestToCreatePayload_NullForeignKeyIsExplicit(t *testing.T) {
	fields := marshalMap(t, Project{ProjectID: 1, Name: "Orphan"}.ToCreatePayload())
	require.Contains(t, fields, "organization_id")
	assert.Nil(t, fields["organization_id"])

	fields = marshalMap(t, Solution{SolutionID: 1, Name: "Loose"}.ToCreatePayload())
	require.Contains(t, fields, "problem_id")
	assert.Nil(t, fields["problem_id"])
}

func TestToCreatePayload_RoundTrip(t *testing.T) {
	created := fullOrganization()
	first := created.ToCreatePayload()

	// what a backend would echo back after create
	var echoed Organization
	data, err := json.Marshal(created)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &echoed))

	assert.Equal(t, first, echoed.ToCreatePayload())
}

func TestToCreatePayload_ProjectIDsOnlyWhenExpanded(t *testing.T) {
	org := fullOrganization()
	org.Projects = nil
	assert.NotContains(t, marshalMap(t, org.ToCreatePayload()), "project_ids")

	org.Projects = []Project{}
	fields := marshalMap(t, org.ToCreatePayload())
	assert.Equal(t, []any{}, fields["project_ids"])
}

func TestToUpdatePayload_FullReplace(t *testing.T) {
	project := Project{ProjectID: 5, Name: "Shelter", Description: ptr("beds"), OrganizationID: nil}
	fields := marshalMap(t, project.ToUpdatePayload())

	assert.Equal(t, map[string]any{
		"name":            "Shelter",
		"description":     "beds",
		"website":         nil,
		"contact_email":   nil,
		"organization_id": nil,
	}, fields)
}

func TestDiffUpdate_ChangedOnly(t *testing.T) {
	before := Project{ProjectID: 5, Name: "Shelter", Description: ptr("beds"), OrganizationID: ptr(int64(1))}.ToCreatePayload()

	t.Run("nothing changed", func(t *testing.T) {
		assert.Empty(t, marshalMap(t, DiffProjectUpdate(before, before)))
	})

	t.Run("name and cleared fk", func(t *testing.T) {
		after := before
		after.Name = "Night Shelter"
		after.OrganizationID = nil
		assert.Equal(t, map[string]any{
			"name":            "Night Shelter",
			"organization_id": nil,
		}, marshalMap(t, DiffProjectUpdate(before, after)))
	})

	t.Run("same pointee is unchanged", func(t *testing.T) {
		after := before
		after.OrganizationID = ptr(int64(1))
		after.Description = ptr("beds")
		assert.Empty(t, marshalMap(t, DiffProjectUpdate(before, after)))
	})
}

func TestDiffOrganizationUpdate_ProjectIDsAsSet(t *testing.T) {
	before := OrganizationCreate{Name: "Acme", ProjectIDs: []int64{3, 7}}

	after := before
	after.ProjectIDs = []int64{7, 3, 3}
	assert.Empty(t, marshalMap(t, DiffOrganizationUpdate(before, after)))

	after.ProjectIDs = []int64{3, 7, 3, 9}
	fields := marshalMap(t, DiffOrganizationUpdate(before, after))
	assert.Equal(t, []any{float64(3), float64(7), float64(9)}, fields["project_ids"])

	after.ProjectIDs = []int64{}
	fields = marshalMap(t, DiffOrganizationUpdate(before, after))
	assert.Equal(t, []any{}, fields["project_ids"])
}

func TestNewUpdate_Policies(t *testing.T) {
	before := ProblemCreate{Name: "Isolation", Context: ptr("rural")}
	after := ProblemCreate{Name: "Isolation", Context: ptr("urban")}

	full := marshalMap(t, NewProblemUpdate(FullReplace, before, after))
	assert.Equal(t, map[string]any{"name": "Isolation", "context": "urban", "project_id": nil}, full)

	changed := marshalMap(t, NewProblemUpdate(ChangedOnly, before, after))
	assert.Equal(t, map[string]any{"context": "urban"}, changed)

	solBefore := SolutionCreate{Name: "Meetups"}
	solAfter := SolutionCreate{Name: "Meetups", ProblemID: ptr(int64(9))}
	assert.Equal(t, map[string]any{"problem_id": float64(9)},
		marshalMap(t, NewSolutionUpdate(ChangedOnly, solBefore, solAfter)))

	orgBefore := OrganizationCreate{Name: "Acme"}
	orgAfter := OrganizationCreate{Name: "Acme Inc"}
	assert.Equal(t, map[string]any{"name": "Acme Inc"},
		marshalMap(t, NewOrganizationUpdate(ChangedOnly, orgBefore, orgAfter)))
}

func TestOrganization_LegacyIDKey(t *testing.T) {
	var org Organization
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42, "name": "Acme", "description": null}`), &org))
	assert.Equal(t, int64(42), org.Key())
	assert.Nil(t, org.Description)

	require.NoError(t, json.Unmarshal([]byte(`{"organization_id": 7, "id": 99, "name": "B"}`), &org))
	assert.Equal(t, int64(7), org.Key())
}

func TestProject_ExpandedOrganizationDecodes(t *testing.T) {
	var p Project
	raw := `{"project_id": 5, "name": "Shelter", "organization_id": 42, "organization": {"id": 42, "name": "Acme"}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	require.NotNil(t, p.Organization)
	assert.Equal(t, int64(42), p.Organization.OrganizationID)
	assert.Equal(t, int64(42), *p.OrganizationID)
}

func TestResponse_ReplyTextFallback(t *testing.T) {
	var r Response
	raw := `{"reply_text": "hang in there", "problems": [{"problem_id": 1, "name": "Isolation"}], "solutions": [], "projects": []}`
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, "hang in there", r.Text)
	assert.Len(t, r.Problems, 1)
	assert.Empty(t, r.Solutions)

	require.NoError(t, json.Unmarshal([]byte(`{"text": "primary", "reply_text": "legacy"}`), &r))
	assert.Equal(t, "primary", r.Text)
}

func TestResponseStyle(t *testing.T) {
	s, err := ParseResponseStyle(" Empathetic ")
	require.NoError(t, err)
	assert.Equal(t, StyleEmpathetic, s)

	_, err = ParseResponseStyle("sarcastic")
	assert.Error(t, err)
	assert.False(t, ResponseStyle("").Valid())
}
