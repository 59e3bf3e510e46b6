package forms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gumanista/hate-2-action/pkg/errors"
	"github.com/gumanista/hate-2-action/pkg/models"
)

func ptr[T any](v T) *T {
	return &v
}

func postForm(values url.Values) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return e.NewContext(req, httptest.NewRecorder())
}

func marshalMap(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestOrganizationForm_MultiSelectCollapsesDuplicates(t *testing.T) {
	c := postForm(url.Values{
		"name":        {"Acme"},
		"project_ids": {"3", "7", "3"},
	})

	f, err := BindOrganizationForm(c)
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	payload := f.CreatePayload()
	assert.Equal(t, []int64{3, 7}, payload.ProjectIDs)

	update := f.UpdatePayload(models.FullReplace, models.Organization{OrganizationID: 42, Name: "Acme"})
	ids, ok := update.ProjectIDs.Get()
	require.True(t, ok)
	assert.Equal(t, []int64{3, 7}, ids)
}

func TestOrganizationForm_CreateKeepsEmptyDescription(t *testing.T) {
	c := postForm(url.Values{"name": {"Acme"}, "description": {""}, "website": {""}, "contact_email": {""}})

	f, err := BindOrganizationForm(c)
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	assert.Equal(t, map[string]any{
		"name":          "Acme",
		"description":   "",
		"website":       nil,
		"contact_email": nil,
		"project_ids":   []any{},
	}, marshalMap(t, f.CreatePayload()))
}

func TestOrganizationForm_Validation(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   map[string]string
	}{
		{
			name:   "blank name",
			values: url.Values{"name": {"   "}},
			want:   map[string]string{"name": "Name is required"},
		},
		{
			name:   "bad website and email",
			values: url.Values{"name": {"Acme"}, "website": {"acme.test"}, "contact_email": {"nope"}},
			want: map[string]string{
				"website":       "Please enter a valid URL, including http:// or https://",
				"contact_email": "Please enter a valid email address",
			},
		},
		{
			name:   "bad project key",
			values: url.Values{"name": {"Acme"}, "project_ids": {"3", "x"}},
			want:   map[string]string{"project_ids": "Please select a valid option"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := BindOrganizationForm(postForm(tt.values))
			require.NoError(t, err)

			verr, ok := errors.AsValidation(f.Validate())
			require.True(t, ok)
			assert.Equal(t, tt.want, verr.Fields)
		})
	}
}

func TestOrganizationForm_SeedsFromExisting(t *testing.T) {
	org := models.Organization{
		OrganizationID: 42,
		Name:           "Acme",
		Website:        ptr("https://acme.test"),
		Projects:       []models.Project{{ProjectID: 3, Name: "Shelter"}},
	}
	f := NewOrganizationForm(&org)
	assert.Equal(t, "Acme", f.Name)
	assert.Equal(t, "", f.Description)
	assert.Equal(t, []string{"3"}, f.ProjectIDs)
	assert.NotEmpty(t, f.SubmissionToken)

	opts := f.ProjectOptions([]models.Project{{ProjectID: 3, Name: "Shelter"}, {ProjectID: 7, Name: "Kitchen"}})
	assert.Equal(t, []Option[int64]{
		{Value: 3, Label: "Shelter", Selected: true},
		{Value: 7, Label: "Kitchen", Selected: false},
	}, opts)
}

func TestProjectForm_NullOrganizationRoundTrip(t *testing.T) {
	original := models.Project{ProjectID: 5, Name: "Shelter", Description: nil, OrganizationID: nil}
	orgs := []models.Organization{{OrganizationID: 1, Name: "Acme"}, {OrganizationID: 2, Name: "Globex"}}

	seeded := NewProjectForm(&original)
	for _, opt := range seeded.OrganizationOptions(orgs) {
		assert.False(t, opt.Selected, "organization %d must not be selected", opt.Value)
	}

	// the browser posts the seeded values back unchanged
	f, err := BindProjectForm(postForm(url.Values{
		"name":            {seeded.Name},
		"description":     {seeded.Description},
		"organization_id": {seeded.OrganizationID},
	}))
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	fields := marshalMap(t, f.UpdatePayload(models.FullReplace, original))
	require.Contains(t, fields, "organization_id")
	assert.Nil(t, fields["organization_id"])
	assert.Nil(t, fields["description"])

	assert.Empty(t, marshalMap(t, f.UpdatePayload(models.ChangedOnly, original)))

	create := marshalMap(t, f.CreatePayload())
	require.Contains(t, create, "organization_id")
	assert.Nil(t, create["organization_id"])
}

func TestProjectForm_SelectOrganization(t *testing.T) {
	original := models.Project{ProjectID: 5, Name: "Shelter"}
	f, err := BindProjectForm(postForm(url.Values{"name": {"Shelter"}, "organization_id": {"2"}}))
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	assert.Equal(t, map[string]any{"organization_id": float64(2)}, marshalMap(t, f.UpdatePayload(models.ChangedOnly, original)))

	opts := f.OrganizationOptions([]models.Organization{{OrganizationID: 1, Name: "Acme"}, {OrganizationID: 2, Name: "Globex"}})
	assert.False(t, opts[0].Selected)
	assert.True(t, opts[1].Selected)
}

func TestProjectForm_InvalidOrganization(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-4", "99999999999999999999"} {
		t.Run(raw, func(t *testing.T) {
			f, err := BindProjectForm(postForm(url.Values{"name": {"Shelter"}, "organization_id": {raw}}))
			require.NoError(t, err)

			verr, ok := errors.AsValidation(f.Validate())
			require.True(t, ok)
			assert.Equal(t, "Please select a valid organization", verr.Get("organization_id"))
		})
	}
}

func TestOrganizationForm_RejectsOutOfRangeProjectKey(t *testing.T) {
	f, err := BindOrganizationForm(postForm(url.Values{"name": {"Acme"}, "project_ids": {"3", "99999999999999999999"}}))
	require.NoError(t, err)

	verr, ok := errors.AsValidation(f.Validate())
	require.True(t, ok)
	assert.Equal(t, map[string]string{"project_ids": "Please select a valid option"}, verr.Fields)
}

func TestProblemAndSolutionForms_RejectOutOfRangeKeys(t *testing.T) {
	problem, err := BindProblemForm(postForm(url.Values{"name": {"Litter"}, "project_id": {"99999999999999999999"}}))
	require.NoError(t, err)
	verr, ok := errors.AsValidation(problem.Validate())
	require.True(t, ok)
	assert.Equal(t, "Please select a valid project", verr.Get("project_id"))

	solution, err := BindSolutionForm(postForm(url.Values{"name": {"Cleanup"}, "problem_id": {"0"}}))
	require.NoError(t, err)
	verr, ok = errors.AsValidation(solution.Validate())
	require.True(t, ok)
	assert.Equal(t, "Please select a valid problem", verr.Get("problem_id"))
}

func TestForms_AcceptLongNames(t *testing.T) {
	f, err := BindProjectForm(postForm(url.Values{"name": {strings.Repeat("n", 400)}}))
	require.NoError(t, err)
	assert.NoError(t, f.Validate())
}

func TestProblemForm_Payloads(t *testing.T) {
	original := models.Problem{ProblemID: 9, Name: "Isolation", Context: ptr("rural"), ProjectID: ptr(int64(5)), IsProcessed: true}
	f, err := BindProblemForm(postForm(url.Values{"name": {"Isolation"}, "context": {""}, "project_id": {""}}))
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	assert.Equal(t, map[string]any{"context": "", "project_id": nil},
		marshalMap(t, f.UpdatePayload(models.ChangedOnly, original)))

	full := marshalMap(t, f.UpdatePayload(models.FullReplace, original))
	assert.NotContains(t, full, "is_processed")
	assert.Equal(t, "Isolation", full["name"])
}

func TestSolutionForm_Payloads(t *testing.T) {
	f, err := BindSolutionForm(postForm(url.Values{"name": {"Meetups"}, "context": {"weekly"}, "problem_id": {"9"}}))
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	assert.Equal(t, map[string]any{"name": "Meetups", "context": "weekly", "problem_id": float64(9)},
		marshalMap(t, f.CreatePayload()))

	opts := f.ProblemOptions([]models.Problem{{ProblemID: 9, Name: "Isolation"}})
	assert.True(t, opts[0].Selected)

	seeded := NewSolutionForm(&models.Solution{SolutionID: 1, Name: "Meetups", ProblemID: ptr(int64(9))})
	assert.Equal(t, "9", seeded.ProblemID)
	assert.Empty(t, NewSolutionForm(nil).Name)
}

func TestProcessMessageForm(t *testing.T) {
	empty := NewProcessMessageForm()
	assert.False(t, empty.CanSubmit())
	for _, opt := range empty.StyleOptions() {
		assert.False(t, opt.Selected)
	}

	f, err := BindProcessMessageForm(postForm(url.Values{"message": {" I feel isolated "}}))
	require.NoError(t, err)
	assert.False(t, f.CanSubmit())
	verr, ok := errors.AsValidation(f.Validate())
	require.True(t, ok)
	assert.Equal(t, "Please select a response style", verr.Get("response_style"))

	f, err = BindProcessMessageForm(postForm(url.Values{"message": {" I feel isolated "}, "response_style": {"empathetic"}}))
	require.NoError(t, err)
	require.NoError(t, f.Validate())
	assert.True(t, f.CanSubmit())
	assert.Equal(t, models.ProcessMessageRequest{Message: "I feel isolated", ResponseStyle: models.StyleEmpathetic}, f.Request())

	opts := f.StyleOptions()
	require.Len(t, opts, 3)
	assert.Equal(t, "Empathetic", opts[0].Label)
	assert.True(t, opts[0].Selected)
}

func TestProcessMessageForm_RequiresMessage(t *testing.T) {
	f, err := BindProcessMessageForm(postForm(url.Values{"message": {"  "}, "response_style": {"rude"}}))
	require.NoError(t, err)

	verr, ok := errors.AsValidation(f.Validate())
	require.True(t, ok)
	assert.Equal(t, map[string]string{"message": "Message is required"}, verr.Fields)
}
