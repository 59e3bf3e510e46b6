package views_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gumanista/hate-2-action/pkg/routes/page"
	"github.com/gumanista/hate-2-action/pkg/views"
)

func TestNew_ParsesEveryPage(t *testing.T) {
	r, err := views.New()
	require.NoError(t, err)

	for _, name := range []string{
		"home", "error", "list",
		"organization_detail", "organization_form",
		"project_detail", "project_form",
		"problem_detail", "problem_form",
		"solution_detail", "solution_form",
		"message_detail", "process_message",
	} {
		assert.True(t, r.Has(name), name)
	}
	assert.False(t, r.Has("layout"))
	assert.False(t, r.Has("partials"))
}

func TestRender_List(t *testing.T) {
	r, err := views.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, "list", views.Page{
		Title:     "Problems",
		RequestID: "req-1",
		Data: page.ListView{
			Heading:    "Problems",
			Action:     "/problems",
			Searchable: true,
			Query:      "<litter>",
			Items:      []page.ListItem{{Href: "/problems/3", Name: "Litter", Summary: "processed"}},
		},
	}, nil)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `<a href="/problems/3">Litter</a>`)
	assert.Contains(t, html, "processed")
	assert.Contains(t, html, "&lt;litter&gt;")
	assert.Contains(t, html, "req-1")
	assert.NotContains(t, html, "No items")
}

func TestRender_EmptyList(t *testing.T) {
	r, err := views.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "list", page.ListView{Heading: "Solutions"}, nil))
	assert.Contains(t, buf.String(), "No items")
}

func TestRender_ErrorPage(t *testing.T) {
	r, err := views.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "error", views.Page{Data: page.ErrorView{Status: 404, Message: "Problem not found"}}, nil))
	assert.Contains(t, buf.String(), "Not found")
	assert.Contains(t, buf.String(), "Error: Problem not found")
}

func TestRender_UnknownPage(t *testing.T) {
	r, err := views.New()
	require.NoError(t, err)

	err = r.Render(&bytes.Buffer{}, "nope", nil, nil)
	assert.EqualError(t, err, `unknown page "nope"`)
}
