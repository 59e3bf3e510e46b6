// Package page holds the view models and helpers shared by the HTML route
// handlers.
package page

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	appctx "github.com/gumanista/hate-2-action/pkg/context"
	"github.com/gumanista/hate-2-action/pkg/errors"
	"github.com/gumanista/hate-2-action/pkg/metrics"
	"github.com/gumanista/hate-2-action/pkg/views"
)

// ListItem is one row of a list page.
type ListItem struct {
	Href    string
	Name    string
	Summary string
}

// ListView drives templates/list.html.
type ListView struct {
	Heading    string
	Action     string
	NewHref    string
	Query      string
	Searchable bool
	Items      []ListItem
}

// FormView drives the entity form templates. Options feeds the relation
// selector of the form.
type FormView struct {
	Heading     string
	Action      string
	CancelHref  string
	SubmitLabel string
	Form        any
	Options     any
}

// ErrorView drives templates/error.html.
type ErrorView struct {
	Status  int
	Message string
}

// WithForm tags both ctx and the request with the submitted form so the
// request log line carries it.
func WithForm(c echo.Context, ctx context.Context, form string) context.Context {
	c.SetRequest(c.Request().WithContext(appctx.SetForm(c.Request().Context(), form)))
	return appctx.SetForm(ctx, form)
}

// ItemPath is the frontend path of one record.
func ItemPath(collection string, id int64) string {
	return fmt.Sprintf("%s/%d", collection, id)
}

// ParseID parses the integer key from a path parameter
func ParseID(c echo.Context, param string) (int64, error) {
	raw := c.Param(param)
	if raw == "" {
		return 0, httperror.NewHTTPError(http.StatusBadRequest, "missing "+param)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid %s: must be a positive integer", param)
	}

	return id, nil
}

// Render writes a full page with the request id attached.
func Render(c echo.Context, status int, name, title string, data any) error {
	return RenderWithErrors(c, status, name, title, data, nil)
}

func RenderWithErrors(c echo.Context, status int, name, title string, data any, errs *errors.ValidationError) error {
	return c.Render(status, name, views.Page{
		Title:     title,
		Data:      data,
		Errors:    errs,
		RequestID: appctx.GetRequestID(c.Request().Context()),
	})
}

// Invalid re-renders a form with its field errors and a 422 status.
func Invalid(c echo.Context, form, name, title string, view FormView, err error) error {
	ve, ok := errors.AsValidation(err)
	if !ok {
		return err
	}
	metrics.FormRejectionsTotal.WithLabelValues(form, "validation").Inc()
	return RenderWithErrors(c, http.StatusUnprocessableEntity, name, title, view, ve)
}

// Duplicate is returned when the same rendered form is posted while its
// first submission is still running.
func Duplicate(form string) error {
	metrics.FormRejectionsTotal.WithLabelValues(form, "duplicate").Inc()
	return httperror.NewHTTPError(http.StatusConflict, "This form is already being submitted")
}

// BadForm is returned when the request body cannot be bound.
func BadForm(form string) error {
	metrics.FormRejectionsTotal.WithLabelValues(form, "bind").Inc()
	return httperror.NewHTTPError(http.StatusBadRequest, "invalid form body")
}

// Redirect sends the browser to path with 303 See Other after a POST.
func Redirect(c echo.Context, path string) error {
	return c.Redirect(http.StatusSeeOther, path)
}
