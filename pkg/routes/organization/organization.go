package organization

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/gumanista/hate-2-action/internal/forms"
	"github.com/gumanista/hate-2-action/internal/repositories/organization"
	"github.com/gumanista/hate-2-action/internal/repositories/project"
	"github.com/gumanista/hate-2-action/pkg/models"
	"github.com/gumanista/hate-2-action/pkg/query"
	"github.com/gumanista/hate-2-action/pkg/routes/page"
	"github.com/gumanista/hate-2-action/pkg/tracing"
)

const (
	basePath = "/organizations"
	formName = "organization"
)

// DetailView drives templates/organization_detail.html.
type DetailView struct {
	Organization models.Organization
	Projects     []models.Project
}

// Handler serves the organization pages.
type Handler struct {
	organizations organization.OrganizationRepository
	projects      project.ProjectRepository
	guard         *forms.Guard
	logger        ectologger.Logger
}

func NewHandler(organizations organization.OrganizationRepository, projects project.ProjectRepository, guard *forms.Guard, logger ectologger.Logger) *Handler {
	return &Handler{
		organizations: organizations,
		projects:      projects,
		guard:         guard,
		logger:        logger,
	}
}

// Register registers the organization routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/new", h.New)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.GET("/:id/edit", h.Edit)
	g.POST("/:id", h.Update)
	g.POST("/:id/delete", h.Delete)
}

// List handles GET /organizations
func (h *Handler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "organization_handler.List")
	defer span.End()

	q := strings.TrimSpace(c.QueryParam("q"))
	organizations, err := query.New(h.organizations.Search).Fetch(ctx, q).Result()
	if err != nil {
		return err
	}

	return page.Render(c, http.StatusOK, "list", "Organizations", page.ListView{
		Heading:    "Organizations",
		Action:     basePath,
		NewHref:    basePath + "/new",
		Query:      q,
		Searchable: true,
		Items: ectolinq.Map(organizations, func(o models.Organization) page.ListItem {
			return page.ListItem{Href: page.ItemPath(basePath, o.OrganizationID), Name: o.Name}
		}),
	})
}

// Get handles GET /organizations/:id
func (h *Handler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "organization_handler.Get")
	defer span.End()

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	org, err := query.NewItem(h.organizations.GetByID).Fetch(ctx, id).Result()
	if err != nil {
		return err
	}

	if err := h.loadProjects(ctx, org); err != nil {
		return err
	}

	return page.Render(c, http.StatusOK, "organization_detail", org.Name, DetailView{
		Organization: *org,
		Projects:     org.Projects,
	})
}

// New handles GET /organizations/new
func (h *Handler) New(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "organization_handler.New")
	defer span.End()

	view, err := h.formView(ctx, forms.NewOrganizationForm(nil), nil)
	if err != nil {
		return err
	}
	return page.Render(c, http.StatusOK, "organization_form", view.Heading, view)
}

// Create handles POST /organizations
func (h *Handler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "organization_handler.Create")
	defer span.End()
	ctx = page.WithForm(c, ctx, formName)

	form, err := forms.BindOrganizationForm(c)
	if err != nil {
		return page.BadForm(formName)
	}

	if verr := form.Validate(); verr != nil {
		view, err := h.formView(ctx, form, nil)
		if err != nil {
			return err
		}
		return page.Invalid(c, formName, "organization_form", view.Heading, view, verr)
	}

	var created *models.Organization
	err = h.guard.Submit(ctx, form.SubmissionToken, func(ctx context.Context) error {
		var err error
		created, err = h.organizations.Create(ctx, form.CreatePayload())
		return err
	})
	if stderrors.Is(err, forms.ErrSubmitInProgress) {
		return page.Duplicate(formName)
	}
	if err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithField("organization_id", created.OrganizationID).Info("organization created")
	return page.Redirect(c, page.ItemPath(basePath, created.OrganizationID))
}

// Edit handles GET /organizations/:id/edit
func (h *Handler) Edit(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "organization_handler.Edit")
	defer span.End()

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	org, err := query.NewItem(h.organizations.GetByID).Fetch(ctx, id).Result()
	if err != nil {
		return err
	}
	if err := h.loadProjects(ctx, org); err != nil {
		return err
	}

	view, err := h.formView(ctx, forms.NewOrganizationForm(org), org)
	if err != nil {
		return err
	}
	return page.Render(c, http.StatusOK, "organization_form", view.Heading, view)
}

// Update handles POST /organizations/:id
func (h *Handler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "organization_handler.Update")
	defer span.End()
	ctx = page.WithForm(c, ctx, formName)

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	form, err := forms.BindOrganizationForm(c)
	if err != nil {
		return page.BadForm(formName)
	}

	original, err := query.NewItem(h.organizations.GetByID).Fetch(ctx, id).Result()
	if err != nil {
		return err
	}
	// the full-replace payload must start from the current links
	if err := h.loadProjects(ctx, original); err != nil {
		return err
	}

	if verr := form.Validate(); verr != nil {
		view, err := h.formView(ctx, form, original)
		if err != nil {
			return err
		}
		return page.Invalid(c, formName, "organization_form", view.Heading, view, verr)
	}

	err = h.guard.Submit(ctx, form.SubmissionToken, func(ctx context.Context) error {
		_, err := h.organizations.Update(ctx, id, form.UpdatePayload(models.FullReplace, *original))
		return err
	})
	if stderrors.Is(err, forms.ErrSubmitInProgress) {
		return page.Duplicate(formName)
	}
	if err != nil {
		return err
	}

	return page.Redirect(c, page.ItemPath(basePath, id))
}

// Delete handles POST /organizations/:id/delete
func (h *Handler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "organization_handler.Delete")
	defer span.End()

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.organizations.Delete(ctx, id); err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithField("organization_id", id).Info("organization deleted")
	return page.Redirect(c, basePath)
}

// loadProjects fills org.Projects when the backend did not expand the relation.
func (h *Handler) loadProjects(ctx context.Context, org *models.Organization) error {
	if org.Projects != nil {
		return nil
	}
	projects, err := h.projects.ListByOrganization(ctx, org.OrganizationID)
	if err != nil {
		return err
	}
	if projects == nil {
		projects = []models.Project{}
	}
	org.Projects = projects
	return nil
}

// formView loads the project options; existing is nil on the create form.
func (h *Handler) formView(ctx context.Context, form *forms.OrganizationForm, existing *models.Organization) (page.FormView, error) {
	projects, err := query.NewList(h.projects.List).Fetch(ctx, query.Unit{}).Result()
	if err != nil {
		return page.FormView{}, err
	}

	view := page.FormView{
		Heading:     "New organization",
		Action:      basePath,
		CancelHref:  basePath,
		SubmitLabel: "Create",
		Form:        form,
		Options:     form.ProjectOptions(projects),
	}
	if existing != nil {
		view.Heading = "Edit " + existing.Name
		view.Action = page.ItemPath(basePath, existing.OrganizationID)
		view.CancelHref = view.Action
		view.SubmitLabel = "Save"
	}
	return view, nil
}
