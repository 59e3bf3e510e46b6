package project

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
	"github.com/gumanista/hate-2-action/internal/repositories/problem"
	"github.com/gumanista/hate-2-action/internal/repositories/project"
	"github.com/gumanista/hate-2-action/pkg/models"
	"github.com/gumanista/hate-2-action/pkg/query"
	"github.com/gumanista/hate-2-action/pkg/routes/page"
	"github.com/gumanista/hate-2-action/pkg/tracing"
)

const (
	basePath = "/projects"
	formName = "project"
)

type DetailView struct {
	Project      models.Project
	Organization *models.Organization
	Problems     []models.Problem
}

type Handler struct {
	projects      project.ProjectRepository
	organizations organization.OrganizationRepository
	problems      problem.ProblemRepository
	guard         *forms.Guard
	logger        ectologger.Logger
}

func NewHandler(projects project.ProjectRepository, organizations organization.OrganizationRepository, problems problem.ProblemRepository, guard *forms.Guard, logger ectologger.Logger) *Handler {
	return &Handler{
		projects:      projects,
		organizations: organizations,
		problems:      problems,
		guard:         guard,
		logger:        logger,
	}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/new", h.New)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.GET("/:id/edit", h.Edit)
	g.POST("/:id", h.Update)
	g.POST("/:id/delete", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "project_handler.List")
	defer span.End()

	q := strings.TrimSpace(c.QueryParam("q"))
	projects, err := query.New(h.projects.Search).Fetch(ctx, q).Result()
	if err != nil {
		return err
	}

	return page.Render(c, http.StatusOK, "list", "Projects", page.ListView{
		Heading:    "Projects",
		Action:     basePath,
		NewHref:    basePath + "/new",
		Query:      q,
		Searchable: true,
		Items: ectolinq.Map(projects, func(p models.Project) page.ListItem {
			return page.ListItem{Href: page.ItemPath(basePath, p.ProjectID), Name: p.Name}
		}),
	})
}

func (h *Handler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "project_handler.Get")
	defer span.End()

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	p, err := query.NewItem(h.projects.GetByID).Fetch(ctx, id).Result()
	if err != nil {
		return err
	}

	view := DetailView{Project: *p, Organization: p.Organization, Problems: p.Problems}
	if view.Organization == nil && p.OrganizationID != nil {
		view.Organization, err = h.organizations.GetByID(ctx, *p.OrganizationID)
		if err != nil {
			return err
		}
	}
	if view.Problems == nil {
		view.Problems, err = h.problems.ListByProject(ctx, id)
		if err != nil {
			return err
		}
	}

	return page.Render(c, http.StatusOK, "project_detail", p.Name, view)
}

func (h *Handler) New(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "project_handler.New")
	defer span.End()

	view, err := h.formView(ctx, forms.NewProjectForm(nil), nil)
	if err != nil {
		return err
	}
	return page.Render(c, http.StatusOK, "project_form", view.Heading, view)
}

func (h *Handler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "project_handler.Create")
	defer span.End()
	ctx = page.WithForm(c, ctx, formName)

	form, err := forms.BindProjectForm(c)
	if err != nil {
		return page.BadForm(formName)
	}

	if verr := form.Validate(); verr != nil {
		view, err := h.formView(ctx, form, nil)
		if err != nil {
			return err
		}
		return page.Invalid(c, formName, "project_form", view.Heading, view, verr)
	}

	var created *models.Project
	err = h.guard.Submit(ctx, form.SubmissionToken, func(ctx context.Context) error {
		var err error
		created, err = h.projects.Create(ctx, form.CreatePayload())
		return err
	})
	if stderrors.Is(err, forms.ErrSubmitInProgress) {
		return page.Duplicate(formName)
	}
	if err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithField("project_id", created.ProjectID).Info("project created")
	return page.Redirect(c, page.ItemPath(basePath, created.ProjectID))
}

func (h *Handler) Edit(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "project_handler.Edit")
	defer span.End()

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	p, err := query.NewItem(h.projects.GetByID).Fetch(ctx, id).Result()
	if err != nil {
		return err
	}

	view, err := h.formView(ctx, forms.NewProjectForm(p), p)
	if err != nil {
		return err
	}
	return page.Render(c, http.StatusOK, "project_form", view.Heading, view)
}

func (h *Handler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "project_handler.Update")
	defer span.End()
	ctx = page.WithForm(c, ctx, formName)

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	form, err := forms.BindProjectForm(c)
	if err != nil {
		return page.BadForm(formName)
	}

	original, err := query.NewItem(h.projects.GetByID).Fetch(ctx, id).Result()
	if err != nil {
		return err
	}

	if verr := form.Validate(); verr != nil {
		view, err := h.formView(ctx, form, original)
		if err != nil {
			return err
		}
		return page.Invalid(c, formName, "project_form", view.Heading, view, verr)
	}

	err = h.guard.Submit(ctx, form.SubmissionToken, func(ctx context.Context) error {
		_, err := h.projects.Update(ctx, id, form.UpdatePayload(models.FullReplace, *original))
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

func (h *Handler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "project_handler.Delete")
	defer span.End()

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.projects.Delete(ctx, id); err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithField("project_id", id).Info("project deleted")
	return page.Redirect(c, basePath)
}

func (h *Handler) formView(ctx context.Context, form *forms.ProjectForm, existing *models.Project) (page.FormView, error) {
	organizations, err := query.NewList(h.organizations.List).Fetch(ctx, query.Unit{}).Result()
	if err != nil {
		return page.FormView{}, err
	}

	view := page.FormView{
		Heading:     "New project",
		Action:      basePath,
		CancelHref:  basePath,
		SubmitLabel: "Create",
		Form:        form,
		Options:     form.OrganizationOptions(organizations),
	}
	if existing != nil {
		view.Heading = "Edit " + existing.Name
		view.Action = page.ItemPath(basePath, existing.ProjectID)
		view.CancelHref = view.Action
		view.SubmitLabel = "Save"
	}
	return view, nil
}
