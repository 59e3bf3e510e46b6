package problem

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/gumanista/hate-2-action/internal/forms"
	"github.com/gumanista/hate-2-action/internal/repositories/problem"
	"github.com/gumanista/hate-2-action/internal/repositories/project"
	"github.com/gumanista/hate-2-action/internal/repositories/solution"
	"github.com/gumanista/hate-2-action/pkg/models"
	"github.com/gumanista/hate-2-action/pkg/query"
	"github.com/gumanista/hate-2-action/pkg/routes/page"
	"github.com/gumanista/hate-2-action/pkg/tracing"
)

const (
	basePath = "/problems"
	formName = "problem"
)

type DetailView struct {
	Problem   models.Problem
	Project   *models.Project
	Solutions []models.Solution
}

type Handler struct {
	problems  problem.ProblemRepository
	projects  project.ProjectRepository
	solutions solution.SolutionRepository
	guard     *forms.Guard
	logger    ectologger.Logger
}

func NewHandler(problems problem.ProblemRepository, projects project.ProjectRepository, solutions solution.SolutionRepository, guard *forms.Guard, logger ectologger.Logger) *Handler {
	return &Handler{
		problems:  problems,
		projects:  projects,
		solutions: solutions,
		guard:     guard,
		logger:    logger,
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
	ctx, span := tracing.StartSpan(c.Request().Context(), "problem_handler.List")
	defer span.End()

	q := strings.TrimSpace(c.QueryParam("q"))
	problems, err := query.New(h.problems.Search).Fetch(ctx, q).Result()
	if err != nil {
		return err
	}

	return page.Render(c, http.StatusOK, "list", "Problems", page.ListView{
		Heading:    "Problems",
		Action:     basePath,
		NewHref:    basePath + "/new",
		Query:      q,
		Searchable: true,
		Items: ectolinq.Map(problems, func(p models.Problem) page.ListItem {
			item := page.ListItem{Href: page.ItemPath(basePath, p.ProblemID), Name: p.Name}
			if p.IsProcessed {
				item.Summary = "processed"
			}
			return item
		}),
	})
}

func (h *Handler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "problem_handler.Get")
	defer span.End()

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	p, err := query.NewItem(h.problems.GetByID).Fetch(ctx, id).Result()
	if err != nil {
		return err
	}

	view := DetailView{Problem: *p, Project: p.Project, Solutions: p.Solutions}
	if view.Project == nil && p.ProjectID != nil {
		view.Project, err = h.projects.GetByID(ctx, *p.ProjectID)
		if err != nil {
			return err
		}
	}
	if view.Solutions == nil {
		view.Solutions, err = h.solutions.ListByProblem(ctx, id)
		if err != nil {
			return err
		}
	}

	return page.Render(c, http.StatusOK, "problem_detail", p.Name, view)
}

func (h *Handler) New(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "problem_handler.New")
	defer span.End()

	view, err := h.formView(ctx, forms.NewProblemForm(nil), nil)
	if err != nil {
		return err
	}
	return page.Render(c, http.StatusOK, "problem_form", view.Heading, view)
}

func (h *Handler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "problem_handler.Create")
	defer span.End()
	ctx = page.WithForm(c, ctx, formName)

	form, err := forms.BindProblemForm(c)
	if err != nil {
		return page.BadForm(formName)
	}

	if verr := form.Validate(); verr != nil {
		view, err := h.formView(ctx, form, nil)
		if err != nil {
			return err
		}
		return page.Invalid(c, formName, "problem_form", view.Heading, view, verr)
	}

	var created *models.Problem
	err = h.guard.Submit(ctx, form.SubmissionToken, func(ctx context.Context) error {
		var err error
		created, err = h.problems.Create(ctx, form.CreatePayload())
		return err
	})
	if stderrors.Is(err, forms.ErrSubmitInProgress) {
		return page.Duplicate(formName)
	}
	if err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithField("problem_id", created.ProblemID).Info("problem created")
	return page.Redirect(c, page.ItemPath(basePath, created.ProblemID))
}

func (h *Handler) Edit(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "problem_handler.Edit")
	defer span.End()

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	p, err := query.NewItem(h.problems.GetByID).Fetch(ctx, id).Result()
	if err != nil {
		return err
	}

	view, err := h.formView(ctx, forms.NewProblemForm(p), p)
	if err != nil {
		return err
	}
	return page.Render(c, http.StatusOK, "problem_form", view.Heading, view)
}

func (h *Handler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "problem_handler.Update")
	defer span.End()
	ctx = page.WithForm(c, ctx, formName)

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	form, err := forms.BindProblemForm(c)
	if err != nil {
		return page.BadForm(formName)
	}

	original, err := query.NewItem(h.problems.GetByID).Fetch(ctx, id).Result()
	if err != nil {
		return err
	}

	if verr := form.Validate(); verr != nil {
		view, err := h.formView(ctx, form, original)
		if err != nil {
			return err
		}
		return page.Invalid(c, formName, "problem_form", view.Heading, view, verr)
	}

	err = h.guard.Submit(ctx, form.SubmissionToken, func(ctx context.Context) error {
		_, err := h.problems.Update(ctx, id, form.UpdatePayload(models.FullReplace, *original))
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
	ctx, span := tracing.StartSpan(c.Request().Context(), "problem_handler.Delete")
	defer span.End()

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.problems.Delete(ctx, id); err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithField("problem_id", id).Info("problem deleted")
	return page.Redirect(c, basePath)
}

func (h *Handler) formView(ctx context.Context, form *forms.ProblemForm, existing *models.Problem) (page.FormView, error) {
	projects, err := query.NewList(h.projects.List).Fetch(ctx, query.Unit{}).Result()
	if err != nil {
		return page.FormView{}, err
	}

	view := page.FormView{
		Heading:     "New problem",
		Action:      basePath,
		CancelHref:  basePath,
		SubmitLabel: "Create",
		Form:        form,
		Options:     form.ProjectOptions(projects),
	}
	if existing != nil {
		view.Heading = "Edit " + existing.Name
		view.Action = page.ItemPath(basePath, existing.ProblemID)
		view.CancelHref = view.Action
		view.SubmitLabel = "Save"
	}
	return view, nil
}
