package solution

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
	"github.com/gumanista/hate-2-action/internal/repositories/solution"
	"github.com/gumanista/hate-2-action/pkg/models"
	"github.com/gumanista/hate-2-action/pkg/query"
	"github.com/gumanista/hate-2-action/pkg/routes/page"
	"github.com/gumanista/hate-2-action/pkg/tracing"
)

const (
	basePath = "/solutions"
	formName = "solution"
)

type DetailView struct {
	Solution models.Solution
	Problem  *models.Problem
}

type Handler struct {
	solutions solution.SolutionRepository
	problems  problem.ProblemRepository
	guard     *forms.Guard
	logger    ectologger.Logger
}

func NewHandler(solutions solution.SolutionRepository, problems problem.ProblemRepository, guard *forms.Guard, logger ectologger.Logger) *Handler {
	return &Handler{
		solutions: solutions,
		problems:  problems,
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
	ctx, span := tracing.StartSpan(c.Request().Context(), "solution_handler.List")
	defer span.End()

	q := strings.TrimSpace(c.QueryParam("q"))
	solutions, err := query.New(h.solutions.Search).Fetch(ctx, q).Result()
	if err != nil {
		return err
	}

	return page.Render(c, http.StatusOK, "list", "Solutions", page.ListView{
		Heading:    "Solutions",
		Action:     basePath,
		NewHref:    basePath + "/new",
		Query:      q,
		Searchable: true,
		Items: ectolinq.Map(solutions, func(s models.Solution) page.ListItem {
			return page.ListItem{Href: page.ItemPath(basePath, s.SolutionID), Name: s.Name}
		}),
	})
}

func (h *Handler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "solution_handler.Get")
	defer span.End()

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	s, err := query.NewItem(h.solutions.GetByID).Fetch(ctx, id).Result()
	if err != nil {
		return err
	}

	view := DetailView{Solution: *s, Problem: s.Problem}
	if view.Problem == nil && s.ProblemID != nil {
		view.Problem, err = h.problems.GetByID(ctx, *s.ProblemID)
		if err != nil {
			return err
		}
	}

	return page.Render(c, http.StatusOK, "solution_detail", s.Name, view)
}

func (h *Handler) New(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "solution_handler.New")
	defer span.End()

	view, err := h.formView(ctx, forms.NewSolutionForm(nil), nil)
	if err != nil {
		return err
	}
	return page.Render(c, http.StatusOK, "solution_form", view.Heading, view)
}

func (h *Handler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "solution_handler.Create")
	defer span.End()
	ctx = page.WithForm(c, ctx, formName)

	form, err := forms.BindSolutionForm(c)
	if err != nil {
		return page.BadForm(formName)
	}

	if verr := form.Validate(); verr != nil {
		view, err := h.formView(ctx, form, nil)
		if err != nil {
			return err
		}
		return page.Invalid(c, formName, "solution_form", view.Heading, view, verr)
	}

	var created *models.Solution
	err = h.guard.Submit(ctx, form.SubmissionToken, func(ctx context.Context) error {
		var err error
		created, err = h.solutions.Create(ctx, form.CreatePayload())
		return err
	})
	if stderrors.Is(err, forms.ErrSubmitInProgress) {
		return page.Duplicate(formName)
	}
	if err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithField("solution_id", created.SolutionID).Info("solution created")
	return page.Redirect(c, page.ItemPath(basePath, created.SolutionID))
}

func (h *Handler) Edit(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "solution_handler.Edit")
	defer span.End()

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	s, err := query.NewItem(h.solutions.GetByID).Fetch(ctx, id).Result()
	if err != nil {
		return err
	}

	view, err := h.formView(ctx, forms.NewSolutionForm(s), s)
	if err != nil {
		return err
	}
	return page.Render(c, http.StatusOK, "solution_form", view.Heading, view)
}

func (h *Handler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "solution_handler.Update")
	defer span.End()
	ctx = page.WithForm(c, ctx, formName)

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	form, err := forms.BindSolutionForm(c)
	if err != nil {
		return page.BadForm(formName)
	}

	original, err := query.NewItem(h.solutions.GetByID).Fetch(ctx, id).Result()
	if err != nil {
		return err
	}

	if verr := form.Validate(); verr != nil {
		view, err := h.formView(ctx, form, original)
		if err != nil {
			return err
		}
		return page.Invalid(c, formName, "solution_form", view.Heading, view, verr)
	}

	err = h.guard.Submit(ctx, form.SubmissionToken, func(ctx context.Context) error {
		_, err := h.solutions.Update(ctx, id, form.UpdatePayload(models.FullReplace, *original))
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
	ctx, span := tracing.StartSpan(c.Request().Context(), "solution_handler.Delete")
	defer span.End()

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.solutions.Delete(ctx, id); err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithField("solution_id", id).Info("solution deleted")
	return page.Redirect(c, basePath)
}

func (h *Handler) formView(ctx context.Context, form *forms.SolutionForm, existing *models.Solution) (page.FormView, error) {
	problems, err := query.NewList(h.problems.List).Fetch(ctx, query.Unit{}).Result()
	if err != nil {
		return page.FormView{}, err
	}

	view := page.FormView{
		Heading:     "New solution",
		Action:      basePath,
		CancelHref:  basePath,
		SubmitLabel: "Create",
		Form:        form,
		Options:     form.ProblemOptions(problems),
	}
	if existing != nil {
		view.Heading = "Edit " + existing.Name
		view.Action = page.ItemPath(basePath, existing.SolutionID)
		view.CancelHref = view.Action
		view.SubmitLabel = "Save"
	}
	return view, nil
}
