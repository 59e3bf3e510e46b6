package processmessage

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/gumanista/hate-2-action/internal/forms"
	"github.com/gumanista/hate-2-action/internal/repositories/recommendation"
	"github.com/gumanista/hate-2-action/pkg/errors"
	"github.com/gumanista/hate-2-action/pkg/metrics"
	"github.com/gumanista/hate-2-action/pkg/models"
	"github.com/gumanista/hate-2-action/pkg/routes/page"
	"github.com/gumanista/hate-2-action/pkg/tracing"
)

const (
	path     = "/process-message"
	formName = "process_message"
	title    = "Process a message"
)

// View drives templates/process_message.html. Response is nil until the
// backend has answered.
type View struct {
	Form     *forms.ProcessMessageForm
	Response *models.Response
}

type Handler struct {
	recommendations recommendation.RecommendationRepository
	guard           *forms.Guard
	logger          ectologger.Logger
}

func NewHandler(recommendations recommendation.RecommendationRepository, guard *forms.Guard, logger ectologger.Logger) *Handler {
	return &Handler{
		recommendations: recommendations,
		guard:           guard,
		logger:          logger,
	}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET(path, h.Show)
	e.POST(path, h.Process)
}

// Show handles GET /process-message
func (h *Handler) Show(c echo.Context) error {
	return page.Render(c, http.StatusOK, "process_message", title, View{Form: forms.NewProcessMessageForm()})
}

// Process handles POST /process-message and renders the reply under the form.
func (h *Handler) Process(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "processmessage_handler.Process")
	defer span.End()
	ctx = page.WithForm(c, ctx, formName)

	form, err := forms.BindProcessMessageForm(c)
	if err != nil {
		return page.BadForm(formName)
	}

	if verr := form.Validate(); verr != nil {
		ve, ok := errors.AsValidation(verr)
		if !ok {
			return verr
		}
		metrics.FormRejectionsTotal.WithLabelValues(formName, "validation").Inc()
		return page.RenderWithErrors(c, http.StatusUnprocessableEntity, "process_message", title, View{Form: form}, ve)
	}

	var resp *models.Response
	err = h.guard.Submit(ctx, form.SubmissionToken, func(ctx context.Context) error {
		var err error
		resp, err = h.recommendations.Process(ctx, form.Request())
		return err
	})
	if stderrors.Is(err, forms.ErrSubmitInProgress) {
		return page.Duplicate(formName)
	}
	if err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithField("response_style", form.ResponseStyle).Debug("rendering recommendations")

	// a fresh token lets the user send another message from the same page
	form.SubmissionToken = forms.NewSubmissionToken()
	return page.Render(c, http.StatusOK, "process_message", title, View{Form: form, Response: resp})
}
