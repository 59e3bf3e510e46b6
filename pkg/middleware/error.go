package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/gumanista/hate-2-action/pkg/context"
	"github.com/gumanista/hate-2-action/pkg/errors"
	"github.com/gumanista/hate-2-action/pkg/metrics"
	"github.com/gumanista/hate-2-action/pkg/routes/page"
	"github.com/gumanista/hate-2-action/pkg/tracing"
)

// APIPrefix marks routes answered with JSON instead of an HTML page.
const APIPrefix = "/api/"

type ErrorResponse struct {
	Message   string         `json:"message"`
	RequestID string         `json:"request_id"`
	TraceID   string         `json:"trace_id"`
	Meta      map[string]any `json:"meta"`
}

// Error renders failures as the "Error: <message>" page, or as JSON under
// /api/. Backend statuses pass through, so a missing record is a 404 page.
func Error(logger ectologger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		ctx := c.Request().Context()
		// Check if the response is already committed
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal Server Error"
		meta := map[string]any{}

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		} else {
			httperr := errors.ToHTTPError(err)
			code = httperror.GetStatusCode(httperr)
			message = errors.UserMessage(err)
			if httperr.Meta != nil {
				meta = httperr.Meta
			}
		}

		if code >= http.StatusInternalServerError {
			logger.WithContext(ctx).WithError(err).Error("frontend is returning an error")
		} else {
			logger.WithContext(ctx).WithError(err).Warnf("frontend is returning status %d", code)
		}
		metrics.PageErrorsTotal.WithLabelValues(strconv.Itoa(code)).Inc()

		if strings.HasPrefix(c.Request().URL.Path, APIPrefix) {
			_ = c.JSON(code, ErrorResponse{
				Message:   message,
				RequestID: context.GetRequestID(ctx),
				TraceID:   tracing.GetTraceID(ctx),
				Meta:      meta,
			})
			return
		}

		title := "Error"
		if code == http.StatusNotFound {
			title = "Not found"
		}
		if rerr := page.Render(c, code, "error", title, page.ErrorView{Status: code, Message: message}); rerr != nil {
			logger.WithContext(ctx).WithError(rerr).Error("failed to render error page")
			_ = c.String(code, "Error: "+message)
		}
	}
}
