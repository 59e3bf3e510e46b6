package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

// RequestFailedError is returned for any backend response outside 2xx.
type RequestFailedError struct {
	Method     string
	Path       string
	StatusCode int
	// Detail is the backend's "detail" message, if it sent one
	Detail string
}

func NewRequestFailedError(method, path string, statusCode int, detail string) *RequestFailedError {
	return &RequestFailedError{
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Detail:     detail,
	}
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Message())
}

// Message is what gets shown to the user.
func (e *RequestFailedError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return "request failed"
}

func (e *RequestFailedError) ToHTTPError() *httperror.HTTPError {
	code := e.StatusCode
	if code >= http.StatusInternalServerError || code < http.StatusBadRequest {
		code = http.StatusBadGateway
	}
	return httperror.NewHTTPError(code, e.Message()).
		AddMetaValue("backend_method", e.Method).
		AddMetaValue("backend_path", e.Path).
		AddMetaValue("backend_status", strconv.Itoa(e.StatusCode))
}

// NetworkError wraps a transport-level failure (refused connection, DNS, timeout).
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func NewNetworkError(method, path string, err error) *NetworkError {
	return &NetworkError{Method: method, Path: path, Err: err}
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: backend unreachable: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadGateway, "backend unreachable").
		AddMetaValue("backend_method", e.Method).
		AddMetaValue("backend_path", e.Path)
}

// ConfigurationMissingError is fatal at startup.
type ConfigurationMissingError struct {
	Key string
}

func NewConfigurationMissingError(key string) *ConfigurationMissingError {
	return &ConfigurationMissingError{Key: key}
}

func (e *ConfigurationMissingError) Error() string {
	return fmt.Sprintf("required configuration %s is not set", e.Key)
}

func (e *ConfigurationMissingError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusInternalServerError, e.Error())
}

// ValidationError holds form field errors keyed by form field name.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add keeps the first message recorded for a field.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
	return e
}

func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e *ValidationError) Get(field string) string {
	return e.Fields[field]
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns nil when no field failed so callers can return it as an error directly.
func (e *ValidationError) OrNil() error {
	if e == nil || e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) ToHTTPError() *httperror.HTTPError {
	httpErr := httperror.NewHTTPError(http.StatusUnprocessableEntity, e.Error())
	for field, message := range e.Fields {
		httpErr = httpErr.AddMetaValue(field, message)
	}
	return httpErr
}

func AsRequestFailed(err error) (*RequestFailedError, bool) {
	var rf *RequestFailedError
	if stderrors.As(err, &rf) {
		return rf, true
	}
	return nil, false
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	rf, ok := AsRequestFailed(err)
	return ok && rf.StatusCode == http.StatusNotFound
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return stderrors.As(err, &ne)
}

type httpConvertible interface {
	ToHTTPError() *httperror.HTTPError
}

// ToHTTPError maps any error onto an HTTP error for the page error handler.
func ToHTTPError(err error) *httperror.HTTPError {
	var convertible httpConvertible
	if stderrors.As(err, &convertible) {
		return convertible.ToHTTPError()
	}
	if httperror.IsHTTPError(err) {
		return httperror.ToHTTPError(err)
	}
	return httperror.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// UserMessage is the text shown after "Error:" on the error page.
func UserMessage(err error) string {
	if rf, ok := AsRequestFailed(err); ok {
		return rf.Message()
	}
	if IsNetwork(err) {
		return "backend unreachable"
	}
	if httperror.IsHTTPError(err) {
		return httperror.ToHTTPError(err).Error()
	}
	return err.Error()
}
