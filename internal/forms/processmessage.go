package forms

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gumanista/hate-2-action/pkg/models"
)

// ProcessMessageForm has no default style; the user must pick one.
type ProcessMessageForm struct {
	Message         string `form:"message" validate:"required"`
	ResponseStyle   string `form:"response_style" validate:"required,oneof=empathetic rude formal"`
	SubmissionToken string `form:"submission_token" validate:"-"`
}

func NewProcessMessageForm() *ProcessMessageForm {
	return &ProcessMessageForm{SubmissionToken: NewSubmissionToken()}
}

func BindProcessMessageForm(c echo.Context) (*ProcessMessageForm, error) {
	f := &ProcessMessageForm{}
	if err := c.Bind(f); err != nil {
		return nil, err
	}
	f.normalize()
	return f, nil
}

func (f *ProcessMessageForm) normalize() {
	f.Message = strings.TrimSpace(f.Message)
	f.ResponseStyle = strings.TrimSpace(f.ResponseStyle)
}

func (f *ProcessMessageForm) Validate() error {
	f.normalize()
	return Validate(f)
}

// CanSubmit is false until a valid style is chosen.
func (f *ProcessMessageForm) CanSubmit() bool {
	return models.ResponseStyle(f.ResponseStyle).Valid()
}

// StyleOptions lists the styles for the radio group.
func (f *ProcessMessageForm) StyleOptions() []Option[models.ResponseStyle] {
	return Options(models.ResponseStyles,
		func(s models.ResponseStyle) models.ResponseStyle { return s },
		func(s models.ResponseStyle) string { return strings.ToUpper(string(s)[:1]) + string(s)[1:] },
		func(s models.ResponseStyle) bool { return string(s) == f.ResponseStyle },
	)
}

func (f *ProcessMessageForm) Request() models.ProcessMessageRequest {
	return models.ProcessMessageRequest{
		Message:       f.Message,
		ResponseStyle: models.ResponseStyle(f.ResponseStyle),
	}
}
