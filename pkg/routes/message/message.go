package message

import (
	"fmt"
	"net/http"

	"github.com/Gobusters/ectolinq"
	"github.com/labstack/echo/v4"

	"github.com/gumanista/hate-2-action/internal/repositories/message"
	"github.com/gumanista/hate-2-action/pkg/models"
	"github.com/gumanista/hate-2-action/pkg/query"
	"github.com/gumanista/hate-2-action/pkg/routes/page"
	"github.com/gumanista/hate-2-action/pkg/tracing"
)

const basePath = "/messages"

// summaryLength caps the message preview on the list page.
const summaryLength = 80

// Handler serves the read-only message log.
type Handler struct {
	messages message.MessageRepository
}

func NewHandler(messages message.MessageRepository) *Handler {
	return &Handler{messages: messages}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
}

// List handles GET /messages
func (h *Handler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "message_handler.List")
	defer span.End()

	messages, err := query.NewList(h.messages.List).Fetch(ctx, query.Unit{}).Result()
	if err != nil {
		return err
	}

	return page.Render(c, http.StatusOK, "list", "Messages", page.ListView{
		Heading: "Messages",
		Action:  basePath,
		Items: ectolinq.Map(messages, func(m models.Message) page.ListItem {
			return page.ListItem{
				Href:    page.ItemPath(basePath, m.MessageID),
				Name:    author(m),
				Summary: preview(m.Text),
			}
		}),
	})
}

// Get handles GET /messages/:id
func (h *Handler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "message_handler.Get")
	defer span.End()

	id, err := page.ParseID(c, "id")
	if err != nil {
		return err
	}

	m, err := query.NewItem(h.messages.GetByID).Fetch(ctx, id).Result()
	if err != nil {
		return err
	}

	return page.Render(c, http.StatusOK, "message_detail", fmt.Sprintf("Message %d", m.MessageID), *m)
}

func author(m models.Message) string {
	if m.UserUsername != nil && *m.UserUsername != "" {
		return "@" + *m.UserUsername
	}
	return fmt.Sprintf("user %d", m.UserID)
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= summaryLength {
		return text
	}
	return string(runes[:summaryLength]) + "…"
}
