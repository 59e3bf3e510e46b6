package message

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/gumanista/hate-2-action/internal/repositories/crud"
	"github.com/gumanista/hate-2-action/pkg/models"
)

const Path = "/messages"

// MessageRepository is read-only; messages arrive through the bot.
type MessageRepository interface {
	List(ctx context.Context) ([]models.Message, error)
	GetByID(ctx context.Context, id int64) (*models.Message, error)
}

type Repository struct {
	*crud.Reader[models.Message]
}

func NewRepository(client crud.Doer, logger ectologger.Logger) *Repository {
	return &Repository{
		Reader: crud.NewReader[models.Message](client, logger, "Message", Path),
	}
}
