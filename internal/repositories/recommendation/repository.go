package recommendation

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectologger"

	"github.com/gumanista/hate-2-action/internal/repositories/crud"
	"github.com/gumanista/hate-2-action/pkg/models"
	"github.com/gumanista/hate-2-action/pkg/tracing"
)

const Path = "/process-message"

// RecommendationRepository submits free text to the backend recommender.
type RecommendationRepository interface {
	Process(ctx context.Context, req models.ProcessMessageRequest) (*models.Response, error)
}

type Repository struct {
	client crud.Doer
	logger ectologger.Logger
}

func NewRepository(client crud.Doer, logger ectologger.Logger) *Repository {
	return &Repository{
		client: client,
		logger: logger,
	}
}

// Process returns the backend's reply and recommendations unchanged.
func (r *Repository) Process(ctx context.Context, req models.ProcessMessageRequest) (*models.Response, error) {
	ctx, span := tracing.StartSpan(ctx, "RecommendationRepository.Process")
	defer span.End()

	var resp models.Response
	if err := r.client.Do(ctx, http.MethodPost, Path, req, &resp); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to process message")
		return nil, fmt.Errorf("failed to process message: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"style":     string(req.ResponseStyle),
		"problems":  len(resp.Problems),
		"solutions": len(resp.Solutions),
		"projects":  len(resp.Projects),
	}).Info("processed message")

	return &resp, nil
}
