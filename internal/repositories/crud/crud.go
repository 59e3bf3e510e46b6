// Package crud is the REST mapping shared by every entity repository:
// list and get on the collection, plus create, update and delete for
// writable entities.
package crud

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"

	"github.com/gumanista/hate-2-action/pkg/tracing"
)

// Doer sends one JSON request to the backend. *apiclient.Client implements it.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Reader implements the read side for one entity collection.
type Reader[T any] struct {
	client Doer
	logger ectologger.Logger
	entity string
	path   string
}

// NewReader creates a reader for the collection at path. entity names the
// record in spans and logs, e.g. "Organization".
func NewReader[T any](client Doer, logger ectologger.Logger, entity, path string) *Reader[T] {
	return &Reader[T]{
		client: client,
		logger: logger,
		entity: entity,
		path:   path,
	}
}

func (r *Reader[T]) Entity() string {
	return r.entity
}

func (r *Reader[T]) CollectionPath() string {
	return r.path
}

func (r *Reader[T]) ItemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

// List returns every record. It never returns a nil slice on success.
func (r *Reader[T]) List(ctx context.Context) ([]T, error) {
	ctx, span := tracing.StartSpan(ctx, r.entity+"Repository.List")
	defer span.End()

	var items []T
	if err := r.client.Do(ctx, http.MethodGet, r.path, nil, &items); err != nil {
		r.logger.WithContext(ctx).WithError(err).Errorf("failed to list %s", r.lower())
		return nil, fmt.Errorf("failed to list %s: %w", r.lower(), err)
	}
	if items == nil {
		items = []T{}
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"entity": r.entity,
		"count":  len(items),
	}).Debug("listed records")

	return items, nil
}

// GetByID fetches one record. A missing record surfaces the backend 404.
func (r *Reader[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	ctx, span := tracing.StartSpan(ctx, r.entity+"Repository.GetByID")
	defer span.End()

	var item T
	if err := r.client.Do(ctx, http.MethodGet, r.ItemPath(id), nil, &item); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("id", id).Errorf("failed to get %s", r.lower())
		return nil, fmt.Errorf("failed to get %s %d: %w", r.lower(), id, err)
	}

	return &item, nil
}

// Search lists records and keeps those whose name contains query,
// case-insensitively. A blank query returns everything.
func (r *Reader[T]) Search(ctx context.Context, query string, name func(T) string) ([]T, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return MatchName(items, query, name), nil
}

// MatchName filters items by a case-insensitive substring of their name.
func MatchName[T any](items []T, query string, name func(T) string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	matches := ectolinq.Filter(items, func(item T) bool {
		return strings.Contains(strings.ToLower(name(item)), query)
	})
	if matches == nil {
		return []T{}
	}
	return matches
}

func (r *Reader[T]) lower() string {
	return strings.ToLower(r.entity)
}

// Repository adds the write side. C and U are the create and update payloads.
type Repository[T, C, U any] struct {
	*Reader[T]
}

func New[T, C, U any](client Doer, logger ectologger.Logger, entity, path string) *Repository[T, C, U] {
	return &Repository[T, C, U]{Reader: NewReader[T](client, logger, entity, path)}
}

// Create posts the payload and returns the stored record with its assigned key.
func (r *Repository[T, C, U]) Create(ctx context.Context, payload C) (*T, error) {
	ctx, span := tracing.StartSpan(ctx, r.entity+"Repository.Create")
	defer span.End()

	var created T
	if err := r.client.Do(ctx, http.MethodPost, r.path, payload, &created); err != nil {
		r.logger.WithContext(ctx).WithError(err).Errorf("failed to create %s", r.lower())
		return nil, fmt.Errorf("failed to create %s: %w", r.lower(), err)
	}

	r.logger.WithContext(ctx).WithField("entity", r.entity).Info("created record")

	return &created, nil
}

// Update puts the payload as given. Fields absent from it are left alone by the backend.
func (r *Repository[T, C, U]) Update(ctx context.Context, id int64, payload U) (*T, error) {
	ctx, span := tracing.StartSpan(ctx, r.entity+"Repository.Update")
	defer span.End()

	var updated T
	if err := r.client.Do(ctx, http.MethodPut, r.ItemPath(id), payload, &updated); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("id", id).Errorf("failed to update %s", r.lower())
		return nil, fmt.Errorf("failed to update %s %d: %w", r.lower(), id, err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"entity": r.entity,
		"id":     id,
	}).Info("updated record")

	return &updated, nil
}

func (r *Repository[T, C, U]) Delete(ctx context.Context, id int64) error {
	ctx, span := tracing.StartSpan(ctx, r.entity+"Repository.Delete")
	defer span.End()

	if err := r.client.Do(ctx, http.MethodDelete, r.ItemPath(id), nil, nil); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("id", id).Errorf("failed to delete %s", r.lower())
		return fmt.Errorf("failed to delete %s %d: %w", r.lower(), id, err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"entity": r.entity,
		"id":     id,
	}).Info("deleted record")

	return nil
}
