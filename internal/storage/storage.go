// Package storage declares the persistence boundary the engines depend on.
// The storage engine itself is an external collaborator; this package ships
// an in-memory implementation for wiring and tests.
package storage

import (
	"context"
	"errors"

	"github.com/Aquilabot/KreaPC-Engine/internal/models"
)

var ErrNotFound = errors.New("storage: not found")

type Catalog interface {
	FindComponent(ctx context.Context, id string) (*models.Component, error)
	UpsertComponent(ctx context.Context, c *models.Component) error
	// FindSimilarByCategory returns the candidate set the ingestion pipeline
	// fuzzy-matches incoming items against.
	FindSimilarByCategory(ctx context.Context, cat models.Category) ([]*models.Component, error)
}

type Builds interface {
	FindBuild(ctx context.Context, id string) (*models.Build, error)
	SaveBuild(ctx context.Context, b *models.Build) error
}
