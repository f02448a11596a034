// Package builds orchestrates build mutations: every add or remove triggers
// a full recompute of totals and compatibility before the build is saved.
package builds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aquilabot/KreaPC-Engine/internal/models"
	"github.com/Aquilabot/KreaPC-Engine/internal/storage"
	"github.com/Aquilabot/KreaPC-Engine/pkg/compat"
	"github.com/Aquilabot/KreaPC-Engine/pkg/pricing"
	"github.com/google/uuid"
)

type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// ValidationError marks requests rejected at the boundary; they never reach
// the engines and map to a 4xx at the transport layer.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

type MutationRequest struct {
	BuildID   string
	Action    Action
	Category  models.Category
	Component *models.Component
}

type Service struct {
	builds  storage.Builds
	catalog storage.Catalog
}

func NewService(b storage.Builds, c storage.Catalog) *Service {
	return &Service{builds: b, catalog: c}
}

func (s *Service) Create(ctx context.Context, name, description string) (*models.Build, error) {
	now := time.Now()
	b := &models.Build{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Components:  map[models.Category]*models.Component{},
		CreatedAt:   now,
	}
	s.recompute(b, now)
	if err := s.builds.SaveBuild(ctx, b); err != nil {
		return nil, fmt.Errorf("save build: %w", err)
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Build, error) {
	return s.builds.FindBuild(ctx, id)
}

// Mutate applies one add/remove and returns the fully recomputed build. An
// incompatible result is data in the report, never an error: mutations
// always return a build state.
func (s *Service) Mutate(ctx context.Context, req MutationRequest) (*models.Build, error) {
	if req.Action != ActionAdd && req.Action != ActionRemove {
		return nil, validationErr("invalid_action", "unknown action %q", req.Action)
	}
	if _, ok := models.ParseCategory(string(req.Category)); !ok {
		return nil, validationErr("invalid_category", "unknown category %q", req.Category)
	}

	b, err := s.builds.FindBuild(ctx, req.BuildID)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case ActionAdd:
		comp, err := s.resolveComponent(ctx, req)
		if err != nil {
			return nil, err
		}
		b.Components[req.Category] = comp
	case ActionRemove:
		delete(b.Components, req.Category)
	}

	s.recompute(b, time.Now())
	if err := s.builds.SaveBuild(ctx, b); err != nil {
		return nil, fmt.Errorf("save build: %w", err)
	}
	return b, nil
}

// resolveComponent accepts either a full component payload or a bare id
// pointing at an existing catalog entry.
func (s *Service) resolveComponent(ctx context.Context, req MutationRequest) (*models.Component, error) {
	c := req.Component
	if c == nil {
		return nil, validationErr("missing_component", "add requires a component")
	}

	if c.Name == "" && c.ID != "" {
		stored, err := s.catalog.FindComponent(ctx, c.ID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, validationErr("unknown_component", "component %q is not in the catalog", c.ID)
		}
		if err != nil {
			return nil, err
		}
		return stored, nil
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Category == "" {
		c.Category = req.Category
	}
	if c.Specs == nil {
		c.Specs = models.SpecBag{}
	}
	return c, nil
}

func (s *Service) recompute(b *models.Build, now time.Time) {
	totals := pricing.AggregateBuild(b)
	b.TotalPrice = totals.TotalPrice
	b.OriginalTotalPrice = totals.OriginalTotalPrice
	b.TotalDiscountPercent = totals.TotalDiscountPercent
	b.Compatibility = compat.Evaluate(b.Components)
	b.UpdatedAt = now
}
