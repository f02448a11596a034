package storage

import (
	"context"
	"sync"

	"github.com/Aquilabot/KreaPC-Engine/internal/models"
)

// Memory implements Catalog and Builds in process memory.
type Memory struct {
	mu         sync.RWMutex
	components map[string]*models.Component
	builds     map[string]*models.Build
}

func NewMemory() *Memory {
	return &Memory{
		components: map[string]*models.Component{},
		builds:     map[string]*models.Build{},
	}
}

func (m *Memory) FindComponent(_ context.Context, id string) (*models.Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.components[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *Memory) UpsertComponent(_ context.Context, c *models.Component) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components[c.ID] = c
	return nil
}

func (m *Memory) FindSimilarByCategory(_ context.Context, cat models.Category) ([]*models.Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Component
	for _, c := range m.components {
		if c.Category == cat {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Memory) FindBuild(_ context.Context, id string) (*models.Build, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.builds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (m *Memory) SaveBuild(_ context.Context, b *models.Build) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builds[b.ID] = b
	return nil
}
