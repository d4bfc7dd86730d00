package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"chatrelay/internal/boot"
	"chatrelay/internal/model"
)

const groupsFile = "groups.json"

// GroupStore is the durable group catalog, persisted as a JSON array.
// Groups are never mutated or deleted once created.
type GroupStore struct {
	mu     sync.Mutex
	path   string
	groups []model.Group
}

func NewGroupStore(config *boot.Config) (*GroupStore, error) {
	s := &GroupStore{
		path: filepath.Join(config.DataDirectory(), groupsFile),
	}
	if _, err := loadSnapshot(s.path, &s.groups); err != nil {
		return nil, fmt.Errorf("loading group catalog: %w", err)
	}
	return s, nil
}

// Create registers a new named group. The name is trimmed; empty and
// whitespace-only names are rejected before any persistence is attempted.
func (s *GroupStore) Create(name string) (*model.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrorEmptyGroupName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	group := model.Group{
		ID:        model.CreateID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.groups = append(s.groups, group)
	if err := writeSnapshot(s.path, s.groups); err != nil {
		s.groups = s.groups[:len(s.groups)-1]
		return nil, fmt.Errorf("persisting group catalog: %w", err)
	}
	return &group, nil
}

// List returns all registered groups.
func (s *GroupStore) List() []model.Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make([]model.Group, len(s.groups))
	copy(groups, s.groups)
	return groups
}
