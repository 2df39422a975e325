package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/labelpress/labelpress/pkg/errors"
)

// MemoryStore is an in-process store for development and tests. It
// implements both TemplateStore and EntityStore.
type MemoryStore struct {
	mu           sync.RWMutex
	templates    map[string]Template
	versions     map[string]Version // keyed by templateID+"/"+versionID
	associations map[string][]Association
	entities     map[string]Entity // keyed by entityType+"/"+entityID
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		templates:    make(map[string]Template),
		versions:     make(map[string]Version),
		associations: make(map[string][]Association),
		entities:     make(map[string]Entity),
	}
}

func versionKey(templateID, versionID string) string {
	return templateID + "/" + versionID
}

// PutTemplate stores a template, overwriting any previous one.
func (s *MemoryStore) PutTemplate(t Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.ID] = t
}

// PutAssociation appends an association for an entity type.
func (s *MemoryStore) PutAssociation(a Association) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.associations[a.EntityType] = append(s.associations[a.EntityType], a)
}

// PutEntity stores an entity record.
func (s *MemoryStore) PutEntity(entityType, entityID string, e Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[entityType+"/"+entityID] = e
}

func (s *MemoryStore) Template(ctx context.Context, id string) (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return Template{}, errors.New(errors.ErrCodeNotFound, "template %q not found", id)
	}
	return t, nil
}

func (s *MemoryStore) Version(ctx context.Context, templateID, versionID string) (Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.versions[versionKey(templateID, versionID)]
	if !ok {
		return Version{}, errors.New(errors.ErrCodeNotFound, "version %q of template %q not found", versionID, templateID)
	}
	return v, nil
}

func (s *MemoryStore) CreateVersion(ctx context.Context, v Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := versionKey(v.TemplateID, v.ID)
	if _, exists := s.versions[key]; exists {
		return errors.New(errors.ErrCodeConflict, "version %q already exists for template %q", v.ID, v.TemplateID)
	}
	s.versions[key] = v
	return nil
}

func (s *MemoryStore) ReplaceElements(ctx context.Context, templateID, versionID string, elements json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := versionKey(templateID, versionID)
	v, ok := s.versions[key]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "version %q of template %q not found", versionID, templateID)
	}
	normalized, err := prepareElements(v, elements)
	if err != nil {
		return err
	}
	v.Elements = normalized
	s.versions[key] = v
	return nil
}

func (s *MemoryStore) Associations(ctx context.Context, entityType string) ([]Association, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.associations[entityType]
	out := make([]Association, len(list))
	copy(out, list)
	return out, nil
}

func (s *MemoryStore) Entity(ctx context.Context, entityType, entityID string) (Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entities[entityType+"/"+entityID]
	if !ok {
		return Entity{}, errors.New(errors.ErrCodeNotFound, "entity %s/%s not found", entityType, entityID)
	}
	return e, nil
}
