package photos

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrDuplicateID = errors.New("duplicate photo id")
	ErrNotFound    = errors.New("photo not found")
)

// Collection es la galería de la pantalla principal: más reciente primero.
// Sólo se agrega adelante o se elimina; nunca se edita en el lugar.
type Collection struct {
	mu    sync.RWMutex
	items []Artifact
	ids   map[string]struct{}
}

func NewCollection() *Collection {
	return &Collection{ids: map[string]struct{}{}}
}

func (c *Collection) Prepend(a Artifact) error {
	if strings.TrimSpace(a.ID) == "" || strings.TrimSpace(a.URI) == "" {
		return errors.New("photo id and uri required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.ids[a.ID]; ok {
		return ErrDuplicateID
	}
	c.ids[a.ID] = struct{}{}

	items := make([]Artifact, 0, len(c.items)+1)
	items = append(items, a)
	c.items = append(items, c.items...)
	return nil
}

func (c *Collection) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.ids[id]; !ok {
		return ErrNotFound
	}
	delete(c.ids, id)

	items := make([]Artifact, 0, len(c.items)-1)
	for _, a := range c.items {
		if a.ID != id {
			items = append(items, a)
		}
	}
	c.items = items
	return nil
}

// List devuelve una copia; los llamadores no pueden mutar la colección.
func (c *Collection) List() []Artifact {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Artifact, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
