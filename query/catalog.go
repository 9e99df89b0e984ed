/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/suparena/ddbstreams/errors"
)

// Bindings is the catalog a query is evaluated against: collections registered under
// the names the query refers to.
type Bindings interface {
	// Bind registers a collection under name (for example, "newImages" or "oldImages").
	Bind(name string, c Collection) error
	// Lookup retrieves the collection bound to name.
	Lookup(name string) (Collection, error)
	// Names lists the bound names in sorted order.
	Names() []string
}

// catalog is a thread-safe implementation of the Bindings interface.
type catalog struct {
	mu          sync.RWMutex
	collections map[string]Collection
}

// NewBindings creates and returns an empty Bindings catalog.
func NewBindings() Bindings {
	return &catalog{
		collections: make(map[string]Collection),
	}
}

// Bind stores the provided collection under the given name. Names are compared
// case-insensitively, like the table names they become.
func (c *catalog) Bind(name string, coll Collection) error {
	if name == "" {
		return errors.NewValidationError("name", "binding name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for existing := range c.collections {
		if strings.EqualFold(existing, name) {
			return errors.NewAlreadyExistsError("binding", name)
		}
	}
	c.collections[name] = coll
	return nil
}

// Lookup retrieves the collection associated with the given name.
func (c *catalog) Lookup(name string) (Collection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	coll, exists := c.collections[name]
	if !exists {
		return Collection{}, fmt.Errorf("lookup binding: %w", errors.NewNotFoundError("binding", name))
	}
	return coll, nil
}

// Names returns all bound names
func (c *catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.collections))
	for k := range c.collections {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
