/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

// Field is one named value of a Struct.
type Field struct {
	Name  string
	Value any
}

// Struct is an ordered document of fields. Values are string, int64, float64, bool or nil.
type Struct []Field

// Get returns the value of the named field.
func (s Struct) Get(name string) (any, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in order.
func (s Struct) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Map returns the fields as a map, losing their order.
func (s Struct) Map() map[string]any {
	m := make(map[string]any, len(s))
	for _, f := range s {
		m[f.Name] = f.Value
	}
	return m
}

// Collection is an ordered list of documents sharing a column set.
// A nil element is a null value: it is kept, and every column reads as NULL.
type Collection struct {
	Columns []string
	Items   []Struct
}

// NewCollection builds a collection, deriving the columns from the fields of its
// elements in first-seen order.
func NewCollection(items ...Struct) Collection {
	var columns []string
	seen := make(map[string]bool)
	for _, item := range items {
		for _, f := range item {
			if !seen[f.Name] {
				seen[f.Name] = true
				columns = append(columns, f.Name)
			}
		}
	}
	return Collection{Columns: columns, Items: items}
}

// Len returns the number of elements, nulls included.
func (c Collection) Len() int {
	return len(c.Items)
}

// Column returns the values of the named column, one per element.
func (c Collection) Column(name string) []any {
	values := make([]any, len(c.Items))
	for i, item := range c.Items {
		values[i], _ = item.Get(name)
	}
	return values
}
