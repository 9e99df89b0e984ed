/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"fmt"
	"sync"
	"testing"

	"github.com/suparena/ddbstreams/errors"
)

func TestBindings(t *testing.T) {
	b := NewBindings()
	coll := NewCollection(Struct{{Name: "id", Value: "A"}})

	if err := b.Bind("newImages", coll); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	if err := b.Bind("newImages", coll); !errors.IsAlreadyExists(err) {
		t.Errorf("Expected already exists error, got %v", err)
	}

	if err := b.Bind("NEWIMAGES", coll); !errors.IsAlreadyExists(err) {
		t.Errorf("Expected already exists error for a name differing only in case, got %v", err)
	}

	if err := b.Bind("", coll); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for empty name, got %v", err)
	}

	got, err := b.Lookup("newImages")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.Len() != 1 {
		t.Errorf("Expected 1 element, got %d", got.Len())
	}

	if _, err := b.Lookup("oldImages"); !errors.IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestBindingsConcurrentAccess(t *testing.T) {
	b := NewBindings()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			name := fmt.Sprintf("c%d", id)
			if err := b.Bind(name, NewCollection()); err != nil {
				t.Errorf("Bind %s failed: %v", name, err)
			}
			if _, err := b.Lookup(name); err != nil {
				t.Errorf("Lookup %s failed: %v", name, err)
			}
		}(i)
	}
	wg.Wait()

	names := b.Names()
	if len(names) != 10 {
		t.Fatalf("Expected 10 names, got %d", len(names))
	}
	if names[0] != "c0" || names[9] != "c9" {
		t.Errorf("Names should be sorted, got %v", names)
	}
}

func TestCollection(t *testing.T) {
	coll := NewCollection(
		Struct{{Name: "id", Value: "A"}, {Name: "rating", Value: int64(3)}},
		nil,
		Struct{{Name: "id", Value: "B"}, {Name: "extra", Value: true}},
	)

	if want := []string{"id", "rating", "extra"}; fmt.Sprint(coll.Columns) != fmt.Sprint(want) {
		t.Errorf("Columns = %v, want %v", coll.Columns, want)
	}
	if coll.Len() != 3 {
		t.Errorf("Len = %d, want 3", coll.Len())
	}
	ids := coll.Column("id")
	if ids[0] != "A" || ids[1] != nil || ids[2] != "B" {
		t.Errorf("Column(id) = %v", ids)
	}
}
