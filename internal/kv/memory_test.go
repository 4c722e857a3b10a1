package kv

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "t1/tok"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "t1/tok", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, err := store.Get(ctx, "t1/tok")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(value) != `{"a":1}` {
		t.Errorf("Get() = %q, want %q", value, `{"a":1}`)
	}

	// Overwrite is allowed at the store level; the repository guards
	// against it where it matters.
	if err := store.Set(ctx, "t1/tok", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	value, _ = store.Get(ctx, "t1/tok")
	if string(value) != `{"a":2}` {
		t.Errorf("Get() after overwrite = %q, want %q", value, `{"a":2}`)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	input := []byte("original")
	if err := store.Set(ctx, "k", input); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	input[0] = 'X'

	value, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(value) != "original" {
		t.Errorf("stored value aliased caller slice: got %q", value)
	}

	value[0] = 'Y'
	again, _ := store.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("returned value aliased internal state: got %q", again)
	}
}

func TestMemoryStoreListPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, key := range []string{"t1/a", "t1/b", "t2/a", "t10/c"} {
		if err := store.Set(ctx, key, []byte("v")); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	keys, err := store.List(ctx, "t1/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"t1/a", "t1/b"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("List(\"t1/\") = %v, want %v", keys, want)
	}

	keys, err = store.List(ctx, "t3/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List(\"t3/\") = %v, want empty", keys)
	}
}
