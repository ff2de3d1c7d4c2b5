package prefs

import (
	"context"
	"slices"
	"sync"
)

// Favorites is the local set of favourite video ids, kept in insertion
// order. Ids are not checked against the catalog.
type Favorites struct {
	mu    sync.Mutex
	store *Store
}

func NewFavorites(store *Store) *Favorites {
	return &Favorites{store: store}
}

// List returns the current favourites.
func (f *Favorites) List(ctx context.Context) []string {
	return Value(ctx, f.store, KeyFavorites, []string{})
}

// Add inserts id if absent and returns the resulting set.
func (f *Favorites) Add(ctx context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.add(ctx, id)
}

// Remove drops id and returns the resulting set.
func (f *Favorites) Remove(ctx context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remove(ctx, id)
}

// Toggle adds id when absent and removes it when present.
func (f *Favorites) Toggle(ctx context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if slices.Contains(f.List(ctx), id) {
		return f.remove(ctx, id)
	}
	return f.add(ctx, id)
}

// IsFavorite reports membership.
func (f *Favorites) IsFavorite(ctx context.Context, id string) bool {
	return slices.Contains(f.List(ctx), id)
}

func (f *Favorites) add(ctx context.Context, id string) ([]string, error) {
	cur := f.List(ctx)
	if slices.Contains(cur, id) {
		return cur, nil
	}
	next := append(cur, id)
	if err := f.store.Set(ctx, KeyFavorites, next); err != nil {
		return cur, err
	}
	return next, nil
}

func (f *Favorites) remove(ctx context.Context, id string) ([]string, error) {
	cur := f.List(ctx)
	next := slices.DeleteFunc(slices.Clone(cur), func(v string) bool { return v == id })
	if err := f.store.Set(ctx, KeyFavorites, next); err != nil {
		return cur, err
	}
	return next, nil
}
