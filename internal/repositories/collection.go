package repositories

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/docstore"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
)

// recordPtr constrains PT to a pointer to T implementing models.Record.
type recordPtr[T any] interface {
	*T
	models.Record
}

// Collection is a typed view of one top-level collection in the store.
type Collection[T any, PT recordPtr[T]] struct {
	store  docstore.Store
	name   string
	logger logging.Logger
	now    func() time.Time

	// beforeWrite runs on every record handed to Add or Update.
	beforeWrite func(PT)
}

func newCollection[T any, PT recordPtr[T]](store docstore.Store, name string, logger logging.Logger, now func() time.Time) *Collection[T, PT] {
	return &Collection[T, PT]{
		store:  store,
		name:   name,
		logger: logger.With("collection", name),
		now:    now,
	}
}

// Name returns the collection path.
func (c *Collection[T, PT]) Name() string { return c.name }

// GetAll returns every record, newest first. Failures are logged and yield an
// empty slice.
func (c *Collection[T, PT]) GetAll(ctx context.Context) []T {
	items, err := c.list(ctx)
	if err != nil {
		c.logger.Error(ctx, "read collection failed", "error", err)
		return []T{}
	}
	return items
}

func (c *Collection[T, PT]) list(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(ctx, c.name)
	if err != nil {
		return nil, err
	}
	return c.decode(ctx, raw), nil
}

// decode turns a collection snapshot into a sorted slice. Children that do
// not decode are skipped.
func (c *Collection[T, PT]) decode(ctx context.Context, raw json.RawMessage) []T {
	if raw == nil {
		return []T{}
	}

	var children map[string]json.RawMessage
	if err := json.Unmarshal(raw, &children); err != nil {
		c.logger.Error(ctx, "collection is not an object", "error", err)
		return []T{}
	}

	items := make([]T, 0, len(children))
	for id, body := range children {
		var item T
		if err := json.Unmarshal(body, &item); err != nil {
			c.logger.Warn(ctx, "skipping undecodable document", "id", id, "error", err)
			continue
		}
		PT(&item).SetKey(id)
		items = append(items, item)
	}

	sortNewestFirst[T, PT](items)
	return items
}

// sortNewestFirst orders by createdAt descending, then by key descending so
// that records without a timestamp still have a stable position.
func sortNewestFirst[T any, PT recordPtr[T]](items []T) {
	slices.SortFunc(items, func(a, b T) int {
		pa, pb := PT(&a), PT(&b)
		if c := pb.Created().Compare(pa.Created()); c != 0 {
			return c
		}
		return cmp.Compare(pb.Key(), pa.Key())
	})
}

// Get returns the record stored under id, or nil when there is none.
func (c *Collection[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	raw, err := c.store.Get(ctx, c.path(id))
	if err != nil {
		return nil, fmt.Errorf("%w: get %s/%s: %v", common.ErrPersistence, c.name, id, err)
	}
	if raw == nil {
		return nil, nil
	}
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("%w: decode %s/%s: %v", common.ErrPersistence, c.name, id, err)
	}
	PT(&item).SetKey(id)
	return &item, nil
}

// Add validates rec, stamps createdAt and updatedAt and stores it under a
// new key. The returned record carries the key.
func (c *Collection[T, PT]) Add(ctx context.Context, rec T) (T, error) {
	p := PT(&rec)
	if err := p.Validate(); err != nil {
		return rec, err
	}

	now := c.now()
	p.SetKey("")
	p.Stamp(now, now)
	if c.beforeWrite != nil {
		c.beforeWrite(p)
	}

	key, err := c.store.Push(ctx, c.name, rec)
	if err != nil {
		return rec, fmt.Errorf("%w: add to %s: %v", common.ErrPersistence, c.name, err)
	}
	p.SetKey(key)

	c.logger.Info(ctx, "record added", "id", key)
	return rec, nil
}

// Update replaces the document at id with rec and a fresh updatedAt. Nothing
// of the previous document survives unless rec carries it.
func (c *Collection[T, PT]) Update(ctx context.Context, id string, rec T) (T, error) {
	p := PT(&rec)
	p.SetKey("")
	p.Stamp(time.Time{}, c.now())
	if c.beforeWrite != nil {
		c.beforeWrite(p)
	}

	if err := c.store.Set(ctx, c.path(id), rec); err != nil {
		return rec, fmt.Errorf("%w: update %s/%s: %v", common.ErrPersistence, c.name, id, err)
	}
	p.SetKey(id)

	c.logger.Info(ctx, "record updated", "id", id)
	return rec, nil
}

// Delete removes id. Deleting a missing record succeeds.
func (c *Collection[T, PT]) Delete(ctx context.Context, id string) error {
	if err := c.store.Remove(ctx, c.path(id)); err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", common.ErrPersistence, c.name, id, err)
	}
	c.logger.Info(ctx, "record deleted", "id", id)
	return nil
}

// Subscribe streams the whole sorted collection after every change, starting
// with its current content.
func (c *Collection[T, PT]) Subscribe(ctx context.Context) (*Subscription[T], error) {
	ctx, cancel := context.WithCancel(ctx)

	in, err := c.store.Watch(ctx, c.name)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: watch %s: %v", common.ErrPersistence, c.name, err)
	}

	out := make(chan []T, 1)
	sub := &Subscription[T]{C: out, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer close(out)
		for raw := range in {
			replaceLatest(out, c.decode(ctx, raw))
		}
	}()

	return sub, nil
}

func (c *Collection[T, PT]) path(id string) string {
	return c.name + "/" + id
}
