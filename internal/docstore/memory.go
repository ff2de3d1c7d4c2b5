package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("document store closed")

type memoryWatcher struct {
	path []string
	ch   chan json.RawMessage
}

// Memory is an in-process Store. Values are kept as decoded JSON so reads
// always return freshly encoded copies.
type Memory struct {
	mu       sync.Mutex
	root     map[string]any
	watchers map[*memoryWatcher]struct{}
	closed   bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		root:     map[string]any{},
		watchers: map[*memoryWatcher]struct{}{},
	}
}

func (m *Memory) Get(ctx context.Context, path string) (json.RawMessage, error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	return m.snapshot(parts), nil
}

func (m *Memory) Set(ctx context.Context, path string, value any) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}
	raw, err := encode(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	var decoded any
	if !isNull(raw) {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if decoded == nil {
		deletePath(m.root, parts)
	} else {
		setPath(m.root, parts, decoded)
	}
	m.notify(parts)
	return nil
}

func (m *Memory) Push(ctx context.Context, path string, value any) (string, error) {
	key, err := newKey()
	if err != nil {
		return "", err
	}
	if err := m.Set(ctx, path+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

func (m *Memory) Remove(ctx context.Context, path string) error {
	return m.Set(ctx, path, nil)
}

func (m *Memory) Watch(ctx context.Context, path string) (<-chan json.RawMessage, error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	w := &memoryWatcher{path: parts, ch: make(chan json.RawMessage, 1)}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	m.watchers[w] = struct{}{}
	offer(w.ch, m.snapshot(parts))
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.watchers[w]; ok {
			delete(m.watchers, w)
			close(w.ch)
		}
	}()

	return w.ch, nil
}

// Close drops all data and closes every watch channel.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for w := range m.watchers {
		delete(m.watchers, w)
		close(w.ch)
	}
	m.root = nil
	return nil
}

// notify must be called with mu held.
func (m *Memory) notify(changed []string) {
	for w := range m.watchers {
		if overlaps(w.path, changed) {
			offer(w.ch, m.snapshot(w.path))
		}
	}
}

// snapshot must be called with mu held.
func (m *Memory) snapshot(parts []string) json.RawMessage {
	var cur any = m.root
	for _, p := range parts {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		if cur, ok = node[p]; !ok {
			return nil
		}
	}
	raw, err := json.Marshal(cur)
	if err != nil {
		return nil
	}
	return raw
}

func setPath(root map[string]any, parts []string, value any) {
	node := root
	for _, p := range parts[:len(parts)-1] {
		child, ok := node[p].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[p] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value
}

// deletePath removes the leaf and prunes parents left empty.
func deletePath(node map[string]any, parts []string) {
	if len(parts) == 1 {
		delete(node, parts[0])
		return
	}
	child, ok := node[parts[0]].(map[string]any)
	if !ok {
		return
	}
	deletePath(child, parts[1:])
	if len(child) == 0 {
		delete(node, parts[0])
	}
}
