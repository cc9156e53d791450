package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Driver used in tests and single-node dev runs.
type Memory struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

func (d *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	d.mu.RLock()
	raw, ok := d.m[key]
	d.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	// copy so callers cannot mutate the stored slice
	out := make([]byte, len(raw))
	copy(out, raw)

	return out, nil
}

func (d *Memory) Set(ctx context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)

	d.mu.Lock()
	d.m[key] = cp
	d.mu.Unlock()

	return nil
}

func (d *Memory) Del(ctx context.Context, key string) error {
	d.mu.Lock()
	delete(d.m, key)
	d.mu.Unlock()

	return nil
}

// Keys is a test helper, it reports which keys currently hold a value.
func (d *Memory) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, 0, len(d.m))
	for k := range d.m {
		out = append(out, k)
	}

	return out
}
