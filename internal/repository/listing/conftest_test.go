package listing

import (
	"context"
	"testing"
)

// mockStore implements the consumer interface for tests. It keeps hashes and
// lists in memory unless a fn override is installed.
type mockStore struct {
	hashes map[string]map[string]string
	lists  map[string][]string

	hsetErr   error
	lrangeErr error
	multiErr  error
}

func newMockStore() *mockStore {
	return &mockStore{
		hashes: make(map[string]map[string]string),
		lists:  make(map[string][]string),
	}
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.hsetErr != nil {
		return m.hsetErr
	}
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	m.hashes[key] = cp
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	return m.hashes[key], nil
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if m.multiErr != nil {
		return nil, m.multiErr
	}
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = m.hashes[k]
	}
	return out, nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	delete(m.hashes, key)
	return nil
}

func (m *mockStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.hashes[key]
	return ok, nil
}

func (m *mockStore) ListPush(_ context.Context, key string, values ...string) error {
	m.lists[key] = append(m.lists[key], values...)
	return nil
}

func (m *mockStore) ListRange(_ context.Context, key string) ([]string, error) {
	if m.lrangeErr != nil {
		return nil, m.lrangeErr
	}
	return m.lists[key], nil
}

func (m *mockStore) ListRemove(_ context.Context, key, value string) error {
	kept := m.lists[key][:0]
	for _, v := range m.lists[key] {
		if v != value {
			kept = append(kept, v)
		}
	}
	m.lists[key] = kept
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	repo := New(ms, "compost:")
	n := 0
	repo.newID = func() string {
		n++
		return "id-" + string(rune('0'+n))
	}
	return repo, ms
}
