package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

// mockStore records calls and serves values from a map.
type mockStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setErr  error
	gets    []string
	sets    []string
	deletes []string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string][]byte)}
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets = append(m.gets, key)
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets = append(m.sets, key)
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	delete(m.data, key)
	return nil
}

func (m *mockStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

type snapshot struct {
	ID    string `json:"id" msgpack:"id"`
	Count int    `json:"count" msgpack:"count"`
}

func TestGetOrFetch_MissThenHit(t *testing.T) {
	for _, codec := range []Codec{MsgpackCodec(), JSONCodec()} {
		t.Run(codec.Name(), func(t *testing.T) {
			store := newMockStore()
			calls := 0
			fetch := func(ctx context.Context) (snapshot, error) {
				calls++
				return snapshot{ID: "a", Count: calls}, nil
			}

			first, hit, err := GetOrFetch(context.Background(), store, codec, "menus/a", fetch)
			if err != nil {
				t.Fatalf("first GetOrFetch() error = %v", err)
			}
			if hit {
				t.Error("first read should be a miss")
			}

			second, hit, err := GetOrFetch(context.Background(), store, codec, "menus/a", fetch)
			if err != nil {
				t.Fatalf("second GetOrFetch() error = %v", err)
			}
			if !hit {
				t.Error("second read should be a hit")
			}
			if calls != 1 {
				t.Errorf("fetch called %d times, want 1", calls)
			}
			if first != second {
				t.Errorf("hit returned %+v, want %+v", second, first)
			}
		})
	}
}

func TestGetOrFetch_FetchErrorNotCached(t *testing.T) {
	store := newMockStore()
	notFound := errors.New("menu not found")

	_, _, err := GetOrFetch(context.Background(), store, MsgpackCodec(), "menus/x", func(ctx context.Context) (snapshot, error) {
		return snapshot{}, notFound
	})

	if !errors.Is(err, notFound) {
		t.Fatalf("GetOrFetch() error = %v, want %v", err, notFound)
	}
	if len(store.sets) != 0 {
		t.Errorf("Set called %d times after fetch error, want 0", len(store.sets))
	}
}

func TestGetOrFetch_BackendErrorIsNotAMiss(t *testing.T) {
	store := newMockStore()
	backendErr := &BackendError{Backend: "redis", Op: "get", Key: "menus", Err: errors.New("connection refused")}
	store.getErr = backendErr

	called := false
	_, _, err := GetOrFetch(context.Background(), store, MsgpackCodec(), "menus", func(ctx context.Context) ([]snapshot, error) {
		called = true
		return nil, nil
	})

	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("GetOrFetch() error = %v, want *BackendError", err)
	}
	if called {
		t.Error("fetch must not run when the backend fails")
	}
}

func TestGetOrFetch_SetErrorPropagates(t *testing.T) {
	store := newMockStore()
	store.setErr = errors.New("out of memory")

	_, _, err := GetOrFetch(context.Background(), store, MsgpackCodec(), "menus", func(ctx context.Context) ([]snapshot, error) {
		return []snapshot{}, nil
	})

	if !errors.Is(err, store.setErr) {
		t.Errorf("GetOrFetch() error = %v, want %v", err, store.setErr)
	}
}

func TestGetOrFetch_EmptyListRoundTrip(t *testing.T) {
	store := newMockStore()
	fetch := func(ctx context.Context) ([]snapshot, error) {
		return []snapshot{}, nil
	}

	if _, _, err := GetOrFetch(context.Background(), store, JSONCodec(), "menus", fetch); err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}

	got, hit, err := GetOrFetch(context.Background(), store, JSONCodec(), "menus", fetch)
	if err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}
	if !hit {
		t.Error("expected hit")
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty non-nil slice", got)
	}
}

func TestGetOrFetch_CorruptEntry(t *testing.T) {
	store := newMockStore()
	store.data["menus/a"] = []byte("{not json")

	_, _, err := GetOrFetch(context.Background(), store, JSONCodec(), "menus/a", func(ctx context.Context) (snapshot, error) {
		return snapshot{}, nil
	})
	if err == nil {
		t.Error("expected decode error")
	}
}

func TestBackendError_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := &BackendError{Backend: "memcache", Op: "set", Key: "menus", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("BackendError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "memcache set") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestCodecByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "", want: CodecMsgpack},
		{name: "msgpack", want: CodecMsgpack},
		{name: "json", want: CodecJSON},
		{name: "gob", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := CodecByName(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CodecByName() error = %v", err)
			}
			if codec.Name() != tt.want {
				t.Errorf("Name() = %v, want %v", codec.Name(), tt.want)
			}
		})
	}
}
