package sessionRepo

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySessionRepo keeps sessions in process memory. Sessions are stored
// serialized so callers never share state with the store.
type MemorySessionRepo struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

func NewMemorySessionRepo(ttl time.Duration) *MemorySessionRepo {
	return &MemorySessionRepo{ttl: ttl, sessions: make(map[string]memoryEntry), now: time.Now}
}

func (r *MemorySessionRepo) Create(_ context.Context, lang string) (*BrowserSession, error) {
	now := r.now()
	s := &BrowserSession{ID: uuid.New().String(), Lang: lang, CreatedAt: now, UpdatedAt: now}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.put(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get also extends the session's TTL.
func (r *MemorySessionRepo) Get(_ context.Context, id string) (*BrowserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.load(id)
	if err != nil {
		return nil, err
	}
	e := r.sessions[id]
	e.expires = r.now().Add(r.ttl)
	r.sessions[id] = e
	return s, nil
}

func (r *MemorySessionRepo) Update(_ context.Context, id string, fn func(*BrowserSession) error) (*BrowserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.load(id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = r.now()
	if err := r.put(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *MemorySessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *MemorySessionRepo) load(id string) (*BrowserSession, error) {
	e, ok := r.sessions[id]
	if !ok || (r.ttl > 0 && r.now().After(e.expires)) {
		delete(r.sessions, id)
		return nil, ErrNotFound
	}
	return decode(e.data)
}

func (r *MemorySessionRepo) put(s *BrowserSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	r.sessions[s.ID] = memoryEntry{data: data, expires: r.now().Add(r.ttl)}
	return nil
}
