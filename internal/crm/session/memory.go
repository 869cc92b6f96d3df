package session

import (
	"context"
	"hash/fnv"
	"sync"
)

const shardCount = 32

// MemoryRegistry is the default, process-local registry. State is sharded by
// username hash so logins for different users don't contend on one lock;
// operations for the same username always land on the same shard and are
// therefore linearizable.
//
// Restarting the process forgets every session, which matches the intended
// deployment: a restart forces everyone to log in again.
type MemoryRegistry struct {
	shards [shardCount]registryShard
}

type registryShard struct {
	mu      sync.Mutex
	access  map[string][]string
	refresh map[string]string
}

func NewMemoryRegistry() *MemoryRegistry {
	r := &MemoryRegistry{}
	for i := range r.shards {
		r.shards[i].access = make(map[string][]string)
		r.shards[i].refresh = make(map[string]string)
	}
	return r
}

func (r *MemoryRegistry) shardFor(username string) *registryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return &r.shards[h.Sum32()%shardCount]
}

func (r *MemoryRegistry) RegisterAccess(_ context.Context, username, token string) error {
	s := r.shardFor(username)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access[username] = append(s.access[username], token)
	return nil
}

func (r *MemoryRegistry) RegisterRefresh(_ context.Context, username, token string) error {
	s := r.shardFor(username)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh[username] = token
	return nil
}

func (r *MemoryRegistry) RevokeAccess(_ context.Context, username, token string) (bool, error) {
	s := r.shardFor(username)
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, ok := s.access[username]
	if !ok {
		return false, nil
	}

	for i, candidate := range tokens {
		if candidate != token {
			continue
		}
		tokens = append(tokens[:i], tokens[i+1:]...)
		if len(tokens) == 0 {
			// Drop the key so an empty slice never lingers.
			delete(s.access, username)
		} else {
			s.access[username] = tokens
		}
		return true, nil
	}
	return false, nil
}

func (r *MemoryRegistry) IsHonoredAccess(_ context.Context, username, token string) (bool, error) {
	s := r.shardFor(username)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, candidate := range s.access[username] {
		if candidate == token {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRegistry) ClearUser(_ context.Context, username string) error {
	s := r.shardFor(username)
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.access, username)
	delete(s.refresh, username)
	return nil
}

func (r *MemoryRegistry) ActiveCount(_ context.Context, username string) (int, error) {
	s := r.shardFor(username)
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.access[username]), nil
}
