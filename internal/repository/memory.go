package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

type memoryEntry struct {
	session   entity.Session
	expiresAt time.Time
}

// MemoryGameRepository keeps sessions in process memory. Expired entries are
// dropped on access and by Run, which sweeps the whole map once per ttl.
type MemoryGameRepository struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

func NewMemoryGameRepository(ttl time.Duration) *MemoryGameRepository {
	return newMemoryGameRepository(ttl, time.Now)
}

func newMemoryGameRepository(ttl time.Duration, now func() time.Time) *MemoryGameRepository {
	return &MemoryGameRepository{
		ttl:      ttl,
		now:      now,
		sessions: make(map[string]memoryEntry),
	}
}

func (that *MemoryGameRepository) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	entry := memoryEntry{session: *session}
	if that.ttl > 0 {
		entry.expiresAt = that.now().Add(that.ttl)
	}

	that.mu.Lock()
	that.sessions[session.ID] = entry
	that.mu.Unlock()

	return nil
}

func (that *MemoryGameRepository) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	entry, ok := that.sessions[id]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	if that.expired(entry) {
		that.mu.Lock()
		if current, ok := that.sessions[id]; ok && that.expired(current) {
			delete(that.sessions, id)
		}
		that.mu.Unlock()

		return nil, apperror.ErrSessionNotFound
	}

	session := entry.session

	return &session, nil
}

func (that *MemoryGameRepository) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.sessions[id]
	if !ok || that.expired(entry) {
		delete(that.sessions, id)
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

func (that *MemoryGameRepository) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !that.now().Before(entry.expiresAt)
}

// Run sweeps expired sessions every ttl until ctx is done. With no ttl nothing
// expires and Run returns at once.
func (that *MemoryGameRepository) Run(ctx context.Context) {
	if that.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(that.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.Sweep()
		}
	}
}

// Sweep deletes every expired session and returns how many were removed.
func (that *MemoryGameRepository) Sweep() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	removed := 0
	for id, entry := range that.sessions {
		if that.expired(entry) {
			delete(that.sessions, id)
			removed++
		}
	}

	return removed
}

// Len reports how many sessions are held, expired or not.
func (that *MemoryGameRepository) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}
