package editor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/image-cropper/internal/models"
	"github.com/phambaophuc/image-cropper/internal/services/processor"
	"go.uber.org/zap"
)

// Store keeps sessions in memory. Sessions unused for longer than the TTL
// are dropped by Cleanup.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	ttl       time.Duration
	processor *processor.ImageProcessor
	logger    *zap.Logger
	now       func() time.Time
}

func NewStore(p *processor.ImageProcessor, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		sessions:  make(map[string]*Session),
		ttl:       ttl,
		processor: p,
		logger:    logger,
		now:       time.Now,
	}
}

func (st *Store) Create(layout models.Layout) (*Session, error) {
	s, err := NewSession(uuid.New().String(), layout, st.processor)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	st.sessions[s.ID()] = s
	st.mu.Unlock()

	st.logger.Info("Session created", zap.String("session_id", s.ID()))
	return s, nil
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Cleanup removes expired sessions and returns how many were removed.
func (st *Store) Cleanup() int {
	if st.ttl <= 0 {
		return 0
	}
	deadline := st.now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.lastUsed().Before(deadline) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor runs Cleanup every interval until ctx is done.
func (st *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || st.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := st.Cleanup(); n > 0 {
					st.logger.Info("Expired sessions removed", zap.Int("count", n))
				}
			}
		}
	}()
}
