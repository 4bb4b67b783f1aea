// Package sources opens panoramas once and shares them between views.
package sources

import (
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/panoview/pkg/equirect"
)

// Manager caches decoded panoramas by path. Concurrent opens of the same path
// decode it once. Failed opens are not cached.
type Manager struct {
	opts []equirect.Option
	log  *zap.Logger

	group singleflight.Group

	mu     sync.Mutex
	cache  map[string]*equirect.Equirectangular
	hits   int
	misses int
}

// NewManager creates a manager that opens every panorama with opts.
func NewManager(log *zap.Logger, opts ...equirect.Option) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		opts:  opts,
		log:   log,
		cache: make(map[string]*equirect.Equirectangular),
	}
}

// Open returns the panorama at path, decoding it on first use.
func (m *Manager) Open(path string) (*equirect.Equirectangular, error) {
	key := filepath.Clean(path)

	m.mu.Lock()
	if src, ok := m.cache[key]; ok {
		m.hits++
		m.mu.Unlock()
		return src, nil
	}
	m.mu.Unlock()

	// Only the caller that runs fn decodes; the rest share its result.
	leader := false
	v, err, _ := m.group.Do(key, func() (any, error) {
		leader = true
		m.mu.Lock()
		src, ok := m.cache[key]
		if ok {
			m.hits++
		} else {
			m.misses++
		}
		m.mu.Unlock()
		if ok {
			return src, nil
		}

		start := time.Now()
		src, err := equirect.Open(key, m.opts...)
		if err != nil {
			return nil, err
		}
		m.log.Info("panorama loaded",
			zap.String("path", key),
			zap.Int("width", src.Width()),
			zap.Int("height", src.Height()),
			zap.Duration("elapsed", time.Since(start)),
		)

		m.mu.Lock()
		m.cache[key] = src
		m.mu.Unlock()
		return src, nil
	})
	if err != nil {
		return nil, err
	}
	if !leader {
		m.mu.Lock()
		m.hits++
		m.mu.Unlock()
	}
	return v.(*equirect.Equirectangular), nil
}

// Len returns the number of cached panoramas.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cache)
}

// Clear drops every cached panorama.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]*equirect.Equirectangular)
	m.hits = 0
	m.misses = 0
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}
