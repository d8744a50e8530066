package services

import (
	"sync"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
)

// DefaultSessionHistorySize is the number of movements kept per user.
const DefaultSessionHistorySize = 5

// SessionHistory remembers the last movements recorded by this process,
// most recent first, separately for each owner. It is safe for concurrent use.
type SessionHistory struct {
	mu      sync.Mutex
	size    int
	byOwner map[string][]domain.Movement
}

// NewSessionHistory creates a history keeping up to size movements per owner.
func NewSessionHistory(size int) *SessionHistory {
	if size <= 0 {
		size = DefaultSessionHistorySize
	}
	return &SessionHistory{size: size, byOwner: make(map[string][]domain.Movement)}
}

// Add records m for every listed owner. Duplicate owners are recorded once.
func (h *SessionHistory) Add(m domain.Movement, ownerIDs ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[string]struct{}, len(ownerIDs))
	for _, owner := range ownerIDs {
		if _, dup := seen[owner]; dup {
			continue
		}
		seen[owner] = struct{}{}

		entries := append([]domain.Movement{m}, h.byOwner[owner]...)
		if len(entries) > h.size {
			entries = entries[:h.size]
		}
		h.byOwner[owner] = entries
	}
}

// Recent returns a copy of the movements recorded for ownerID, newest first.
func (h *SessionHistory) Recent(ownerID string) []domain.Movement {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.Movement, len(h.byOwner[ownerID]))
	copy(out, h.byOwner[ownerID])
	return out
}
