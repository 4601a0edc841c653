package flow

import "sync"

// SessionManager tracks the active flow per chat. One flow at a time per
// chat; inbound events for one chat are processed sequentially, so the
// lock only guards cross-chat access to the map.
type SessionManager struct {
	mu    sync.Mutex
	flows map[int64]Flow
}

// NewSessionManager creates an empty session manager
func NewSessionManager() *SessionManager {
	return &SessionManager{flows: make(map[int64]Flow)}
}

// Get returns the chat's active flow, or nil.
func (m *SessionManager) Get(chatID int64) Flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flows[chatID]
}

// Set replaces the chat's active flow.
func (m *SessionManager) Set(chatID int64, f Flow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flows[chatID] = f
}

// Clear removes the chat's active flow.
func (m *SessionManager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, chatID)
}
