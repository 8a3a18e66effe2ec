package state

import (
	"sync"
	"time"
)

// DefaultTTL сколько живёт незавершённый диалог
const DefaultTTL = 2 * time.Minute

// Manager управляет состояниями пользователей. Состояние истекает через ttl.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
	ttl    time.Duration
	now    func() time.Time
}

// NewManager создаёт менеджер; now == nil означает time.Now
func NewManager(ttl time.Duration, now func() time.Time) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{
		states: make(map[int64]*UserData),
		ttl:    ttl,
		now:    now,
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, ok := sm.live(telegramID); ok {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние и продлевает срок жизни
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, telegramID)
		return
	}

	sm.states[telegramID] = &UserData{
		State:     state,
		Data:      make(map[string]any),
		ExpiresAt: sm.now().Add(sm.ttl),
	}
}

// GetData получает временные данные пользователя
func (sm *Manager) GetData(telegramID int64, key string) (any, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, ok := sm.live(telegramID); ok {
		value, found := userData.Data[key]
		return value, found
	}
	return nil, false
}

// SetData сохраняет данные для активного диалога
func (sm *Manager) SetData(telegramID int64, key string, value any) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if userData, ok := sm.live(telegramID); ok {
		userData.Data[key] = value
	}
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// live запись пользователя, если она не истекла; вызывающий держит блокировку
func (sm *Manager) live(telegramID int64) (*UserData, bool) {
	userData, exists := sm.states[telegramID]
	if !exists || sm.now().After(userData.ExpiresAt) {
		return nil, false
	}
	return userData, true
}
