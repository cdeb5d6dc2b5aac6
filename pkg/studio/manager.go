package studio

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultSessionTTL は無操作のセッションを破棄するまでの時間です。
	DefaultSessionTTL = 24 * time.Hour

	// DefaultCleanupInterval は期限切れセッションの掃除間隔です。
	DefaultCleanupInterval = 10 * time.Minute

	// MaxSessions を超えると最も長く使われていないセッションを破棄します。
	MaxSessions = 1000
)

type sessionInfo struct {
	ctrl         *Controller
	lastActivity time.Time
}

// Manager はブラウザセッションごとの Controller を管理します。
// 状態はプロセスのメモリ上にのみ存在します。
//
// Manager は複数のゴルーチンから安全に利用できます。
type Manager struct {
	factory func() (*Controller, error)
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionInfo

	cancelCleanup context.CancelFunc
	cleanupDone   chan struct{}
}

// NewManager は factory で Controller を生成する Manager を作成し、掃除用のゴルーチンを起動します。
// ttl が 0 以下の場合は DefaultSessionTTL を使います。
func NewManager(factory func() (*Controller, error), ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		factory:       factory,
		ttl:           ttl,
		now:           time.Now,
		sessions:      make(map[string]*sessionInfo),
		cancelCleanup: cancel,
		cleanupDone:   make(chan struct{}),
	}
	go m.cleanupLoop(ctx, DefaultCleanupInterval)
	return m
}

// Create は新しいセッションを作成し、その ID と Controller を返します。
func (m *Manager) Create() (string, *Controller, error) {
	ctrl, err := m.factory()
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sessions) >= MaxSessions {
		m.evictLRU()
	}
	m.sessions[id] = &sessionInfo{ctrl: ctrl, lastActivity: m.now()}
	return id, ctrl, nil
}

// Get は ID に対応する Controller を返し、最終アクセス時刻を更新します。
func (m *Manager) Get(id string) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	info.lastActivity = m.now()
	return info.ctrl, true
}

// Delete はセッションを終了します。存在しなければ何もしません。
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown は掃除用のゴルーチンを停止して終了を待ちます。
func (m *Manager) Shutdown() {
	if m.cancelCleanup != nil {
		m.cancelCleanup()
		<-m.cleanupDone
		m.cancelCleanup = nil
	}
}

func (m *Manager) cleanupLoop(ctx context.Context, interval time.Duration) {
	defer close(m.cleanupDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Cleanup(); n > 0 {
				slog.Info("期限切れのセッションを削除しました", "count", n)
			}
		}
	}
}

// Cleanup は ttl を過ぎたセッションを削除し、削除件数を返します。掃除用のゴルーチンから定期的に呼ばれます。
func (m *Manager) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	removed := 0
	for id, info := range m.sessions {
		if info.lastActivity.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// evictLRU は呼び出し側で mu を保持していること。
func (m *Manager) evictLRU() {
	var oldestID string
	var oldest time.Time
	for id, info := range m.sessions {
		if oldestID == "" || info.lastActivity.Before(oldest) {
			oldestID = id
			oldest = info.lastActivity
		}
	}
	if oldestID != "" {
		delete(m.sessions, oldestID)
		slog.Info("セッション数の上限に達したため最古のセッションを削除しました", "session_id", oldestID)
	}
}
